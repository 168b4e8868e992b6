package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"persona-llm/internal/config"
	"persona-llm/internal/llm"
	"persona-llm/internal/reddit"
	"persona-llm/internal/service"
)

// cli_persona analiza un usuario de Reddit desde la terminal e imprime el
// persona card como texto exportable.
func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	username := ""
	if len(os.Args) > 1 {
		username = strings.TrimSpace(os.Args[1])
	}
	if username == "" {
		fmt.Print("reddit username: ")
		reader := bufio.NewReader(os.Stdin)
		line, _ := reader.ReadString('\n')
		username = strings.TrimSpace(line)
	}
	if username == "" {
		log.Fatal("usage: cli_persona <username>")
	}
	// Acepta tanto el username pelado como la URL del perfil.
	if extracted, ok := apiURLUsername(username); ok {
		username = extracted
	}

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMEmbeddingModel, logger)
	newGateway := func() reddit.Gateway {
		return reddit.NewClient(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent, logger)
	}

	svc := service.NewPersonaService(
		newGateway,
		llmClient,
		service.NewPersonaEnricher(),
		nil,
		nil,
		logger,
		cfg.PostLimit,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := svc.Analyze(ctx, username)
	if err != nil {
		log.Fatalf("analyze %s: %v", username, err)
	}

	fmt.Println(service.ExportText(result.Persona))
}

func apiURLUsername(input string) (string, bool) {
	if !strings.Contains(input, "reddit.com/user/") {
		return "", false
	}
	rest := input[strings.Index(input, "reddit.com/user/")+len("reddit.com/user/"):]
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}
