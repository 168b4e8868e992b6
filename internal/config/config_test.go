package config

import (
	"os"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REDDIT_CLIENT_ID", "rid")
	t.Setenv("REDDIT_CLIENT_SECRET", "rsecret")
	t.Setenv("LLM_API_KEY", "lkey")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.HTTPPort != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.HTTPPort)
	}
	if cfg.PostLimit != 5 {
		t.Fatalf("expected default post limit 5, got %d", cfg.PostLimit)
	}
	if cfg.RateLimitPerMinute != 10 {
		t.Fatalf("expected default rate limit 10, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.LLMBaseURL != "https://api.openai.com/v1" {
		t.Fatalf("unexpected default base url %q", cfg.LLMBaseURL)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("POST_LIMIT", "10")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.HTTPPort != "9100" || cfg.PostLimit != 10 || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "rid")
	t.Setenv("REDDIT_CLIENT_SECRET", "rsecret")
	// required falla solo si la variable no existe, no si está vacía.
	t.Setenv("LLM_API_KEY", "x")
	os.Unsetenv("LLM_API_KEY")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when LLM_API_KEY is missing")
	}
}
