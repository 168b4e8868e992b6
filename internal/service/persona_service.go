package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"persona-llm/internal/domain"
	"persona-llm/internal/llm"
	"persona-llm/internal/reddit"
	"persona-llm/internal/repository"
)

// ErrLLMUnavailable marca una falla de transporte contra el LLM,
// distinguible de una violación del contrato de salida.
var ErrLLMUnavailable = errors.New("llm unavailable")

// PersonaService orquesta el pipeline completo:
// authenticate → perfil → posts → prompt → LLM → extracción → enriquecido.
type PersonaService struct {
	newGateway    func() reddit.Gateway
	llmClient     llm.Client
	promptBuilder PersonaPromptBuilder
	enricher      *PersonaEnricher
	cache         PersonaCache
	analyses      repository.AnalysisRepository
	logger        *zap.Logger
	postLimit     int
}

// NewPersonaService construye el servicio. El gateway se crea por request:
// cada análisis usa su propio token, sin estado compartido entre requests.
func NewPersonaService(
	newGateway func() reddit.Gateway,
	llmClient llm.Client,
	enricher *PersonaEnricher,
	cache PersonaCache,
	analyses repository.AnalysisRepository,
	logger *zap.Logger,
	postLimit int,
) *PersonaService {
	if enricher == nil {
		enricher = NewPersonaEnricher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if postLimit <= 0 {
		postLimit = reddit.DefaultPostLimit
	}
	return &PersonaService{
		newGateway: newGateway,
		llmClient:  llmClient,
		enricher:   enricher,
		cache:      cache,
		analyses:   analyses,
		logger:     logger,
		postLimit:  postLimit,
	}
}

// Analyze corre el pipeline para un username y devuelve el payload combinado.
// Los pasos son estrictamente secuenciales; cada uno consume la salida del
// anterior. Una falla al traer posts degrada a lista vacía, el resto de las
// fallas son terminales.
func (s *PersonaService) Analyze(ctx context.Context, username string) (domain.AnalysisResult, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, username); ok {
			s.logger.Info("analysis cache hit", zap.String("username", username))
			return cached, nil
		}
	}

	gw := s.newGateway()
	if err := gw.Authenticate(ctx); err != nil {
		return domain.AnalysisResult{}, err
	}

	userInfo, err := gw.GetUserInfo(ctx, username)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	posts, err := gw.GetUserPosts(ctx, username, s.postLimit)
	if err != nil {
		// Sin posts sigue habiendo análisis; el log distingue
		// "cero posts" de "fetch falló".
		s.logger.Warn("fetch posts failed, continuing with empty list",
			zap.String("username", username), zap.Error(err))
		posts = []domain.Post{}
	}

	instruction := s.promptBuilder.BuildInstruction(userInfo, posts)

	rawReply, err := s.llmClient.Generate(ctx, instruction)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}

	inference, err := ExtractInference(rawReply)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	result := domain.AnalysisResult{
		UserInfo:  userInfo,
		UserPosts: posts,
		Reply:     inference,
		Persona:   s.enricher.Enrich(userInfo, posts, inference),
	}

	if s.cache != nil {
		s.cache.Set(ctx, username, result)
	}

	if s.analyses != nil {
		// Persistencia asincrónica: el historial no bloquea la respuesta.
		go s.persistAnalysis(result)
	}

	return result, nil
}

func (s *PersonaService) persistAnalysis(result domain.AnalysisResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	username := result.UserInfo.Username
	embedding, err := s.llmClient.CreateEmbedding(ctx, embeddingInput(result))
	if err != nil {
		s.logger.Warn("analysis embedding failed", zap.String("username", username), zap.Error(err))
		return
	}

	analysis := domain.Analysis{
		ID:         uuid.NewString(),
		Username:   username,
		TotalKarma: result.UserInfo.TotalKarma,
		PostCount:  len(result.UserPosts),
		Traits:     result.Reply.PersonalityTraits,
		Archetype:  result.Persona.Archetype,
		Result:     result,
		Embedding:  pgvector.NewVector(embedding),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.analyses.Create(ctx, analysis); err != nil {
		s.logger.Warn("analysis persist failed", zap.String("username", username), zap.Error(err))
		return
	}
	s.logger.Info("analysis persisted", zap.String("username", username), zap.String("analysis_id", analysis.ID))
}

// History lista análisis previos del username, más recientes primero.
func (s *PersonaService) History(ctx context.Context, username string, limit int) ([]domain.Analysis, error) {
	if s.analyses == nil {
		return nil, errors.New("analysis history not configured")
	}
	return s.analyses.ListByUsername(ctx, username, limit)
}

// SimilarUsers busca usuarios ya analizados con corpus de posts parecido.
// Usa el análisis más reciente del probe como punto de partida.
func (s *PersonaService) SimilarUsers(ctx context.Context, username string, k int) ([]repository.ScoredAnalysis, error) {
	if s.analyses == nil {
		return nil, errors.New("analysis history not configured")
	}
	recent, err := s.analyses.ListByUsername(ctx, username, 1)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, fmt.Errorf("no analyses recorded for %s", username)
	}

	probe := recent[0]
	if len(probe.Embedding.Slice()) == 0 {
		embed, err := s.llmClient.CreateEmbedding(ctx, embeddingInput(probe.Result))
		if err != nil {
			return nil, fmt.Errorf("create embedding: %w", err)
		}
		probe.Embedding = pgvector.NewVector(embed)
	}
	return s.analyses.SearchSimilar(ctx, username, probe.Embedding, k)
}

// embeddingInput resume el corpus analizado en un texto estable para embeddear.
func embeddingInput(result domain.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString(result.UserInfo.Username)
	sb.WriteString("\n")
	sb.WriteString(result.UserInfo.Description)
	for _, p := range result.UserPosts {
		sb.WriteString("\n")
		sb.WriteString(p.Subreddit)
		sb.WriteString(": ")
		sb.WriteString(p.Title)
		if p.Selftext != "" {
			sb.WriteString("\n")
			sb.WriteString(p.Selftext)
		}
	}
	for _, t := range result.Reply.PersonalityTraits {
		sb.WriteString("\n")
		sb.WriteString(t)
	}
	return sb.String()
}
