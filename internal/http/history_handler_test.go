package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"persona-llm/internal/domain"
	"persona-llm/internal/llm"
	"persona-llm/internal/reddit"
	"persona-llm/internal/repository"
	"persona-llm/internal/service"
)

func seededRepo(t *testing.T) *repository.MemoryAnalysisRepository {
	t.Helper()
	repo := repository.NewMemoryAnalysisRepository()
	ctx := context.Background()

	entries := []domain.Analysis{
		{ID: "a1", Username: "kojied", Archetype: "The Innovator",
			Embedding: pgvector.NewVector([]float32{1, 0, 0}),
			CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "a2", Username: "kojied", Archetype: "The Innovator",
			Embedding: pgvector.NewVector([]float32{1, 0.1, 0}),
			CreatedAt: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "b1", Username: "builder", Archetype: "The Creator",
			Embedding: pgvector.NewVector([]float32{0.9, 0.1, 0}),
			CreatedAt: time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "c1", Username: "wanderer", Archetype: "The Observer",
			Embedding: pgvector.NewVector([]float32{0, 1, 0}),
			CreatedAt: time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, a := range entries {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("seed repo: %v", err)
		}
	}
	return repo
}

func newHistoryRouter(repo repository.AnalysisRepository, enabled bool) *gin.Engine {
	logger := zap.NewNop()
	svc := service.NewPersonaService(
		func() reddit.Gateway { return &fakeGateway{} },
		&llm.MockClient{Embedding: []float32{1, 0, 0}},
		service.NewPersonaEnricher(),
		nil,
		repo,
		logger,
		5,
	)
	personaH := NewPersonaHandler(logger, svc, nil)
	historyH := NewHistoryHandler(logger, svc, enabled)
	return NewRouter(logger, personaH, historyH, nil, nil, false)
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListAnalysesDisabled(t *testing.T) {
	r := newHistoryRouter(nil, false)
	w := getPath(r, "/api/analyses/kojied")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without history, got %d", w.Code)
	}
}

func TestListAnalysesNewestFirst(t *testing.T) {
	r := newHistoryRouter(seededRepo(t), true)
	w := getPath(r, "/api/analyses/kojied")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Analyses []domain.Analysis `json:"analyses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Analyses) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(resp.Analyses))
	}
	if resp.Analyses[0].ID != "a2" || resp.Analyses[1].ID != "a1" {
		t.Fatalf("expected newest first, got %s then %s", resp.Analyses[0].ID, resp.Analyses[1].ID)
	}
}

func TestListAnalysesLimit(t *testing.T) {
	r := newHistoryRouter(seededRepo(t), true)
	w := getPath(r, "/api/analyses/kojied?limit=1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Analyses []domain.Analysis `json:"analyses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Analyses) != 1 || resp.Analyses[0].ID != "a2" {
		t.Fatalf("expected only the latest analysis, got %+v", resp.Analyses)
	}
}

func TestListAnalysesUnknownUserEmptyList(t *testing.T) {
	r := newHistoryRouter(seededRepo(t), true)
	w := getPath(r, "/api/analyses/ghost")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Analyses []domain.Analysis `json:"analyses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Analyses == nil || len(resp.Analyses) != 0 {
		t.Fatalf("expected empty list, got %#v", resp.Analyses)
	}
}

func TestSimilarUsersOrderedByDistance(t *testing.T) {
	r := newHistoryRouter(seededRepo(t), true)
	w := getPath(r, "/api/analyses/kojied/similar")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Similar []repository.ScoredAnalysis `json:"similar"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Similar) != 2 {
		t.Fatalf("expected 2 similar users, got %d", len(resp.Similar))
	}
	if resp.Similar[0].Analysis.Username != "builder" {
		t.Fatalf("expected builder closest, got %q", resp.Similar[0].Analysis.Username)
	}
	if resp.Similar[1].Analysis.Username != "wanderer" {
		t.Fatalf("expected wanderer farthest, got %q", resp.Similar[1].Analysis.Username)
	}
	for _, s := range resp.Similar {
		if s.Analysis.Username == "kojied" {
			t.Fatalf("probe user must be excluded from results")
		}
	}
}

func TestSimilarUsersUnknownUser(t *testing.T) {
	r := newHistoryRouter(seededRepo(t), true)
	w := getPath(r, "/api/analyses/ghost/similar")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for user without analyses, got %d", w.Code)
	}
}
