package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"persona-llm/internal/domain"
)

// ScoredAnalysis es un análisis previo con su distancia coseno al probe.
type ScoredAnalysis struct {
	Analysis domain.Analysis `json:"analysis"`
	Distance float64         `json:"distance"`
}

// AnalysisRepository persiste análisis terminados para historial y búsqueda
// de usuarios similares por embedding.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis domain.Analysis) error
	ListByUsername(ctx context.Context, username string, limit int) ([]domain.Analysis, error)
	SearchSimilar(ctx context.Context, username string, embedding pgvector.Vector, k int) ([]ScoredAnalysis, error)
}

type PgAnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnalysisRepository(pool *pgxpool.Pool) *PgAnalysisRepository {
	return &PgAnalysisRepository{pool: pool}
}

func (r *PgAnalysisRepository) Create(ctx context.Context, analysis domain.Analysis) error {
	resultJSON, err := json.Marshal(analysis.Result)
	if err != nil {
		return err
	}
	const query = `
		INSERT INTO analyses (id, username, total_karma, post_count, traits, archetype, result, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.pool.Exec(ctx, query,
		analysis.ID,
		strings.ToLower(analysis.Username),
		analysis.TotalKarma,
		analysis.PostCount,
		analysis.Traits,
		analysis.Archetype,
		resultJSON,
		analysis.Embedding,
		analysis.CreatedAt,
	)
	return err
}

func (r *PgAnalysisRepository) ListByUsername(ctx context.Context, username string, limit int) ([]domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT id, username, total_karma, post_count, traits, archetype, result, created_at
		FROM analyses
		WHERE username = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, strings.ToLower(username), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

func (r *PgAnalysisRepository) SearchSimilar(ctx context.Context, username string, embedding pgvector.Vector, k int) ([]ScoredAnalysis, error) {
	if k <= 0 {
		k = 5
	}
	// El DISTINCT ON exige ordenar por username, así que el LIMIT va en la
	// query exterior: primero el mejor análisis por usuario, después los k
	// más cercanos por distancia.
	const query = `
		SELECT id, username, total_karma, post_count, traits, archetype, result, created_at, distance
		FROM (
			SELECT DISTINCT ON (username)
				id, username, total_karma, post_count, traits, archetype, result, created_at,
				embedding <=> $2 AS distance
			FROM analyses
			WHERE username <> $1
			ORDER BY username, distance
		) best
		ORDER BY distance
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, strings.ToLower(username), embedding, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []ScoredAnalysis
	for rows.Next() {
		var a domain.Analysis
		var resultJSON []byte
		var distance float64
		if err := rows.Scan(
			&a.ID,
			&a.Username,
			&a.TotalKarma,
			&a.PostCount,
			&a.Traits,
			&a.Archetype,
			&resultJSON,
			&a.CreatedAt,
			&distance,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultJSON, &a.Result); err != nil {
			return nil, err
		}
		scored = append(scored, ScoredAnalysis{Analysis: a, Distance: distance})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scored, nil
}

func scanAnalyses(rows pgx.Rows) ([]domain.Analysis, error) {
	var analyses []domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		var resultJSON []byte
		if err := rows.Scan(
			&a.ID,
			&a.Username,
			&a.TotalKarma,
			&a.PostCount,
			&a.Traits,
			&a.Archetype,
			&resultJSON,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(resultJSON, &a.Result); err != nil {
			return nil, err
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return analyses, nil
}

// MemoryAnalysisRepository guarda análisis en memoria cuando no hay postgres.
type MemoryAnalysisRepository struct {
	mu       sync.Mutex
	analyses []domain.Analysis
}

func NewMemoryAnalysisRepository() *MemoryAnalysisRepository {
	return &MemoryAnalysisRepository{}
}

func (r *MemoryAnalysisRepository) Create(_ context.Context, analysis domain.Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses = append(r.analyses, analysis)
	return nil
}

func (r *MemoryAnalysisRepository) ListByUsername(_ context.Context, username string, limit int) ([]domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Analysis
	for i := len(r.analyses) - 1; i >= 0 && len(out) < limit; i-- {
		if strings.EqualFold(r.analyses[i].Username, username) {
			out = append(out, r.analyses[i])
		}
	}
	return out, nil
}

func (r *MemoryAnalysisRepository) SearchSimilar(_ context.Context, username string, embedding pgvector.Vector, k int) ([]ScoredAnalysis, error) {
	if k <= 0 {
		k = 5
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	probe := embedding.Slice()
	best := make(map[string]ScoredAnalysis)
	for _, a := range r.analyses {
		if strings.EqualFold(a.Username, username) {
			continue
		}
		d, err := cosineDistance(probe, a.Embedding.Slice())
		if err != nil {
			continue
		}
		key := strings.ToLower(a.Username)
		if existing, ok := best[key]; !ok || d < existing.Distance {
			best[key] = ScoredAnalysis{Analysis: a, Distance: d}
		}
	}

	scored := make([]ScoredAnalysis, 0, len(best))
	for _, s := range best {
		scored = append(scored, s)
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Distance < scored[j].Distance })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

var errVectorMismatch = errors.New("embedding dimensions mismatch")

func cosineDistance(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, errVectorMismatch
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, errVectorMismatch
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), nil
}
