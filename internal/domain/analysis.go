package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// AnalysisResult es el payload combinado que responde el endpoint principal.
type AnalysisResult struct {
	UserInfo  UserProfile          `json:"userInfo"`
	UserPosts []Post               `json:"userPosts"`
	Reply     PersonalityInference `json:"reply"`
	Persona   Persona              `json:"persona"`
}

// Analysis es el registro histórico opcional de un análisis terminado.
// El embedding resume el corpus de posts para búsquedas de similitud.
type Analysis struct {
	ID         string          `json:"id"`
	Username   string          `json:"username"`
	TotalKarma int             `json:"total_karma"`
	PostCount  int             `json:"post_count"`
	Traits     []string        `json:"traits"`
	Archetype  string          `json:"archetype"`
	Result     AnalysisResult  `json:"result"`
	Embedding  pgvector.Vector `json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}
