package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"persona-llm/internal/domain"
)

// PersonaCache guarda resultados de análisis terminados por username, con TTL.
// Un hit evita volver a golpear Reddit y el LLM para el mismo usuario.
type PersonaCache interface {
	Get(ctx context.Context, username string) (domain.AnalysisResult, bool)
	Set(ctx context.Context, username string, result domain.AnalysisResult)
}

func cacheKeyFor(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

type memoryPersonaCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]memoryCacheItem
}

type memoryCacheItem struct {
	result    domain.AnalysisResult
	expiresAt time.Time
}

// NewMemoryPersonaCache crea un cache en memoria para correr sin redis.
func NewMemoryPersonaCache(ttl time.Duration) PersonaCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &memoryPersonaCache{
		ttl:   ttl,
		items: make(map[string]memoryCacheItem),
	}
}

func (c *memoryPersonaCache) Get(_ context.Context, username string) (domain.AnalysisResult, bool) {
	key := cacheKeyFor(username)
	if key == "" {
		return domain.AnalysisResult{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[key]
	if !ok {
		return domain.AnalysisResult{}, false
	}
	if time.Now().UTC().After(item.expiresAt) {
		delete(c.items, key)
		return domain.AnalysisResult{}, false
	}
	return item.result, true
}

func (c *memoryPersonaCache) Set(_ context.Context, username string, result domain.AnalysisResult) {
	key := cacheKeyFor(username)
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryCacheItem{
		result:    result,
		expiresAt: time.Now().UTC().Add(c.ttl),
	}
}

type redisPersonaCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisPersonaCache crea un cache respaldado en redis.
func NewRedisPersonaCache(client *redis.Client, ttl time.Duration) PersonaCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &redisPersonaCache{
		client: client,
		ttl:    ttl,
		prefix: "persona:cache:",
	}
}

func (c *redisPersonaCache) Get(ctx context.Context, username string) (domain.AnalysisResult, bool) {
	key := cacheKeyFor(username)
	if key == "" {
		return domain.AnalysisResult{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return domain.AnalysisResult{}, false
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return domain.AnalysisResult{}, false
	}
	return result, true
}

func (c *redisPersonaCache) Set(ctx context.Context, username string, result domain.AnalysisResult) {
	key := cacheKeyFor(username)
	if key == "" {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err()
}
