package service

import (
	"context"
	"testing"

	"persona-llm/internal/domain"
)

func TestMemoryCacheSetGet(t *testing.T) {
	cache := NewMemoryPersonaCache(0)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "kojied"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	result := domain.AnalysisResult{UserInfo: sampleProfile()}
	cache.Set(ctx, "kojied", result)

	got, ok := cache.Get(ctx, "kojied")
	if !ok {
		t.Fatalf("expected hit after set")
	}
	if got.UserInfo.Username != "kojied" {
		t.Fatalf("unexpected cached result: %+v", got)
	}
}

func TestMemoryCacheKeyIsCaseInsensitive(t *testing.T) {
	cache := NewMemoryPersonaCache(0)
	ctx := context.Background()

	cache.Set(ctx, "KoJiEd", domain.AnalysisResult{UserInfo: sampleProfile()})
	if _, ok := cache.Get(ctx, "kojied"); !ok {
		t.Fatalf("expected hit with different casing")
	}
}

func TestMemoryCacheIgnoresEmptyUsername(t *testing.T) {
	cache := NewMemoryPersonaCache(0)
	ctx := context.Background()

	cache.Set(ctx, "   ", domain.AnalysisResult{})
	if _, ok := cache.Get(ctx, ""); ok {
		t.Fatalf("empty username must never hit")
	}
}
