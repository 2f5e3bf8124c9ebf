package service

import (
	"context"
	"debate_backend/internal/repository"
	"debate_backend/internal/testutil"
	"debate_backend/internal/util"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func setupTestRedis(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheService(client, time.Minute), mr
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := NewGuidelineService(repository.NewGuidelineRepository(db), NewCacheService(nil, 0))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := s.SeedDefaults(ctx); err != nil {
			t.Fatalf("SeedDefaults #%d: %v", i+1, err)
		}
	}
	all, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(DefaultGuidelines) {
		t.Errorf("expected %d guidelines, got %d", len(DefaultGuidelines), len(all))
	}
}

func TestGuidelineLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cache, mr := setupTestRedis(t)
	s := NewGuidelineService(repository.NewGuidelineRepository(db), cache)
	ctx := context.Background()

	if err := s.SeedDefaults(ctx); err != nil {
		t.Fatal(err)
	}

	texts, err := s.ActiveTexts(ctx)
	if err != nil || len(texts) != len(DefaultGuidelines) {
		t.Fatalf("ActiveTexts: %v, %d", err, len(texts))
	}
	if !mr.Exists(cacheKeyActiveGuidelines) {
		t.Error("active guidelines should be cached")
	}

	g, err := s.Create(ctx, GuidelineRequest{Text: "  Cite your sources.  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Text != "Cite your sources." || g.DisplayOrder != len(DefaultGuidelines)+1 {
		t.Errorf("unexpected guideline %+v", g)
	}
	if mr.Exists(cacheKeyActiveGuidelines) {
		t.Error("create must invalidate the cache")
	}

	inactive := false
	if _, err := s.Update(ctx, g.ID, GuidelineUpdateRequest{IsActive: &inactive}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	texts, _ = s.ActiveTexts(ctx)
	for _, text := range texts {
		if text == g.Text {
			t.Error("inactive guideline must not be listed")
		}
	}

	empty := " "
	if _, err := s.Update(ctx, g.ID, GuidelineUpdateRequest{Text: &empty}); !errors.Is(err, util.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if _, err := s.Create(ctx, GuidelineRequest{Text: ""}); !errors.Is(err, util.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	if err := s.Delete(ctx, g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, g.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Update(ctx, 9999, GuidelineUpdateRequest{}); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
