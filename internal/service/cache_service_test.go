package service

import (
	"context"
	"debate_backend/internal/repository"
	"debate_backend/internal/testutil"
	"debate_backend/internal/util"
	"errors"
	"testing"
)

func TestCacheServiceNilSafe(t *testing.T) {
	ctx := context.Background()
	for _, c := range []*CacheService{nil, NewCacheService(nil, 0)} {
		var dest []string
		if c.GetJSON(ctx, "k", &dest) {
			t.Error("disabled cache must miss")
		}
		c.SetJSON(ctx, "k", []string{"v"})
		c.Delete(ctx, "k")
		c.InvalidateTopics(ctx)
	}
}

func TestCacheServiceRoundTripAndCorruption(t *testing.T) {
	c, mr := setupTestRedis(t)
	ctx := context.Background()

	c.SetJSON(ctx, "k", map[string]int{"a": 1})
	var got map[string]int
	if !c.GetJSON(ctx, "k", &got) || got["a"] != 1 {
		t.Fatalf("expected hit, got %v", got)
	}
	if ttl := mr.TTL("k"); ttl != c.TTL {
		t.Errorf("expected ttl %v, got %v", c.TTL, ttl)
	}

	mr.Set("k", "{not json")
	if c.GetJSON(ctx, "k", &got) {
		t.Error("corrupted entry must be treated as a miss")
	}

	mr.Close()
	if c.GetJSON(ctx, "other", &got) {
		t.Error("unreachable redis must be treated as a miss")
	}
}

func TestTopicListCaching(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cache, mr := setupTestRedis(t)
	s := NewTopicService(repository.NewTopicRepository(db), nil, cache)
	ctx := context.Background()

	if _, err := s.Create(ctx, TopicRequest{Title: "Cats vs Dogs", LeftLabel: "Cats", RightLabel: "Dogs"}); err != nil {
		t.Fatal(err)
	}

	topics, err := s.List(ctx, nil)
	if err != nil || len(topics) != 1 {
		t.Fatalf("List: %v, %d", err, len(topics))
	}
	if !mr.Exists(topicsCacheKey(nil)) {
		t.Fatal("topic list should be cached")
	}

	// 缓存命中时不访问数据库
	testutil.CreateTopic(t, db, "Written behind the cache")
	topics, _ = s.List(ctx, nil)
	if len(topics) != 1 {
		t.Errorf("expected cached result, got %d topics", len(topics))
	}

	if _, err := s.Create(ctx, TopicRequest{Title: "Tea vs Coffee", LeftLabel: "Tea", RightLabel: "Coffee"}); err != nil {
		t.Fatal(err)
	}
	if mr.Exists(topicsCacheKey(nil)) {
		t.Error("create must invalidate topic lists")
	}
	topics, _ = s.List(ctx, nil)
	if len(topics) != 3 {
		t.Errorf("expected 3 topics after invalidation, got %d", len(topics))
	}

	if _, err := s.Create(ctx, TopicRequest{Title: " Tea vs Coffee ", LeftLabel: "Tea", RightLabel: "Coffee"}); !errors.Is(err, util.ErrConflict) {
		t.Errorf("duplicate title: expected ErrConflict, got %v", err)
	}
}
