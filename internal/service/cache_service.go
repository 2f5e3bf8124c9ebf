package service

import (
	"context"
	"debate_backend/pkg/logger"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	cacheKeyTopicsPrefix     = "debate:topics:"
	cacheKeyActiveGuidelines = "debate:guidelines:active"
)

// CacheService 读多写少数据的 Redis 缓存；Client 为 nil 时所有操作都是空操作
type CacheService struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCacheService(rdb *redis.Client, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CacheService{Client: rdb, TTL: ttl}
}

func (c *CacheService) Enabled() bool {
	return c != nil && c.Client != nil
}

// GetJSON 命中时解码到 dest 并返回 true
func (c *CacheService) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}
	val, err := c.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logger.Log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		logger.Log.Warn("Cache entry corrupted", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CacheService) SetJSON(ctx context.Context, key string, v interface{}) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, key, data, c.TTL).Err(); err != nil {
		logger.Log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CacheService) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func topicsCacheKey(active *bool) string {
	switch {
	case active == nil:
		return cacheKeyTopicsPrefix + "all"
	case *active:
		return cacheKeyTopicsPrefix + "active"
	default:
		return cacheKeyTopicsPrefix + "inactive"
	}
}

func (c *CacheService) InvalidateTopics(ctx context.Context) {
	t, f := true, false
	c.Delete(ctx, topicsCacheKey(nil), topicsCacheKey(&t), topicsCacheKey(&f))
}

func (c *CacheService) InvalidateGuidelines(ctx context.Context) {
	c.Delete(ctx, cacheKeyActiveGuidelines)
}
