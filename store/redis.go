package store

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisKV persists client state in Redis. Entries never expire; the
// store outlives app restarts the way local storage does.
type RedisKV struct {
	Client *redis.Client
}

func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{Client: client}
}

func (s *RedisKV) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		zap.L().Debug("state store get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return val, true
}

func (s *RedisKV) Set(ctx context.Context, key, value string) {
	if err := s.Client.Set(ctx, key, value, 0).Err(); err != nil {
		zap.L().Debug("state store set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *RedisKV) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.Client.Del(ctx, keys...).Err(); err != nil {
		zap.L().Debug("state store del failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
