package repository

import (
	"context"
	"errors"
	"time"

	"storefront/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisStorage struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisStorage pings the connection before returning. A zero ttl keeps
// values until they are overwritten.
func NewRedisStorage(ctx context.Context, redis_conn *redis.Client, ttl time.Duration, logger *zap.Logger) (*RedisStorage, error) {
	if redis_conn == nil {
		return nil, errors.New("conn must be non-nil")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must not be negative")
	}
	err := redis_conn.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStorage{
		rdb:    redis_conn,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (s *RedisStorage) Get(ctx context.Context, key string) (value string, found bool, err error) {
	value, err = s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			err = nil
			return
		}
		s.logger.Error("redis get failed", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
		return
	}
	found = true
	return
}

func (s *RedisStorage) Set(ctx context.Context, key string, value string) (err error) {
	err = s.rdb.Set(ctx, key, value, s.ttl).Err()
	if err != nil {
		s.logger.Error("redis set failed", zap.String("key", key), zap.Error(err))
		err = models.ErrServerError
	}
	return
}
