package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares generated text between machines through Redis. Expiry
// is left to Redis itself.
type RedisStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
	logger    *slog.Logger
}

// NewRedisStore connects to addr and fails fast when Redis is unreachable
func NewRedisStore(ctx context.Context, addr, namespace string, ttl time.Duration) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address missing")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	if namespace == "" {
		namespace = "default"
	}

	logger := slog.Default().With("component", "cache", "backend", "redis")
	logger.Info("redis cache connected", "addr", addr, "namespace", namespace)

	return &RedisStore{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
		logger:    logger,
	}, nil
}

func (s *RedisStore) redisKey(k string) string {
	return fmt.Sprintf("merit:%s:cache:%s", s.namespace, k)
}

// Get retrieves a cached value. A miss is not an error.
func (s *RedisStore) Get(ctx context.Context, key Key) (string, bool, error) {
	k := s.redisKey(key.String())

	val, err := s.client.Get(ctx, k).Result()
	if err == redis.Nil {
		s.logger.Debug("cache miss", "key", k)
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed for key %s: %w", k, err)
	}

	e, err := decode([]byte(val))
	if err != nil {
		return "", false, err
	}

	s.logger.Debug("cache hit", "key", k)
	return e.Value, true, nil
}

// Put stores value with the store's TTL (0 = no expiry)
func (s *RedisStore) Put(ctx context.Context, key Key, value string) error {
	k := s.redisKey(key.String())

	data, err := encode(value, time.Now())
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, k, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed for key %s: %w", k, err)
	}

	s.logger.Debug("cache set", "key", k, "ttl", s.ttl)
	return nil
}

// DeletePattern removes every key beginning with prefix (see Prefix) and
// returns how many were deleted.
func (s *RedisStore) DeletePattern(ctx context.Context, prefix string) (int64, error) {
	pattern := s.redisKey(prefix) + "*"

	var cursor uint64
	var keys []string
	for {
		batch, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return 0, fmt.Errorf("redis scan failed for pattern %s: %w", pattern, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("redis delete failed for pattern %s: %w", pattern, err)
	}

	s.logger.Info("cache pattern delete", "pattern", pattern, "deleted", deleted)
	return deleted, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}
