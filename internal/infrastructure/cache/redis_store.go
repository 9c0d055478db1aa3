package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheStore implements report.CacheStore using Redis. This is suitable
// for distributed deployments where every instance must see the same cached
// snapshot and the same invalidations.
type RedisCacheStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisCacheStore creates a new Redis-backed cache store and verifies the
// connection before returning.
func NewRedisCacheStore(cfg RedisConfig) (*RedisCacheStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCacheStore{
		client:    client,
		keyPrefix: "fueltrade:cache:",
	}, nil
}

// NewRedisCacheStoreWithClient creates a store with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisCacheStoreWithClient(client *redis.Client, keyPrefix string) *RedisCacheStore {
	if keyPrefix == "" {
		keyPrefix = "fueltrade:cache:"
	}
	return &RedisCacheStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get returns the cached value, or (nil, nil) on a miss
func (s *RedisCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return value, nil
}

// Set stores a value with a TTL
func (s *RedisCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *RedisCacheStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying Redis client
func (s *RedisCacheStore) Close() error {
	return s.client.Close()
}
