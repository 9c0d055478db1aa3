package cache

import (
	"fmt"

	"github.com/fueltrade/backend/internal/application/report"
	"github.com/fueltrade/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CacheStoreFactory creates cache stores based on configuration
type CacheStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CacheStoreFactoryOption is a functional option for configuring the factory
type CacheStoreFactoryOption func(*CacheStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CacheStoreFactoryOption {
	return func(f *CacheStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) CacheStoreFactoryOption {
	return func(f *CacheStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCacheStoreFactory creates a new factory
func NewCacheStoreFactory(cfg config.RedisConfig, opts ...CacheStoreFactoryOption) *CacheStoreFactory {
	f := &CacheStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create builds the cache store the configuration asks for. No Redis host
// means in-memory; a configured but unreachable Redis falls back to in-memory
// unless the fallback is disabled.
func (f *CacheStoreFactory) Create() (report.CacheStore, error) {
	if f.redisConfig.Host == "" {
		f.logger.Info("no Redis host configured, using in-memory cache store")
		return NewInMemoryCacheStore(), nil
	}

	store, err := NewRedisCacheStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("failed to create Redis cache store: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory cache store",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Error(err))
		return NewInMemoryCacheStore(), nil
	}

	f.logger.Info("using Redis cache store",
		zap.String("addr", f.redisConfig.Addr()))
	return store, nil
}
