package generation

import (
	"context"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"resumeflow/internal/cache"
	"resumeflow/internal/config"
	"resumeflow/internal/port"
)

// Stack is the composed generation pipeline: provider fallback, then rate
// limiting, then the response cache. Redis is nil when no L2 is configured.
type Stack struct {
	Generator port.Generator
	Cache     *CachedGenerator
	Redis     *redis.Client
}

// Close releases the Redis connection, if any.
func (s *Stack) Close() error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Close()
}

// Build assembles the configured providers into a Stack. Provider packages
// must be registered (see generation/all) before calling Build.
func Build(ctx context.Context, cfg *config.GenerationConfig) (*Stack, error) {
	var (
		gens  []port.Generator
		names []string
	)
	for _, pc := range []*config.GenerationProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig(), cfg.TertiaryConfig()} {
		if pc == nil {
			continue
		}
		g, err := NewGenerator(pc)
		if err != nil {
			return nil, fmt.Errorf("generation.Build: %w", err)
		}
		gens = append(gens, g)
		names = append(names, pc.Provider)
	}

	var gen port.Generator
	if len(gens) == 1 {
		gen = gens[0]
	} else {
		gen = NewFallbackGenerator(gens, names)
	}
	log.Printf("generation.Build: providers %v", names)

	if cfg.RatePerSecond > 0 {
		gen = NewRateLimitedGenerator(gen, cfg.RatePerSecond, cfg.Burst)
	}

	stack := &Stack{}
	var store cache.Store = cache.NewMemoryStore(cfg.CacheMaxEntries, nil)
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("generation.Build: redis unavailable, using memory cache only: %v", err)
		} else {
			stack.Redis = rdb
			store = cache.NewTieredStore(store, cache.NewRedisStore(rdb), cfg.CacheTTL)
		}
	}

	stack.Cache = NewCachedGenerator(gen, store, cfg.CacheTTL)
	stack.Generator = stack.Cache
	return stack, nil
}
