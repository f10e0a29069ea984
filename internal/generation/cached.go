package generation

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"resumeflow/internal/cache"
	"resumeflow/internal/port"
)

// CacheStats is a snapshot of the response cache counters.
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// CachedGenerator memoises completions by request content. Only successful
// completions are stored.
type CachedGenerator struct {
	next   port.Generator
	store  cache.Store
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedGenerator wraps next with a response cache.
func NewCachedGenerator(next port.Generator, store cache.Store, ttl time.Duration) *CachedGenerator {
	return &CachedGenerator{next: next, store: store, ttl: ttl}
}

func (c *CachedGenerator) Complete(ctx context.Context, req port.CompletionRequest) (*port.Completion, error) {
	key := requestKey(req)

	if data, ok := c.store.Get(ctx, key); ok {
		var out port.Completion
		if err := json.Unmarshal(data, &out); err == nil {
			c.hits.Add(1)
			return &out, nil
		}
	}
	c.misses.Add(1)

	out, err := c.next.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(out); err == nil {
		c.store.Set(ctx, key, data, c.ttl)
	}
	return out, nil
}

// Stats returns the current hit and miss counters.
func (c *CachedGenerator) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func requestKey(req port.CompletionRequest) string {
	return cache.Key(
		req.System,
		req.Prompt,
		strconv.FormatFloat(req.Temperature, 'f', -1, 64),
		strconv.Itoa(req.MaxTokens),
		strconv.FormatBool(req.JSON),
	)
}
