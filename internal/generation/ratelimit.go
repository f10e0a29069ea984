package generation

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"resumeflow/internal/port"
)

// RateLimitedGenerator bounds the request rate sent to the wrapped generator.
// Callers block until a token is available or ctx is done.
type RateLimitedGenerator struct {
	next    port.Generator
	limiter *rate.Limiter
}

// NewRateLimitedGenerator wraps next with a token bucket of perSecond
// requests and the given burst.
func NewRateLimitedGenerator(next port.Generator, perSecond float64, burst int) *RateLimitedGenerator {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedGenerator{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (r *RateLimitedGenerator) Complete(ctx context.Context, req port.CompletionRequest) (*port.Completion, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("generation.RateLimitedGenerator: %w", err)
	}
	return r.next.Complete(ctx, req)
}
