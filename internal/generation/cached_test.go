package generation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/cache"
	"resumeflow/internal/config"
	"resumeflow/internal/generation"
	"resumeflow/internal/port"
	"resumeflow/mocks"
)

func TestCachedGenerator_HitAfterMiss(t *testing.T) {
	next := new(mocks.MockGenerator)
	next.On("Complete", mock.Anything, testRequest).Return(completion("openai"), nil).Once()

	cg := generation.NewCachedGenerator(next, cache.NewMemoryStore(10, nil), time.Hour)

	first, err := cg.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	second, err := cg.Complete(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, generation.CacheStats{Hits: 1, Misses: 1}, cg.Stats())
	next.AssertNumberOfCalls(t, "Complete", 1)
}

func TestCachedGenerator_DifferentRequestsMiss(t *testing.T) {
	other := testRequest
	other.Temperature = 0.7

	next := new(mocks.MockGenerator)
	next.On("Complete", mock.Anything, mock.Anything).Return(completion("openai"), nil)

	cg := generation.NewCachedGenerator(next, cache.NewMemoryStore(10, nil), time.Hour)
	_, _ = cg.Complete(context.Background(), testRequest)
	_, _ = cg.Complete(context.Background(), other)

	assert.Equal(t, int64(2), cg.Stats().Misses)
	next.AssertNumberOfCalls(t, "Complete", 2)
}

func TestCachedGenerator_ErrorsAreNotCached(t *testing.T) {
	next := new(mocks.MockGenerator)
	next.On("Complete", mock.Anything, testRequest).Return(nil, errors.New("unavailable")).Once()
	next.On("Complete", mock.Anything, testRequest).Return(completion("openai"), nil).Once()

	cg := generation.NewCachedGenerator(next, cache.NewMemoryStore(10, nil), time.Hour)

	_, err := cg.Complete(context.Background(), testRequest)
	require.Error(t, err)
	out, err := cg.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "openai", out.ModelUsed)
}

func TestRateLimitedGenerator_HonoursContext(t *testing.T) {
	next := new(mocks.MockGenerator)
	next.On("Complete", mock.Anything, testRequest).Return(completion("openai"), nil)

	rl := generation.NewRateLimitedGenerator(next, 0.001, 1)

	_, err := rl.Complete(context.Background(), testRequest)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = rl.Complete(ctx, testRequest)
	assert.Error(t, err)
	next.AssertNumberOfCalls(t, "Complete", 1)
}

func TestNewGenerator_UnknownProvider(t *testing.T) {
	_, err := generation.NewGenerator(&config.GenerationProviderConfig{Provider: "no-such-provider"})
	assert.ErrorContains(t, err, "unknown generation provider")
}

func TestRegisterProvider(t *testing.T) {
	stub := new(mocks.MockGenerator)
	generation.RegisterProvider("test-provider", func(_ *config.GenerationProviderConfig) (port.Generator, error) {
		return stub, nil
	})

	g, err := generation.NewGenerator(&config.GenerationProviderConfig{Provider: "test-provider"})
	require.NoError(t, err)
	assert.Same(t, stub, g)
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 30, generation.ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, generation.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, generation.ParseRetryAfterHeader("Wed, 21 Oct 2015 07:28:00 GMT"))
}

func TestNewRateLimitError_DefaultRetry(t *testing.T) {
	base := errors.New("429")
	err := generation.NewRateLimitError("openai", base, 0)

	assert.Equal(t, time.Minute, err.RetryAfter)
	assert.ErrorIs(t, err, base)
}
