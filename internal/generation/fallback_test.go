package generation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/generation"
	"resumeflow/internal/port"
	"resumeflow/mocks"
)

var testRequest = port.CompletionRequest{Prompt: "extract", Temperature: 0.2, MaxTokens: 100}

func completion(model string) *port.Completion {
	return &port.Completion{Text: "## Full Name\nJane", ModelUsed: model}
}

func TestFallbackGenerator_FirstSucceeds(t *testing.T) {
	g1 := new(mocks.MockGenerator)
	g2 := new(mocks.MockGenerator)
	g1.On("Complete", mock.Anything, testRequest).Return(completion("claude"), nil)

	fg := generation.NewFallbackGenerator([]port.Generator{g1, g2}, []string{"claude", "gemini"})

	out, err := fg.Complete(context.Background(), testRequest)

	require.NoError(t, err)
	assert.Equal(t, "claude", out.ModelUsed)
	g2.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestFallbackGenerator_FirstFails_SecondSucceeds(t *testing.T) {
	g1 := new(mocks.MockGenerator)
	g2 := new(mocks.MockGenerator)
	g1.On("Complete", mock.Anything, testRequest).Return(nil, errors.New("boom"))
	g2.On("Complete", mock.Anything, testRequest).Return(completion("gemini"), nil)

	fg := generation.NewFallbackGenerator([]port.Generator{g1, g2}, []string{"claude", "gemini"})

	out, err := fg.Complete(context.Background(), testRequest)

	require.NoError(t, err)
	assert.Equal(t, "gemini", out.ModelUsed)
}

func TestFallbackGenerator_AllRateLimited(t *testing.T) {
	g1 := new(mocks.MockGenerator)
	g2 := new(mocks.MockGenerator)
	g1.On("Complete", mock.Anything, testRequest).Return(nil, generation.NewRateLimitError("claude", errors.New("429"), 60))
	g2.On("Complete", mock.Anything, testRequest).Return(nil, generation.NewRateLimitError("gemini", errors.New("429"), 30))

	fg := generation.NewFallbackGenerator([]port.Generator{g1, g2}, []string{"claude", "gemini"})

	out, err := fg.Complete(context.Background(), testRequest)

	assert.Nil(t, out)
	var rlErr *generation.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
}

func TestFallbackGenerator_AllFail_NonRateLimit(t *testing.T) {
	g1 := new(mocks.MockGenerator)
	g2 := new(mocks.MockGenerator)
	g1.On("Complete", mock.Anything, testRequest).Return(nil, errors.New("error 1"))
	g2.On("Complete", mock.Anything, testRequest).Return(nil, errors.New("error 2"))

	fg := generation.NewFallbackGenerator([]port.Generator{g1, g2}, []string{"claude", "gemini"})

	_, err := fg.Complete(context.Background(), testRequest)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all generators failed")
	var rlErr *generation.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestFallbackGenerator_SkipsOpenCircuit(t *testing.T) {
	g1 := new(mocks.MockGenerator)
	g2 := new(mocks.MockGenerator)
	g1.On("Complete", mock.Anything, testRequest).Return(nil, generation.NewRateLimitError("claude", errors.New("429"), 60)).Once()
	g2.On("Complete", mock.Anything, testRequest).Return(completion("gemini"), nil)

	fg := generation.NewFallbackGenerator([]port.Generator{g1, g2}, []string{"claude", "gemini"})

	_, err := fg.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	out, err := fg.Complete(context.Background(), testRequest)
	require.NoError(t, err)

	assert.Equal(t, "gemini", out.ModelUsed)
	g1.AssertNumberOfCalls(t, "Complete", 1)
}

func TestFallbackGenerator_CircuitAutoCloses(t *testing.T) {
	g1 := new(mocks.MockGenerator)
	g2 := new(mocks.MockGenerator)
	g1.On("Complete", mock.Anything, testRequest).Return(nil, generation.NewRateLimitError("claude", errors.New("429"), 1)).Once()
	g2.On("Complete", mock.Anything, testRequest).Return(completion("gemini"), nil).Once()

	fg := generation.NewFallbackGenerator([]port.Generator{g1, g2}, []string{"claude", "gemini"})

	out, err := fg.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "gemini", out.ModelUsed)

	time.Sleep(1100 * time.Millisecond)

	g1.On("Complete", mock.Anything, testRequest).Return(completion("claude"), nil).Once()
	out, err = fg.Complete(context.Background(), testRequest)
	require.NoError(t, err)
	assert.Equal(t, "claude", out.ModelUsed)
}

func TestFallbackGenerator_ConcurrentSafety(t *testing.T) {
	g1 := new(mocks.MockGenerator)
	g2 := new(mocks.MockGenerator)
	g1.On("Complete", mock.Anything, testRequest).Return(nil, generation.NewRateLimitError("claude", errors.New("429"), 5)).Maybe()
	g2.On("Complete", mock.Anything, testRequest).Return(completion("gemini"), nil).Maybe()

	fg := generation.NewFallbackGenerator([]port.Generator{g1, g2}, []string{"claude", "gemini"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := fg.Complete(context.Background(), testRequest)
			assert.NoError(t, err)
			assert.NotNil(t, out)
		}()
	}
	wg.Wait()
}
