package port

import "context"

// CompletionRequest carries a one-shot prompt and its generation constraints.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	JSON        bool // ask the provider for a JSON object response
}

// Completion is the text returned by a generation provider.
type Completion struct {
	Text      string
	ModelUsed string
}

// Generator abstracts a text-generation (LLM) service.
type Generator interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
