// Package vertex implements a generator backed by Gemini models on Vertex AI.
package vertex

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"resumeflow/internal/config"
	"resumeflow/internal/generation"
	"resumeflow/internal/port"
)

const (
	defaultModel    = "gemini-1.5-flash"
	defaultLocation = "us-central1"
)

func init() {
	generation.RegisterProvider("vertex", func(cfg *config.GenerationProviderConfig) (port.Generator, error) {
		return NewGenerator(cfg)
	})
}

// Generator implements port.Generator using the Vertex AI genai client. The
// client is created lazily on first use so that construction never dials.
type Generator struct {
	project  string
	location string
	model    string

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGenerator validates cfg and returns a Vertex-backed generator.
func NewGenerator(cfg *config.GenerationProviderConfig) (*Generator, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("vertex: project is required")
	}
	location := cfg.Location
	if location == "" {
		location = defaultLocation
	}
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	return &Generator{project: cfg.Project, location: location, model: model}, nil
}

func (g *Generator) Complete(ctx context.Context, req port.CompletionRequest) (*port.Completion, error) {
	g.once.Do(func() {
		g.client, g.initErr = genai.NewClient(context.Background(), g.project, g.location)
	})
	if g.initErr != nil {
		return nil, fmt.Errorf("creating vertex client: %w", g.initErr)
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from vertex: no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return nil, fmt.Errorf("empty response from vertex")
	}
	return &port.Completion{Text: b.String(), ModelUsed: g.model}, nil
}

// Close releases the underlying client, if one was created.
func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// classifyError maps quota exhaustion to a RateLimitError so the fallback
// chain can open this provider's circuit.
func classifyError(err error) error {
	wrapped := fmt.Errorf("vertex generate: %w", err)
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return generation.NewRateLimitError("vertex", wrapped, 0)
	}
	return wrapped
}
