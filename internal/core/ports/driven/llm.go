package driven

import (
	"context"
	"time"
)

// LLMService provides text completion against a language model backend.
// This is an optional service - when nil or unreachable, generation
// degrades gracefully to the extractive fallback tier.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI-compatible inference servers
type LLMService interface {
	// Generate produces a text completion from a prompt. The backend is
	// treated as a black box bounded by the configured timeout.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (GenerateResult, error)

	// Models lists the model names available at the backend.
	Models(ctx context.Context) ([]string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the backend is reachable via its list-models
	// endpoint. Used as the availability probe before the generation
	// cascade commits to a model tier.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate
	// (num_predict).
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// TopP is the nucleus sampling parameter.
	TopP float64
}

// GenerateResult is a completed generation with backend-reported stats.
type GenerateResult struct {
	// Text is the generated completion.
	Text string

	// EvalCount is the number of tokens evaluated, when reported.
	EvalCount int

	// Duration is the backend-reported total generation time.
	Duration time.Duration
}
