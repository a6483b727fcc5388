package driven

import "context"

// CompletionService is the generative-answer backend boundary:
// a single text completion taking a system role and a user prompt.
// This is an optional service - when nil, answer synthesis falls back
// to the deterministic rule engine.
type CompletionService interface {
	// Complete returns free text for the given prompt.
	Complete(ctx context.Context, system, prompt string, opts CompletionOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}

// CompletionOptions configures sampling behaviour.
type CompletionOptions struct {
	// MaxTokens is the maximum output length.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float32
}
