// Package openai provides a completion service adapter using the
// OpenAI Chat Completions API.
package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dspeziale/docsearch/internal/core/domain"
	"github.com/dspeziale/docsearch/internal/core/ports/driven"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// Default configuration values.
const (
	DefaultModel   = "gpt-3.5-turbo"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the OpenAI completion service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API endpoint, for Azure OpenAI or
	// compatible APIs. Empty means the public OpenAI endpoint.
	BaseURL string

	// Model is the chat model to use (default: gpt-3.5-turbo).
	Model string

	// Timeout bounds each completion call (default: 60s).
	Timeout time.Duration
}

// CompletionService provides text completions using OpenAI.
type CompletionService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// New creates a new OpenAI completion service.
func New(cfg Config) (*CompletionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &CompletionService{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
	}, nil
}

// Complete returns free text for the given prompt.
func (s *CompletionService) Complete(ctx context.Context, system, prompt string, opts driven.CompletionOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", domain.ErrCompletionFailure)
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the configured model.
func (s *CompletionService) ModelName() string {
	return s.model
}
