// Package llm provides a provider-agnostic interface to the text-completion
// service with a concrete OpenAI implementation and a deterministic mock for
// testing. Every pipeline stage that talks to the model goes through this
// interface so it can be substituted with a test double.
package llm

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// LLM defines the interface for interacting with the language model.
// Implementations must be stateless and safe for concurrent use.
type LLM interface {
	// Generate produces a completion for a single user prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Chat produces a completion for a system prompt plus a user message.
	// The answer synthesizer uses this to embed curated context in the
	// system role, matching the chat client's expectations.
	Chat(ctx context.Context, system, user string) (string, error)
}

// Config holds common configuration options for LLM providers.
type Config struct {
	// Model specifies the chat model identifier.
	Model string

	// Temperature controls randomness (0 = use provider default).
	Temperature float64

	// TopP is the nucleus sampling parameter (0 = provider default).
	TopP float64

	// MaxTokens limits the response length (0 = provider default).
	MaxTokens int

	// APIKey authenticates against the provider.
	APIKey string
}

// DefaultConfig returns the settings the original deployment ran with.
func DefaultConfig() Config {
	return Config{
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   4096,
	}
}
