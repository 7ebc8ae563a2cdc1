package llm

import (
	"context"
	"sync"
)

// Mock is a deterministic LLM implementation for testing.
// GenerateFunc, when set, decides the response per call; otherwise the fixed
// Response/Error pair is returned.
type Mock struct {
	// Response is the fixed text returned by Generate and Chat.
	Response string

	// Error, if set, is returned instead of a response.
	Error error

	// GenerateFunc overrides the fixed response when present. It receives
	// the full prompt (system + user joined for Chat calls).
	GenerateFunc func(prompt string) (string, error)

	// Prompts records every prompt passed in, in call order. Safe for
	// concurrent callers; the reranker fans out scoring calls.
	Prompts []string

	mu sync.Mutex
}

// NewMock creates a mock LLM with the given fixed response.
func NewMock(response string) *Mock {
	return &Mock{Response: response}
}

// NewMockWithError creates a mock LLM that always fails.
func NewMockWithError(err error) *Mock {
	return &Mock{Error: err}
}

// Generate returns the configured response.
func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(prompt)
	}
	if m.Error != nil {
		return "", m.Error
	}
	return m.Response, nil
}

// Chat returns the configured response for a system+user pair.
func (m *Mock) Chat(ctx context.Context, system, user string) (string, error) {
	return m.Generate(ctx, system+"\n\n"+user)
}
