package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/llm"
)

// EmptyCompletionSentinel is returned when the model produces no text. An
// empty completion is not an error; the sentinel keeps the response shape
// intact for the client.
const EmptyCompletionSentinel = "응답을 생성할 수 없습니다."

// Options tunes the instruction set per strategy.
type Options struct {
	// CorrectMisconceptions asks the model to gently correct the user
	// against the supplied context (naive and advanced strategies only).
	CorrectMisconceptions bool
}

// Synthesizer issues the final, load-bearing LLM call. Its failure is fatal
// for the request, unlike every auxiliary stage.
type Synthesizer struct {
	llm    llm.LLM
	logger *zap.Logger
}

// NewSynthesizer creates a Synthesizer backed by the given LLM.
func NewSynthesizer(model llm.LLM, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		llm:    model,
		logger: logger.With(zap.String("component", "synthesizer")),
	}
}

// Synthesize answers the question grounded in the curated context.
func (s *Synthesizer) Synthesize(ctx context.Context, question, contextText string, opts Options) (string, error) {
	completion, err := s.llm.Chat(ctx, buildSystemPrompt(contextText, opts), question)
	if err != nil {
		return "", fmt.Errorf("answer synthesis failed: %w", err)
	}

	if strings.TrimSpace(completion) == "" {
		s.logger.Warn("empty completion from synthesis call")
		return EmptyCompletionSentinel, nil
	}

	return completion, nil
}
