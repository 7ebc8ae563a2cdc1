package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0-ROK/little-prince-llm/internal/llm"
	"github.com/0-ROK/little-prince-llm/internal/rlvr"
)

func TestSynthesize_GroundsPromptInContext(t *testing.T) {
	mock := llm.NewMock("어린왕자는 소행성 B-612에서 온 소년입니다.")
	s := NewSynthesizer(mock, nil)

	out, err := s.Synthesize(context.Background(), "어린왕자는 누구인가요?",
		"Le petit prince...", Options{CorrectMisconceptions: true})
	require.NoError(t, err)
	assert.Equal(t, "어린왕자는 소행성 B-612에서 온 소년입니다.", out)

	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "Le petit prince...")
	assert.Contains(t, mock.Prompts[0], "부드럽게 수정해주세요")
	assert.Contains(t, mock.Prompts[0], "어린왕자는 누구인가요?")
}

func TestSynthesize_NoCorrectionInstructionByDefault(t *testing.T) {
	mock := llm.NewMock("답변")
	s := NewSynthesizer(mock, nil)

	_, err := s.Synthesize(context.Background(), "질문", "문맥", Options{})
	require.NoError(t, err)

	assert.NotContains(t, mock.Prompts[0], "부드럽게 수정해주세요")
}

func TestSynthesize_EmptyCompletionReturnsSentinel(t *testing.T) {
	s := NewSynthesizer(llm.NewMock("  \n"), nil)

	out, err := s.Synthesize(context.Background(), "질문", "문맥", Options{})
	require.NoError(t, err)
	assert.Equal(t, EmptyCompletionSentinel, out)
}

func TestSynthesize_CallFailureIsFatal(t *testing.T) {
	s := NewSynthesizer(llm.NewMockWithError(errors.New("outage")), nil)

	_, err := s.Synthesize(context.Background(), "질문", "문맥", Options{})
	assert.Error(t, err)
}

func TestTraceContext_RendersChainAndConclusion(t *testing.T) {
	trace := rlvr.ReasoningTrace{
		ThinkingSteps: []string{"생각"},
		LogicalChain:  []string{"첫 단계", "둘째 단계"},
		Conclusion:    "결론 문장",
	}

	out := TraceContext(trace)

	assert.Contains(t, out, "1. 첫 단계")
	assert.Contains(t, out, "2. 둘째 단계")
	assert.Contains(t, out, "결론: 결론 문장")
}

func TestPassageContext_JoinsWithBlankLine(t *testing.T) {
	assert.Equal(t, "a\n\nb", PassageContext([]string{"a", "b"}))
}
