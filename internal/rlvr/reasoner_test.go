package rlvr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0-ROK/little-prince-llm/internal/llm"
)

func verified(texts ...string) []VerifiedPassage {
	out := make([]VerifiedPassage, len(texts))
	for i, text := range texts {
		out[i] = VerifiedPassage{Credibility: 8, Relevance: 8}
		out[i].ID = text
		out[i].Text = text
	}
	return out
}

func TestReason_ParsesFullTrace(t *testing.T) {
	response := `<thinking>
1. 질문이 어린왕자의 정체를 묻고 있다.
2. 문서 1이 출신 행성을 언급한다.
</thinking>

논리적 연결:
1. 어린왕자는 소행성 B-612에서 왔다.
2. 그는 장미를 돌보다 여행을 떠났다.

결론: 어린왕자는 소행성에서 온 순수한 여행자이다.`

	r := NewReasoner(llm.NewMock(response), nil)

	trace := r.Reason(context.Background(), "어린왕자는 누구인가요?", verified("doc"))

	require.Len(t, trace.ThinkingSteps, 2)
	assert.Equal(t, "질문이 어린왕자의 정체를 묻고 있다.", trace.ThinkingSteps[0])

	require.Len(t, trace.LogicalChain, 2)
	assert.Equal(t, "어린왕자는 소행성 B-612에서 왔다.", trace.LogicalChain[0])

	assert.Equal(t, "어린왕자는 소행성에서 온 순수한 여행자이다.", trace.Conclusion)
}

func TestReason_MissingSectionsUsePlaceholders(t *testing.T) {
	r := NewReasoner(llm.NewMock("형식을 무시한 자유로운 답변"), nil)

	trace := r.Reason(context.Background(), "질문", verified("doc"))

	assert.Equal(t, []string{placeholderStep}, trace.ThinkingSteps)
	assert.Equal(t, []string{placeholderStep}, trace.LogicalChain)
	assert.Equal(t, fallbackConclusion, trace.Conclusion)
}

func TestReason_UnterminatedThinkingBlockFallsBack(t *testing.T) {
	response := `<thinking>
1. 시작했지만 끝나지 않는 블록
결론: 그래도 결론은 있다.`

	r := NewReasoner(llm.NewMock(response), nil)

	trace := r.Reason(context.Background(), "질문", verified("doc"))

	assert.Equal(t, []string{placeholderStep}, trace.ThinkingSteps)
	assert.Equal(t, "그래도 결론은 있다.", trace.Conclusion)
}

func TestReason_CallFailureReturnsGenericTrace(t *testing.T) {
	r := NewReasoner(llm.NewMockWithError(errors.New("outage")), nil)

	trace := r.Reason(context.Background(), "질문", verified("doc"))

	assert.Equal(t, fallbackTrace, trace)
	require.Len(t, trace.ThinkingSteps, 3)
	assert.NotEmpty(t, trace.Conclusion)
}

func TestReason_TraceNeverEmpty(t *testing.T) {
	r := NewReasoner(llm.NewMock(""), nil)

	trace := r.Reason(context.Background(), "질문", nil)

	assert.NotEmpty(t, trace.ThinkingSteps)
	assert.NotEmpty(t, trace.LogicalChain)
	assert.NotEmpty(t, trace.Conclusion)
}
