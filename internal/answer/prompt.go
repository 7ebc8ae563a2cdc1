// Package answer builds the final prompt for each strategy's curated context
// and produces the user-facing completion.
package answer

import (
	"fmt"
	"strings"

	"github.com/0-ROK/little-prince-llm/internal/rlvr"
)

// buildSystemPrompt embeds the curated context and the fixed instruction set
// in the system role, mirroring the chat client's expectations.
func buildSystemPrompt(contextText string, opts Options) string {
	var b strings.Builder

	b.WriteString(`당신은 생텍쥐페리의 "어린왕자" 전문가입니다. 다음 프랑스어 원문을 참고하여 사용자의 질문에 풍부한 문학적 해설을 제공해주세요.

참조 원문:
`)
	b.WriteString(contextText)
	b.WriteString(`

지침:
- 답변은 반드시 한국어로 작성하세요
- 프랑스어는 포함하지 마세요`)

	if opts.CorrectMisconceptions {
		b.WriteString("\n- 사용자의 배경지식이 소설 내용과 다르다면 부드럽게 수정해주세요")
	}

	b.WriteString("\n- 문학적 깊이와 철학적 의미를 강조해주세요")

	return b.String()
}

// TraceContext renders a reasoning trace as synthesis context: the logical
// chain in order, then the conclusion.
func TraceContext(trace rlvr.ReasoningTrace) string {
	var b strings.Builder

	b.WriteString("논리적 연결:\n")
	for i, step := range trace.LogicalChain {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	b.WriteString("\n결론: ")
	b.WriteString(trace.Conclusion)

	return b.String()
}

// PassageContext joins passage texts into synthesis context.
func PassageContext(texts []string) string {
	return strings.Join(texts, "\n\n")
}
