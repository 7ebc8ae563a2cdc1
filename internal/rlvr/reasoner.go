package rlvr

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/llm"
)

const (
	thinkingStart = "<thinking>"
	thinkingEnd   = "</thinking>"

	chainLabel      = "논리적 연결:"
	conclusionLabel = "결론:"
)

// placeholderStep fills any reasoning sequence a parse miss left empty; the
// trace must never be empty.
const placeholderStep = "질문을 분석하고 있습니다."

// fallbackConclusion stands in when no conclusion line can be extracted.
const fallbackConclusion = "제공된 문서를 바탕으로 답변을 구성합니다."

// fallbackTrace is returned whole when the reasoning call itself fails.
var fallbackTrace = ReasoningTrace{
	ThinkingSteps: []string{
		"질문을 분석하고 있습니다.",
		"검증된 문서를 검토하고 있습니다.",
		"답변을 구성하고 있습니다.",
	},
	LogicalChain: []string{
		"질문의 핵심을 파악합니다.",
		"문서의 내용을 질문과 연결합니다.",
		"근거를 종합하여 결론을 도출합니다.",
	},
	Conclusion: fallbackConclusion,
}

var (
	enumerationSplit  = regexp.MustCompile(`\d+\.\s+`)
	conclusionPattern = regexp.MustCompile(`결론\s*[:：]\s*(.+)`)
)

// Reasoner produces a structured chain-of-thought trace over verified
// passages. Reasoning degrades to a fixed generic trace on any failure; it
// never propagates an error.
type Reasoner struct {
	llm    llm.LLM
	logger *zap.Logger
}

// NewReasoner creates a Reasoner backed by the given LLM.
func NewReasoner(model llm.LLM, logger *zap.Logger) *Reasoner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reasoner{
		llm:    model,
		logger: logger.With(zap.String("component", "reasoner")),
	}
}

// Reason runs one reasoning call and parses its delimited sections. Every
// parse miss substitutes the documented placeholder so the trace is always
// populated.
func (r *Reasoner) Reason(ctx context.Context, query string, passages []VerifiedPassage) ReasoningTrace {
	response, err := r.llm.Generate(ctx, r.buildPrompt(query, passages))
	if err != nil {
		r.logger.Warn("reasoning failed, using generic trace", zap.Error(err))
		return fallbackTrace
	}

	return parseTrace(response)
}

func (r *Reasoner) buildPrompt(query string, passages []VerifiedPassage) string {
	var b strings.Builder

	b.WriteString("검증된 문서를 바탕으로 질문에 대해 단계적으로 추론하세요.\n\n")
	b.WriteString(fmt.Sprintf("질문: %s\n\n", query))

	for i, passage := range passages {
		b.WriteString(fmt.Sprintf("문서 %d (신뢰성 %d, 관련성 %d):\n%s\n\n",
			i+1, passage.Credibility, passage.Relevance, passage.Text))
	}

	b.WriteString("아래 형식을 정확히 따르세요.\n\n")
	b.WriteString(thinkingStart + "\n")
	b.WriteString("1. <첫 번째 사고 단계>\n")
	b.WriteString("2. <두 번째 사고 단계>\n")
	b.WriteString(thinkingEnd + "\n\n")
	b.WriteString(chainLabel + "\n")
	b.WriteString("1. <첫 번째 논리 단계>\n")
	b.WriteString("2. <두 번째 논리 단계>\n\n")
	b.WriteString(conclusionLabel + " <한 문장 결론>")

	return b.String()
}

// parseTrace extracts the three sections of the reasoning grammar, each with
// its own fallback.
func parseTrace(response string) ReasoningTrace {
	trace := ReasoningTrace{
		ThinkingSteps: splitEnumerated(extractDelimited(response, thinkingStart, thinkingEnd)),
		LogicalChain:  splitEnumerated(extractChainBlock(response)),
		Conclusion:    fallbackConclusion,
	}

	if len(trace.ThinkingSteps) == 0 {
		trace.ThinkingSteps = []string{placeholderStep}
	}
	if len(trace.LogicalChain) == 0 {
		trace.LogicalChain = []string{placeholderStep}
	}
	if m := conclusionPattern.FindStringSubmatch(response); m != nil {
		trace.Conclusion = strings.TrimSpace(m[1])
	}

	return trace
}

// extractDelimited returns the content between a start/end delimiter pair,
// or "" when either delimiter is missing.
func extractDelimited(text, start, end string) string {
	startIdx := strings.Index(text, start)
	if startIdx < 0 {
		return ""
	}
	rest := text[startIdx+len(start):]

	endIdx := strings.Index(rest, end)
	if endIdx < 0 {
		return ""
	}
	return rest[:endIdx]
}

// extractChainBlock returns the logical-chain section: everything between
// its label and the conclusion label (or the end of the response).
func extractChainBlock(text string) string {
	idx := strings.Index(text, chainLabel)
	if idx < 0 {
		return ""
	}
	block := text[idx+len(chainLabel):]

	if end := strings.Index(block, conclusionLabel); end >= 0 {
		block = block[:end]
	}
	return block
}

// splitEnumerated splits a block on its "N. " enumeration, discarding empty
// fragments.
func splitEnumerated(block string) []string {
	if strings.TrimSpace(block) == "" {
		return nil
	}

	fragments := enumerationSplit.Split(block, -1)
	steps := make([]string, 0, len(fragments))

	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		steps = append(steps, fragment)
	}

	return steps
}
