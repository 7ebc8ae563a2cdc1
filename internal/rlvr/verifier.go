package rlvr

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/llm"
	"github.com/0-ROK/little-prince-llm/internal/rag"
)

const (
	// defaultScore substitutes for any per-passage parse miss and for a
	// total verification outage.
	defaultScore = 7

	// admissionThreshold is the minimum credibility AND relevance a
	// passage needs to be admitted.
	admissionThreshold = 6

	// fallbackTop is how many passages survive when nothing clears the
	// threshold; the pipeline never continues with zero context.
	fallbackTop = 3
)

// fallbackSummary is returned when the verification call itself fails.
const fallbackSummary = "검증 과정에서 오류가 발생하여 모든 문서를 사용합니다."

var summaryPattern = regexp.MustCompile(`종합\s*[:：]\s*(.+)`)

// Verifier scores retrieved passages for credibility and relevance in one
// batched LLM call and filters out weak ones. Verification degrades to
// pass-through on failure; it never blocks the pipeline.
type Verifier struct {
	llm    llm.LLM
	logger *zap.Logger
}

// NewVerifier creates a Verifier backed by the given LLM.
func NewVerifier(model llm.LLM, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		llm:    model,
		logger: logger.With(zap.String("component", "verifier")),
	}
}

// Verify scores all passages together and returns the admitted ones plus the
// model's overall assessment. A passage is admitted iff credibility and
// relevance both reach the threshold; if none qualify, the three best by
// combined score are kept instead. On call failure every passage is admitted
// at the default scores with a fixed summary.
func (v *Verifier) Verify(ctx context.Context, query string, passages []rag.Passage) ([]VerifiedPassage, string) {
	if len(passages) == 0 {
		return nil, fallbackSummary
	}

	response, err := v.llm.Generate(ctx, v.buildPrompt(query, passages))
	if err != nil {
		v.logger.Warn("verification failed, admitting all passages", zap.Error(err))
		return v.admitAll(passages), fallbackSummary
	}

	verified := make([]VerifiedPassage, len(passages))
	for i, passage := range passages {
		credibility, relevance := parseScores(response, i+1)
		verified[i] = VerifiedPassage{
			Passage:     passage,
			Credibility: credibility,
			Relevance:   relevance,
		}
	}

	summary := fallbackSummary
	if m := summaryPattern.FindStringSubmatch(response); m != nil {
		summary = strings.TrimSpace(m[1])
	}

	admitted := make([]VerifiedPassage, 0, len(verified))
	for _, p := range verified {
		if p.Credibility >= admissionThreshold && p.Relevance >= admissionThreshold {
			admitted = append(admitted, p)
		}
	}

	if len(admitted) == 0 {
		admitted = topByCombinedScore(verified, fallbackTop)
		v.logger.Info("no passage cleared verification, keeping best candidates",
			zap.Int("kept", len(admitted)))
	}

	return admitted, summary
}

func (v *Verifier) buildPrompt(query string, passages []rag.Passage) string {
	var b strings.Builder

	b.WriteString("다음 문서들이 질문에 답하기에 얼마나 신뢰할 수 있고 관련이 있는지 평가하세요.\n\n")
	b.WriteString(fmt.Sprintf("질문: %s\n\n", query))

	for i, passage := range passages {
		b.WriteString(fmt.Sprintf("문서 %d:\n%s\n\n", i+1, passage.Text))
	}

	b.WriteString("각 문서에 대해 아래 형식으로 한 줄씩 평가하고, 마지막 줄에 전체 평가를 작성하세요.\n")
	b.WriteString("문서 N: 신뢰성=X, 관련성=Y (X, Y는 1~10 정수)\n")
	b.WriteString("종합: <전체 평가 한 문장>")

	return b.String()
}

// parseScores pattern-matches the grammar line for passage number n.
// Any miss substitutes the default score.
func parseScores(response string, n int) (credibility, relevance int) {
	pattern := regexp.MustCompile(fmt.Sprintf(`문서\s*%d\s*[:：]\s*신뢰성\s*=\s*(\d+)\s*,\s*관련성\s*=\s*(\d+)`, n))

	m := pattern.FindStringSubmatch(response)
	if m == nil {
		return defaultScore, defaultScore
	}

	credibility = parseScore(m[1])
	relevance = parseScore(m[2])
	return credibility, relevance
}

func parseScore(raw string) int {
	score, err := strconv.Atoi(raw)
	if err != nil {
		return defaultScore
	}
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func (v *Verifier) admitAll(passages []rag.Passage) []VerifiedPassage {
	verified := make([]VerifiedPassage, len(passages))
	for i, passage := range passages {
		verified[i] = VerifiedPassage{
			Passage:     passage,
			Credibility: defaultScore,
			Relevance:   defaultScore,
		}
	}
	return verified
}

// topByCombinedScore returns the n best passages by credibility+relevance,
// ties keeping retrieval order.
func topByCombinedScore(verified []VerifiedPassage, n int) []VerifiedPassage {
	best := make([]VerifiedPassage, len(verified))
	copy(best, verified)

	sort.SliceStable(best, func(a, b int) bool {
		return best[a].Credibility+best[a].Relevance > best[b].Credibility+best[b].Relevance
	})

	if len(best) > n {
		best = best[:n]
	}
	return best
}
