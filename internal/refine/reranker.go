// Package refine implements the post-retrieval refiners: LLM-scored
// reranking and query-focused compression. Both stages are quality
// improvements only; neither may fail a request.
package refine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/0-ROK/little-prince-llm/internal/llm"
	"github.com/0-ROK/little-prince-llm/internal/rag"
)

// neutralScore substitutes for any per-passage scoring failure.
const neutralScore = 5

var integerPattern = regexp.MustCompile(`\d+`)

// RankedPassage is a passage with its secondary relevance judgment.
type RankedPassage struct {
	rag.Passage
	RerankScore int `json:"rerank_score"`
}

// Reranker reorders retrieved passages by an LLM relevance judgment.
type Reranker struct {
	llm    llm.LLM
	logger *zap.Logger
}

// NewReranker creates a Reranker backed by the given LLM.
func NewReranker(model llm.LLM, logger *zap.Logger) *Reranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reranker{
		llm:    model,
		logger: logger.With(zap.String("component", "reranker")),
	}
}

// Rerank scores every passage against the query concurrently and returns the
// passages sorted by score descending, ties keeping retrieval order. A failed
// or unparseable scoring call degrades that passage to the neutral score;
// reranking never fails the request.
func (r *Reranker) Rerank(ctx context.Context, query string, passages []rag.Passage) []RankedPassage {
	ranked := make([]RankedPassage, len(passages))

	g, ctx := errgroup.WithContext(ctx)
	for i, passage := range passages {
		g.Go(func() error {
			ranked[i] = RankedPassage{
				Passage:     passage,
				RerankScore: r.score(ctx, query, passage.Text),
			}
			return nil
		})
	}
	// Workers absorb their own failures, so the only wait is for fan-in.
	_ = g.Wait()

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].RerankScore > ranked[b].RerankScore
	})

	return ranked
}

// score runs one scoring call and parses the bare integer answer.
func (r *Reranker) score(ctx context.Context, query, passage string) int {
	prompt := fmt.Sprintf(`질문과 문서의 관련성을 1~10 점수로 평가하세요.
평가 기준:
- 질문의 핵심 키워드가 문서에 포함되어 있는가
- 문서가 질문에 직접적으로 답할 수 있는가
- 문서의 맥락이 질문의 의도와 일치하는가

질문: %s

문서:
%s

숫자 하나만 출력하세요:`, query, passage)

	response, err := r.llm.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("rerank scoring failed, using neutral score", zap.Error(err))
		return neutralScore
	}

	raw := integerPattern.FindString(response)
	if raw == "" {
		return neutralScore
	}

	score, err := strconv.Atoi(raw)
	if err != nil {
		return neutralScore
	}

	return clampScore(score)
}

func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
