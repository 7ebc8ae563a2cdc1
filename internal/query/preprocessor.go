package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/llm"
)

// maxExpansions caps the number of related queries kept from one expansion.
const maxExpansions = 5

var enumerationPattern = regexp.MustCompile(`^\d+[\.\)]\s*`)

// Preprocessor runs the three independent pre-retrieval strategies. Each is a
// single LLM call; none of them may abort a request, so every call failure
// degrades to a safe default.
type Preprocessor struct {
	llm    llm.LLM
	logger *zap.Logger
}

// NewPreprocessor creates a Preprocessor backed by the given LLM.
func NewPreprocessor(model llm.LLM, logger *zap.Logger) *Preprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Preprocessor{
		llm:    model,
		logger: logger.With(zap.String("component", "query_preprocessor")),
	}
}

// Expand generates up to five related questions for the query. Blank lines
// and enumeration prefixes are stripped; if the model returns fewer than
// three the shorter list is used as-is. On call failure the expansion is
// simply empty.
func (p *Preprocessor) Expand(ctx context.Context, query string) []string {
	prompt := fmt.Sprintf(`다음 질문과 관련된 질문 3~5개를 생성하세요.
각 질문은 "어린왕자" 원문 검색에 도움이 되도록 서로 다른 측면을 다뤄야 합니다.
질문만 한 줄에 하나씩 출력하세요.

원래 질문: %s

관련 질문:`, query)

	response, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		p.logger.Warn("query expansion failed", zap.Error(err))
		return nil
	}

	expansions := make([]string, 0, maxExpansions)
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		line = enumerationPattern.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		expansions = append(expansions, line)
		if len(expansions) >= maxExpansions {
			break
		}
	}

	return expansions
}

// Transform rewrites the query into a keyword-dense form optimized for
// similarity search. An empty completion or a call failure falls back to the
// original query; Transform never returns an empty string.
func (p *Preprocessor) Transform(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(`다음 질문을 벡터 검색에 적합한 형태로 변환하세요.
불필요한 표현을 제거하고 핵심 키워드 중심으로 다시 작성하되, 의미는 유지하세요.
변환된 검색어만 출력하세요.

원래 질문: %s

변환된 검색어:`, query)

	response, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		p.logger.Warn("query transformation failed", zap.Error(err))
		return query
	}

	transformed := strings.TrimSpace(response)
	if transformed == "" {
		return query
	}

	return transformed
}

// Route classifies the query into one of the five categories and returns the
// fixed plan for it. Unrecognized or missing classifications, and call
// failures, default to the general plan.
func (p *Preprocessor) Route(ctx context.Context, query string) Plan {
	prompt := fmt.Sprintf(`다음 질문을 아래 다섯 가지 유형 중 하나로 분류하세요.
- character: 등장인물에 대한 질문
- plot: 줄거리나 사건에 대한 질문
- philosophy: 철학적 의미에 대한 질문
- symbolism: 상징과 은유에 대한 질문
- general: 그 외 일반적인 질문

질문: %s

유형 이름 하나만 출력하세요:`, query)

	response, err := p.llm.Generate(ctx, prompt)
	if err != nil {
		p.logger.Warn("query routing failed", zap.Error(err))
		return PlanFor(CategoryGeneral)
	}

	category := parseCategory(response)
	plan := PlanFor(category)

	p.logger.Debug("routed query",
		zap.String("category", string(plan.Category)),
		zap.Int("top_k", plan.TopK))

	return plan
}

// parseCategory tolerantly extracts a category from a completion. The model
// sometimes wraps the answer in a sentence, so substring matching is enough.
func parseCategory(response string) Category {
	normalized := strings.ToLower(strings.TrimSpace(response))

	for _, category := range []Category{
		CategoryCharacter,
		CategoryPlot,
		CategoryPhilosophy,
		CategorySymbolism,
		CategoryGeneral,
	} {
		if strings.Contains(normalized, string(category)) {
			return category
		}
	}

	return CategoryGeneral
}
