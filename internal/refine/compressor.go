package refine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/llm"
)

// maxCompressInput bounds how many passages one compression call may see.
// Anything beyond the first five is dropped; this is a fixed truncation, not
// a configurable policy.
const maxCompressInput = 5

// Compressor merges multiple passages into one dense, query-focused context.
type Compressor struct {
	llm    llm.LLM
	logger *zap.Logger
}

// NewCompressor creates a Compressor backed by the given LLM.
func NewCompressor(model llm.LLM, logger *zap.Logger) *Compressor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compressor{
		llm:    model,
		logger: logger.With(zap.String("component", "compressor")),
	}
}

// Compress summarizes the passages into a single context string. Empty input
// returns an empty string; a failed call or an empty completion degrades to
// naive concatenation of the (up to five) inputs, so the output is never
// empty when the input is not.
func (c *Compressor) Compress(ctx context.Context, query string, passages []string) string {
	if len(passages) == 0 {
		return ""
	}

	if len(passages) > maxCompressInput {
		passages = passages[:maxCompressInput]
	}

	prompt := fmt.Sprintf(`다음 문서들에서 질문과 관련된 내용만 추출하여 하나의 문맥으로 압축하세요.
- 중복된 내용은 합치세요
- 원문의 의미를 보존하세요
- 질문과 무관한 세부 사항은 생략하세요

질문: %s

문서:
%s

압축된 문맥:`, query, strings.Join(passages, "\n\n"))

	response, err := c.llm.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("compression failed, falling back to concatenation", zap.Error(err))
		return strings.Join(passages, "\n\n")
	}

	compressed := strings.TrimSpace(response)
	if compressed == "" {
		return strings.Join(passages, "\n\n")
	}

	return compressed
}
