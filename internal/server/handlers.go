package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/orchestrator"
	"github.com/0-ROK/little-prince-llm/internal/rag"
)

type generateRequest struct {
	UserMessage string `json:"userMessage"`
}

type textItem struct {
	Text string `json:"text"`
}

// answerEnvelope is the fixed response shape the chat client consumes.
type answerEnvelope struct {
	OriginalText []textItem     `json:"originalText"`
	Response     responseOutput `json:"response"`
	Metadata     any            `json:"metadata,omitempty"`
}

type responseOutput struct {
	Output struct {
		Message struct {
			Content []textItem `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

type errorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// strategyErrorMessages labels fatal failures per strategy. Business errors
// are always HTTP 500 with this label plus the underlying details.
var strategyErrorMessages = map[orchestrator.Strategy]string{
	orchestrator.StrategyNaive:      "OpenAI API 호출 중 오류가 발생했습니다.",
	orchestrator.StrategyAdvanced:   "고급 검색 처리 중 오류가 발생했습니다.",
	orchestrator.StrategyRerank:     "재순위화 처리 중 오류가 발생했습니다.",
	orchestrator.StrategyCompressed: "문맥 압축 처리 중 오류가 발생했습니다.",
	orchestrator.StrategyHybrid:     "하이브리드 검색 처리 중 오류가 발생했습니다.",
	orchestrator.StrategyRLVR:       "RLVR 처리 중 오류가 발생했습니다.",
}

func (s *Server) generate(strategy orchestrator.Strategy) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Input is deliberately unvalidated; a missing userMessage flows
		// through as the empty string.
		var req generateRequest
		_ = c.ShouldBindJSON(&req)

		ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
		defer cancel()

		result, err := s.pipeline.Run(ctx, strategy, req.UserMessage)
		if err != nil {
			s.logger.Error("pipeline failed",
				zap.String("request_id", c.GetString(requestIDKey)),
				zap.String("strategy", string(strategy)),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, errorPayload{
				Error:   strategyErrorMessages[strategy],
				Details: err.Error(),
			})
			return
		}

		envelope := answerEnvelope{
			OriginalText: make([]textItem, len(result.Contexts)),
			Metadata:     result.Metadata,
		}
		for i, text := range result.Contexts {
			envelope.OriginalText[i] = textItem{Text: text}
		}
		envelope.Response.Output.Message.Content = []textItem{{Text: result.Answer}}

		c.JSON(http.StatusOK, envelope)
	}
}

// indexCorpus embeds every chunk and upserts it into the vector store,
// keyed by chunk position.
func (s *Server) indexCorpus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	count, err := rag.IndexCorpus(ctx, s.corpus, s.embedder, s.store, rag.DefaultIndexOptions(), s.logger)
	if err != nil {
		s.logger.Error("corpus indexing failed",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorPayload{
			Error:   "임베딩 생성 중 오류가 발생했습니다.",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": count})
}

func (s *Server) chunkCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"result": s.corpus.Len()})
}
