// Package server exposes the answering pipeline over HTTP: one POST route per
// strategy plus the corpus indexing and inspection routes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/corpus"
	"github.com/0-ROK/little-prince-llm/internal/orchestrator"
	"github.com/0-ROK/little-prince-llm/internal/rag"
)

const defaultRequestTimeout = 60 * time.Second

// Pipeline is the answering surface the server depends on.
type Pipeline interface {
	Run(ctx context.Context, strategy orchestrator.Strategy, question string) (*orchestrator.Result, error)
}

// Options configures a Server.
type Options struct {
	Pipeline   Pipeline
	Corpus     *corpus.Corpus
	Embedder   rag.Embedder
	Store      rag.VectorStore
	CORSOrigin string
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Server routes HTTP requests into the pipeline.
type Server struct {
	pipeline Pipeline
	corpus   *corpus.Corpus
	embedder rag.Embedder
	store    rag.VectorStore
	timeout  time.Duration
	logger   *zap.Logger
	router   *gin.Engine
}

// New builds a Server with its routes registered.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRequestTimeout
	}

	s := &Server{
		pipeline: opts.Pipeline,
		corpus:   opts.Corpus,
		embedder: opts.Embedder,
		store:    opts.Store,
		timeout:  opts.Timeout,
		logger:   opts.Logger.With(zap.String("component", "server")),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), corsMiddleware(opts.CORSOrigin), requestLogger(s.logger))

	router.POST("/generate", s.generate(orchestrator.StrategyNaive))
	router.POST("/generate-advanced", s.generate(orchestrator.StrategyAdvanced))
	router.POST("/generate-rerank", s.generate(orchestrator.StrategyRerank))
	router.POST("/generate-compressed", s.generate(orchestrator.StrategyCompressed))
	router.POST("/generate-hybrid", s.generate(orchestrator.StrategyHybrid))
	router.POST("/generate-rlvr", s.generate(orchestrator.StrategyRLVR))
	router.GET("/embedding", s.indexCorpus)
	router.GET("/how-many-vectors", s.chunkCount)

	s.router = router
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.logger.Info("listening", zap.String("addr", addr))
	return s.router.Run(addr)
}
