package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/config"
	"github.com/0-ROK/little-prince-llm/internal/corpus"
	"github.com/0-ROK/little-prince-llm/internal/llm"
	"github.com/0-ROK/little-prince-llm/internal/orchestrator"
	"github.com/0-ROK/little-prince-llm/internal/rag"
)

// Auxiliary LLM calls (expansion, scoring, verification) run cooler and
// shorter than the final synthesis call.
const (
	auxTemperature = 0.3
	auxMaxTokens   = 1024
)

// runtime bundles everything a command needs: the loaded corpus, the vector
// store connection and the fully wired pipeline.
type runtime struct {
	cfg      config.Config
	corpus   *corpus.Corpus
	embedder *rag.OpenAIEmbedder
	store    *rag.MilvusStore
	pipeline *orchestrator.Pipeline
	logger   *zap.Logger
}

func buildRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c, err := corpus.LoadPDF(cfg.PDFPath, cfg.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	logger.Info("corpus loaded", zap.String("path", cfg.PDFPath), zap.Int("chunks", c.Len()))

	embedder, err := rag.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	if err != nil {
		return nil, err
	}

	milvusCfg := rag.DefaultMilvusConfig()
	milvusCfg.Address = cfg.MilvusAddress
	milvusCfg.CollectionName = cfg.Collection
	milvusCfg.Partition = cfg.Partition
	milvusCfg.Dimension = cfg.EmbeddingDimension

	store, err := rag.NewMilvusStore(ctx, milvusCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus: %w", err)
	}

	retriever, err := rag.NewRetriever(embedder, store, c, logger)
	if err != nil {
		return nil, err
	}

	chatCfg := llm.DefaultConfig()
	chatCfg.Model = cfg.ChatModel
	chatCfg.APIKey = cfg.OpenAIAPIKey
	chat, err := llm.NewOpenAILLM(chatCfg)
	if err != nil {
		return nil, err
	}

	auxCfg := chatCfg
	auxCfg.Temperature = auxTemperature
	auxCfg.MaxTokens = auxMaxTokens
	aux, err := llm.NewOpenAILLM(auxCfg)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		corpus:   c,
		embedder: embedder,
		store:    store,
		pipeline: orchestrator.NewPipeline(retriever, chat, aux, logger),
		logger:   logger,
	}, nil
}

func (r *runtime) Close() {
	_ = r.store.Close()
	_ = r.logger.Sync()
}
