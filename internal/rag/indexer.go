package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/corpus"
)

// IndexCorpus embeds every corpus chunk in batches and upserts the vectors
// into the store with the chunk position as entry id. Re-running it refreshes
// existing entries in place; the index is append-only from the pipeline's
// point of view. Returns the number of chunks indexed.
func IndexCorpus(
	ctx context.Context,
	c *corpus.Corpus,
	embedder Embedder,
	store VectorStore,
	opts IndexOptions,
	logger *zap.Logger,
) (int, error) {
	if c == nil || c.Len() == 0 {
		return 0, nil
	}
	if embedder == nil {
		return 0, fmt.Errorf("embedder cannot be nil")
	}
	if store == nil {
		return 0, fmt.Errorf("vector store cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultIndexOptions().BatchSize
	}

	chunks := c.Chunks()

	for batchStart := 0; batchStart < len(chunks); batchStart += opts.BatchSize {
		batchEnd := batchStart + opts.BatchSize
		if batchEnd > len(chunks) {
			batchEnd = len(chunks)
		}

		batch := chunks[batchStart:batchEnd]

		records, err := embedder.Embed(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("failed to embed batch starting at %d: %w", batchStart, err)
		}

		// Rebase record indices from batch-local to corpus positions.
		for i := range records {
			records[i].Index = batchStart + records[i].Index
		}

		if err := store.Upsert(ctx, records); err != nil {
			return 0, fmt.Errorf("failed to upsert batch starting at %d: %w", batchStart, err)
		}

		logger.Info("indexed batch",
			zap.Int("start", batchStart),
			zap.Int("size", len(batch)))
	}

	return len(chunks), nil
}
