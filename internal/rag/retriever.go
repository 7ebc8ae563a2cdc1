package rag

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/corpus"
)

// Retriever wraps the embedding call and the vector index query, and maps
// index match ids back onto the in-process corpus text.
type Retriever struct {
	embedder Embedder
	store    VectorStore
	corpus   *corpus.Corpus
	logger   *zap.Logger
}

// NewRetriever creates a new Retriever instance.
func NewRetriever(embedder Embedder, store VectorStore, c *corpus.Corpus, logger *zap.Logger) (*Retriever, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("vector store cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("corpus cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Retriever{
		embedder: embedder,
		store:    store,
		corpus:   c,
		logger:   logger.With(zap.String("component", "retriever")),
	}, nil
}

// Retrieve embeds the query, runs a top-K similarity search and resolves each
// match id to its corpus chunk. Matches with an empty or non-numeric id, or
// whose mapped chunk is empty, are dropped silently; they are data-quality
// omissions, not errors. Embedding or index failures propagate to the caller.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	records, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no embedding generated for query")
	}

	matches, err := r.store.Search(ctx, records[0].Embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search index: %w", err)
	}

	passages := make([]Passage, 0, len(matches))
	for _, match := range matches {
		if match.ID == "" {
			continue
		}
		position, err := strconv.Atoi(match.ID)
		if err != nil {
			continue
		}
		text := r.corpus.Chunk(position)
		if text == "" {
			continue
		}
		passages = append(passages, Passage{
			ID:    match.ID,
			Text:  text,
			Score: match.Score,
		})
	}

	r.logger.Debug("retrieved passages",
		zap.Int("matches", len(matches)),
		zap.Int("kept", len(passages)))

	return passages, nil
}

// RetrieveMulti runs one retrieval per query string and unions the results
// into a set keyed by passage text. Two index entries with identical chunk
// text collapse into one. Order is insertion order of first appearance, and
// the union is truncated to topK*2. Queries run sequentially; each call is
// independent, so the result set does not depend on execution order.
func (r *Retriever) RetrieveMulti(ctx context.Context, queries []string, topK int) ([]Passage, error) {
	limit := topK * 2
	seen := make(map[string]bool)
	union := make([]Passage, 0, limit)

	for _, query := range queries {
		if query == "" {
			continue
		}

		passages, err := r.Retrieve(ctx, query, topK)
		if err != nil {
			return nil, fmt.Errorf("retrieval for %q failed: %w", query, err)
		}

		for _, p := range passages {
			if seen[p.Text] {
				continue
			}
			seen[p.Text] = true
			union = append(union, p)
		}
	}

	if len(union) > limit {
		union = union[:limit]
	}

	return union, nil
}
