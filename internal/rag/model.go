package rag

import "context"

// Passage is a retrieved chunk of the source text with its similarity score.
// Passages are immutable once retrieved; downstream stages wrap them in new
// structures instead of mutating them.
type Passage struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Score float32 `json:"similarity_score,omitempty"`
}

// Match is a raw vector index hit: the index-assigned entry id and the
// similarity score. The id maps back to a corpus chunk position.
type Match struct {
	ID    string  `json:"id"`
	Score float32 `json:"score"`
}

// VectorStore defines the interface for the external vector index.
// Implementations hold no request state; the corpus text itself never leaves
// the process, only embeddings and integer ids are stored.
type VectorStore interface {
	// Upsert writes embedding records keyed by their chunk position.
	Upsert(ctx context.Context, records []EmbeddingRecord) error

	// Search performs a top-K similarity query and returns raw matches,
	// highest similarity first.
	Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)

	// Close releases the connection.
	Close() error
}

// IndexOptions configures corpus indexing.
type IndexOptions struct {
	// BatchSize determines how many chunks to embed per API call.
	BatchSize int
}

// DefaultIndexOptions returns sensible defaults for indexing.
func DefaultIndexOptions() IndexOptions {
	return IndexOptions{BatchSize: 10}
}
