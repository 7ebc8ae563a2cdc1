package rag

import "context"

// mockEmbedder implements Embedder for testing.
type mockEmbedder struct {
	embedFunc func(ctx context.Context, texts []string) ([]EmbeddingRecord, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([]EmbeddingRecord, error) {
	if m.embedFunc != nil {
		return m.embedFunc(ctx, texts)
	}
	records := make([]EmbeddingRecord, len(texts))
	for i, text := range texts {
		records[i] = EmbeddingRecord{
			Text:      text,
			Embedding: []float32{float32(len(text)), float32(i), 1.0},
			Index:     i,
			Model:     "mock",
		}
	}
	return records, nil
}

func (m *mockEmbedder) GetModel() string  { return "mock" }
func (m *mockEmbedder) GetDimension() int { return 3 }

// mockVectorStore implements VectorStore for testing.
type mockVectorStore struct {
	records    []EmbeddingRecord
	searchFunc func(ctx context.Context, queryVector []float32, topK int) ([]Match, error)
	upsertFunc func(ctx context.Context, records []EmbeddingRecord) error
	countFunc  func(ctx context.Context) (int64, error)
}

func (m *mockVectorStore) Upsert(ctx context.Context, records []EmbeddingRecord) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, records)
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockVectorStore) Search(ctx context.Context, queryVector []float32, topK int) ([]Match, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, queryVector, topK)
	}
	return []Match{}, nil
}

func (m *mockVectorStore) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return int64(len(m.records)), nil
}

func (m *mockVectorStore) Close() error { return nil }
