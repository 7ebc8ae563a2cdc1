package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0-ROK/little-prince-llm/internal/corpus"
	"github.com/0-ROK/little-prince-llm/internal/orchestrator"
	"github.com/0-ROK/little-prince-llm/internal/rag"
)

type mockPipeline struct {
	runFunc func(ctx context.Context, strategy orchestrator.Strategy, question string) (*orchestrator.Result, error)
}

func (m *mockPipeline) Run(ctx context.Context, strategy orchestrator.Strategy, question string) (*orchestrator.Result, error) {
	return m.runFunc(ctx, strategy, question)
}

type mockEmbedder struct {
	embedFunc func(ctx context.Context, texts []string) ([]rag.EmbeddingRecord, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([]rag.EmbeddingRecord, error) {
	return m.embedFunc(ctx, texts)
}

func (m *mockEmbedder) GetModel() string  { return "mock" }
func (m *mockEmbedder) GetDimension() int { return 3 }

type mockStore struct {
	upserted int
}

func (m *mockStore) Upsert(ctx context.Context, records []rag.EmbeddingRecord) error {
	m.upserted += len(records)
	return nil
}

func (m *mockStore) Search(ctx context.Context, vector []float32, topK int) ([]rag.Match, error) {
	return nil, nil
}

func (m *mockStore) Count(ctx context.Context) (int64, error) { return int64(m.upserted), nil }
func (m *mockStore) Close() error                             { return nil }

func newTestServer(pipeline Pipeline) *Server {
	return New(Options{
		Pipeline:   pipeline,
		Corpus:     corpus.New([]string{"chunk un", "chunk deux", "chunk trois"}),
		CORSOrigin: "http://localhost:3000",
	})
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestGenerate_NaiveEnvelope(t *testing.T) {
	pipeline := &mockPipeline{
		runFunc: func(ctx context.Context, strategy orchestrator.Strategy, question string) (*orchestrator.Result, error) {
			assert.Equal(t, orchestrator.StrategyNaive, strategy)
			assert.Equal(t, "어린왕자는 누구인가요?", question)
			return &orchestrator.Result{
				Answer:   "어린왕자는 소행성 B-612에서 온 소년입니다.",
				Contexts: []string{"Le petit prince", "la planète"},
			}, nil
		},
	}

	w := postJSON(t, newTestServer(pipeline), "/generate",
		map[string]string{"userMessage": "어린왕자는 누구인가요?"})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OriginalText []struct {
			Text string `json:"text"`
		} `json:"originalText"`
		Response struct {
			Output struct {
				Message struct {
					Content []struct {
						Text string `json:"text"`
					} `json:"content"`
				} `json:"message"`
			} `json:"output"`
		} `json:"response"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	require.Len(t, body.OriginalText, 2)
	assert.Equal(t, "Le petit prince", body.OriginalText[0].Text)
	require.Len(t, body.Response.Output.Message.Content, 1)
	assert.Equal(t, "어린왕자는 소행성 B-612에서 온 소년입니다.", body.Response.Output.Message.Content[0].Text)

	// Naive responses carry no metadata key at all.
	assert.NotContains(t, w.Body.String(), `"metadata"`)
}

func TestGenerate_FatalErrorShape(t *testing.T) {
	pipeline := &mockPipeline{
		runFunc: func(ctx context.Context, strategy orchestrator.Strategy, question string) (*orchestrator.Result, error) {
			return nil, errors.New("embedding service unreachable")
		},
	}

	w := postJSON(t, newTestServer(pipeline), "/generate", map[string]string{"userMessage": "질문"})

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "OpenAI API 호출 중 오류가 발생했습니다.", payload.Error)
	assert.Equal(t, "embedding service unreachable", payload.Details)
}

func TestGenerate_AdvancedCarriesMetadata(t *testing.T) {
	pipeline := &mockPipeline{
		runFunc: func(ctx context.Context, strategy orchestrator.Strategy, question string) (*orchestrator.Result, error) {
			assert.Equal(t, orchestrator.StrategyAdvanced, strategy)
			return &orchestrator.Result{
				Answer:   "답변",
				Contexts: []string{"contexte"},
				Metadata: orchestrator.AdvancedMetadata{
					ExpandedQueries:  []string{"확장 질문"},
					TransformedQuery: "변환된 검색어",
				},
			}, nil
		},
	}

	w := postJSON(t, newTestServer(pipeline), "/generate-advanced", map[string]string{"userMessage": "질문"})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Metadata struct {
			ExpandedQueries  []string `json:"expandedQueries"`
			TransformedQuery string   `json:"transformedQuery"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"확장 질문"}, body.Metadata.ExpandedQueries)
	assert.Equal(t, "변환된 검색어", body.Metadata.TransformedQuery)
}

func TestGenerate_MissingBodyBecomesEmptyQuestion(t *testing.T) {
	var gotQuestion string
	pipeline := &mockPipeline{
		runFunc: func(ctx context.Context, strategy orchestrator.Strategy, question string) (*orchestrator.Result, error) {
			gotQuestion = question
			return &orchestrator.Result{Answer: "답변"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	w := httptest.NewRecorder()
	newTestServer(pipeline).Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", gotQuestion)
}

func TestChunkCount(t *testing.T) {
	s := newTestServer(&mockPipeline{})

	req := httptest.NewRequest(http.MethodGet, "/how-many-vectors", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result": 3}`, w.Body.String())
}

func TestIndexCorpus(t *testing.T) {
	embedder := &mockEmbedder{
		embedFunc: func(ctx context.Context, texts []string) ([]rag.EmbeddingRecord, error) {
			records := make([]rag.EmbeddingRecord, len(texts))
			for i, text := range texts {
				records[i] = rag.EmbeddingRecord{Text: text, Index: i, Embedding: []float32{0.1}}
			}
			return records, nil
		},
	}
	store := &mockStore{}

	s := New(Options{
		Pipeline:   &mockPipeline{},
		Corpus:     corpus.New([]string{"a", "b", "c"}),
		Embedder:   embedder,
		Store:      store,
		CORSOrigin: "http://localhost:3000",
	})

	req := httptest.NewRequest(http.MethodGet, "/embedding", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result": 3}`, w.Body.String())
	assert.Equal(t, 3, store.upserted)
}

func TestCORS(t *testing.T) {
	s := newTestServer(&mockPipeline{})

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
