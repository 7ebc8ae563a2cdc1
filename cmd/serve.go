package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/0-ROK/little-prince-llm/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP backend",
	Long: `Serve the chat backend over HTTP.

Routes:
  POST /generate             naive retrieval
  POST /generate-advanced    query expansion, transformation and routing
  POST /generate-rerank      relevance reranking
  POST /generate-compressed  context compression
  POST /generate-hybrid      rerank + compression
  POST /generate-rlvr        verification + chain-of-thought reasoning
  GET  /embedding            embed and index the full corpus
  GET  /how-many-vectors     corpus chunk count

Required environment variables:
  OPENAI_API_KEY     - OpenAI API key for embeddings and LLM
  MILVUS_ADDRESS     - Milvus server address (default: localhost:19530)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := buildRuntime(context.Background())
	if err != nil {
		return err
	}
	defer rt.Close()

	s := server.New(server.Options{
		Pipeline:   rt.pipeline,
		Corpus:     rt.corpus,
		Embedder:   rt.embedder,
		Store:      rt.store,
		CORSOrigin: rt.cfg.CORSOrigin,
		Timeout:    rt.cfg.RequestTimeout,
		Logger:     rt.logger,
	})

	return s.Run(rt.cfg.Port)
}
