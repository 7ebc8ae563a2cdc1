package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/0-ROK/little-prince-llm/internal/rag"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the novel and upsert it into the vector store",
	Long: `Index reads the source PDF, splits it into fixed-size chunks, embeds
every chunk and upserts the vectors into Milvus keyed by chunk position.

Run this once before serving; re-running refreshes existing entries.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := buildRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)

	count, err := rag.IndexCorpus(ctx, rt.corpus, rt.embedder, rt.store, rag.DefaultIndexOptions(), rt.logger)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Indexed %d chunks", count)))
	return nil
}
