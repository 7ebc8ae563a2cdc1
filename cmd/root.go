package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "little-prince",
	Short: "Little Prince - RAG chat backend for Saint-Exupéry's novel",
	Long: `Little Prince answers questions about "Le Petit Prince" using
retrieval-augmented generation over the French original text.

It chunks the novel, indexes the chunks into a vector store (Milvus), and
serves six answering strategies of increasing sophistication, from naive
retrieval to verified chain-of-thought reasoning.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"Path to the YAML configuration file (optional)")
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
