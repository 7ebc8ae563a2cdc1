package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/0-ROK/little-prince-llm/internal/orchestrator"
)

var (
	askStrategy string
	askVerbose  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the novel from the terminal",
	Long: `Ask a natural language question about "Le Petit Prince" using one of
the answering strategies.

Strategies:
  naive       top-2 retrieval, direct answer
  advanced    query expansion, transformation and routing
  rerank      retrieve 6, keep the 3 most relevant
  compressed  retrieve 5, compress into one context
  hybrid      retrieve 8, rerank to 5, compress
  rlvr        retrieve 5, verify, reason step by step

Examples:
  little-prince ask "어린왕자는 어느 별에서 왔나요?"
  little-prince ask --strategy rlvr "장미는 무엇을 상징하나요?" --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askStrategy, "strategy", "naive", "Answering strategy")
	askCmd.Flags().BoolVar(&askVerbose, "verbose", false, "Show the retrieved context passages")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := context.Background()

	var (
		headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F780FF")).Bold(true)
		questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BE9FD")).Italic(true)
		answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E9E9F4"))
		contextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4")).Italic(true)
		errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)
	)

	rt, err := buildRuntime(ctx)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}
	defer rt.Close()

	fmt.Println()
	fmt.Println(headerStyle.Render("Question:"))
	fmt.Println(questionStyle.Render(question))
	fmt.Println()

	result, err := rt.pipeline.Run(ctx, orchestrator.Strategy(askStrategy), question)
	if err != nil {
		return fmt.Errorf("%s %w", errorStyle.Render("Error:"), err)
	}

	fmt.Println(headerStyle.Render("Answer:"))
	fmt.Println()
	fmt.Println(answerStyle.Render(strings.TrimSpace(result.Answer)))
	fmt.Println()

	if askVerbose && len(result.Contexts) > 0 {
		fmt.Println(headerStyle.Render("Context:"))
		for i, text := range result.Contexts {
			fmt.Println(contextStyle.Render(fmt.Sprintf("%d. %s", i+1, text)))
		}
		fmt.Println()
	}

	return nil
}
