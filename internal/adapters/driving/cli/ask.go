package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

var (
	askMaxResults int
	askThreshold  float64
	askNoSources  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Retrieves the most relevant fragments for the question and generates
an answer with the configured Ollama model. When the model backend is
down, an extractive answer is assembled from the retrieved fragments.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askMaxResults, "max-results", "n", domain.DefaultMaxResults, "maximum number of fragments to retrieve")
	askCmd.Flags().Float64VarP(&askThreshold, "threshold", "t", domain.DefaultSimilarityThreshold, "minimum similarity for a fragment to be used")
	askCmd.Flags().BoolVar(&askNoSources, "no-sources", false, "hide the source fragments")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	opts := domain.SearchOptions{
		MaxResults:          askMaxResults,
		SimilarityThreshold: askThreshold,
	}

	outcome, answer, err := chatService.Ask(context.Background(), args[0], opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("Method: %s", answer.Method)
	if answer.Model != "" {
		cmd.Printf(" (%s)", answer.Model)
	}
	cmd.Println()
	cmd.Printf("Confidence: %.2f\n", answer.Confidence)
	if answer.Note != "" {
		cmd.Printf("Note: %s\n", answer.Note)
	}

	if !askNoSources && len(outcome.Fragments) > 0 {
		cmd.Println("\nSources:")
		for _, f := range outcome.Fragments {
			cmd.Printf("  [%d] %s (fragment %d, %.4f)\n",
				f.Rank, f.Fragment.Filename, f.Fragment.Index, f.Similarity)
		}
	}

	return nil
}
