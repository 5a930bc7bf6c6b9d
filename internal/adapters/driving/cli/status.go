package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the health of the pipeline backends",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if statusService == nil {
		return errors.New("status service not configured")
	}

	status := statusService.Status(context.Background())

	cmd.Println("Pipeline status:")
	cmd.Println()

	if status.StoreConnected {
		cmd.Printf("  Vector store: connected (%d fragments in %s)\n",
			status.StoredFragments, status.Collection)
	} else {
		cmd.Println("  Vector store: unreachable")
	}

	if status.EmbeddingReachable {
		cmd.Printf("  Embeddings:   reachable (%s)\n", status.EmbeddingModel)
	} else {
		cmd.Printf("  Embeddings:   unreachable (%s)\n", status.EmbeddingModel)
	}

	switch {
	case !status.LLMConnected:
		cmd.Printf("  LLM backend:  unreachable (%s)\n", status.LLMModel)
	case status.LLMModelAvailable:
		cmd.Printf("  LLM backend:  reachable, model %s installed\n", status.LLMModel)
	default:
		cmd.Printf("  LLM backend:  reachable, model %s NOT installed\n", status.LLMModel)
	}

	return nil
}
