package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/watcher"
)

var ingestWatchDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf]",
	Short: "Ingest a PDF document into the collection",
	Long: `Extracts the text of a PDF, splits it into fragments, embeds each
fragment, and stores the result in the vector collection.

With --watch, ingests every PDF dropped into the given directory until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestWatchDir, "watch", "w", "", "watch a directory and ingest dropped PDFs")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if ingestWatchDir != "" {
		return runIngestWatch(cmd)
	}

	if len(args) == 0 {
		return errors.New("a PDF file is required unless --watch is given")
	}

	stats, err := ingestService.Ingest(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printIngestStats(cmd, stats)
	return nil
}

func runIngestWatch(cmd *cobra.Command) error {
	w, err := watcher.New(ingestService, ingestWatchDir)
	if err != nil {
		return err
	}
	w.OnIngest = func(path string, stats domain.IngestStats, err error) {
		if err != nil {
			cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
			return
		}
		printIngestStats(cmd, stats)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for PDF documents. Press Ctrl+C to stop.\n", ingestWatchDir)

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printIngestStats(cmd *cobra.Command, stats domain.IngestStats) {
	cmd.Printf("Ingested %s\n", stats.Filename)
	cmd.Printf("  Pages:      %d\n", stats.Pages)
	cmd.Printf("  Fragments:  %d\n", stats.Fragments)
	cmd.Printf("  Embeddings: %d (dimension %d)\n", stats.Embeddings, stats.VectorDim)
}
