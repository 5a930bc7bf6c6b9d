package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

var summaryTypeFlag string

var summariseCmd = &cobra.Command{
	Use:   "summarise [filename]",
	Short: "Summarise an ingested document",
	Long: `Generates a summary of an ingested document with the configured
Ollama model. Types: comprehensive, executive, technical, bullet_points.
When the model backend is down, an extractive summary is produced
instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarise,
}

var summariseCollectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Summarise the whole collection",
	Long:  `Consolidates up to ten ingested documents into one summary.`,
	Args:  cobra.NoArgs,
	RunE:  runSummariseCollection,
}

var summariseCompareCmd = &cobra.Command{
	Use:   "compare [filename1] [filename2]",
	Short: "Compare two ingested documents",
	Args:  cobra.ExactArgs(2),
	RunE:  runSummariseCompare,
}

func init() {
	summariseCmd.PersistentFlags().StringVarP(&summaryTypeFlag, "type", "t",
		domain.SummaryComprehensive.String(), "summary type")

	summariseCmd.AddCommand(summariseCollectionCmd)
	summariseCmd.AddCommand(summariseCompareCmd)
	rootCmd.AddCommand(summariseCmd)
}

func runSummarise(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	content, err := documentContent(args[0])
	if err != nil {
		return err
	}

	summary, err := summaryService.SummariseDocument(
		context.Background(), content, domain.SummaryType(summaryTypeFlag))
	if err != nil {
		return fmt.Errorf("summarise failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

func runSummariseCollection(cmd *cobra.Command, _ []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	summary, err := summaryService.SummariseCollection(
		context.Background(), domain.SummaryType(summaryTypeFlag))
	if err != nil {
		return fmt.Errorf("collection summary failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

func runSummariseCompare(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return errors.New("summary service not configured")
	}

	content1, err := documentContent(args[0])
	if err != nil {
		return err
	}
	content2, err := documentContent(args[1])
	if err != nil {
		return err
	}

	summary, err := summaryService.Compare(context.Background(), content1, content2)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	printSummary(cmd, summary)
	return nil
}

// documentContent reassembles a document's text from its stored
// fragments, in index order.
func documentContent(filename string) (string, error) {
	if ingestService == nil {
		return "", errors.New("ingest service not configured")
	}

	fragments, err := ingestService.ListFragments(context.Background(), filename)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", filename, err)
	}
	if len(fragments) == 0 {
		return "", fmt.Errorf("no fragments stored for %s", filename)
	}

	parts := make([]string, len(fragments))
	for i := range fragments {
		parts[i] = fragments[i].Content
	}
	return strings.Join(parts, "\n"), nil
}

func printSummary(cmd *cobra.Command, summary domain.Summary) {
	cmd.Println(summary.Text)
	cmd.Println()
	cmd.Printf("Type: %s\n", summary.Type)
	cmd.Printf("Method: %s\n", summary.Method)
	if summary.DocumentsProcessed > 0 {
		cmd.Printf("Documents: %d\n", summary.DocumentsProcessed)
	}
	if summary.Truncated {
		cmd.Println("Note: source content was truncated to fit the prompt budget")
	}
}
