package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	classifyLabels    string
	classifyThreshold float64
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify documents by topic",
	Long: `Assigns topic labels to document content with the configured Ollama
model, falling back to keyword matching when the backend is down.`,
}

var classifyContentCmd = &cobra.Command{
	Use:   "content [text]",
	Short: "Classify a piece of text",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassifyContent,
}

var classifyDocumentCmd = &cobra.Command{
	Use:   "document [filename]",
	Short: "Classify an ingested document",
	Args:  cobra.ExactArgs(1),
	RunE:  runClassifyDocument,
}

var classifyCollectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Classify the whole collection and report topic statistics",
	Args:  cobra.NoArgs,
	RunE:  runClassifyCollection,
}

var classifyLabelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Print the default label set",
	Args:  cobra.NoArgs,
	RunE:  runClassifyLabels,
}

func init() {
	classifyCmd.PersistentFlags().StringVarP(&classifyLabels, "labels", "l", "",
		"comma-separated label set (default built-in labels)")
	classifyCmd.PersistentFlags().Float64VarP(&classifyThreshold, "threshold", "t", 0,
		"minimum confidence to accept a label (default from configuration)")

	classifyCmd.AddCommand(classifyContentCmd)
	classifyCmd.AddCommand(classifyDocumentCmd)
	classifyCmd.AddCommand(classifyCollectionCmd)
	classifyCmd.AddCommand(classifyLabelsCmd)
	rootCmd.AddCommand(classifyCmd)
}

func labelSet() []string {
	if classifyLabels == "" {
		return nil
	}
	var labels []string
	for _, label := range strings.Split(classifyLabels, ",") {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

func runClassifyContent(cmd *cobra.Command, args []string) error {
	if classifyService == nil {
		return errors.New("classify service not configured")
	}

	classification, err := classifyService.ClassifyContent(
		context.Background(), args[0], labelSet(), classifyThreshold)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	cmd.Printf("Label:      %s\n", classification.Label)
	cmd.Printf("Confidence: %.2f\n", classification.Confidence)
	cmd.Printf("Method:     %s\n", classification.Method)
	if classification.Reason != "" {
		cmd.Printf("Reason:     %s\n", classification.Reason)
	}
	return nil
}

func runClassifyDocument(cmd *cobra.Command, args []string) error {
	if classifyService == nil {
		return errors.New("classify service not configured")
	}

	content, err := documentContent(args[0])
	if err != nil {
		return err
	}

	classification, err := classifyService.ClassifyContent(
		context.Background(), content, labelSet(), classifyThreshold)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	cmd.Printf("%s: %s (%.2f, %s)\n",
		args[0], classification.Label, classification.Confidence, classification.Method)
	return nil
}

func runClassifyCollection(cmd *cobra.Command, _ []string) error {
	if classifyService == nil {
		return errors.New("classify service not configured")
	}

	report, err := classifyService.ClassifyCollection(context.Background(), labelSet())
	if err != nil {
		return fmt.Errorf("collection classification failed: %w", err)
	}

	cmd.Printf("Classified %d documents:\n\n", report.TotalDocuments)
	for _, dc := range report.Classifications {
		cmd.Printf("  %s: %s (%.2f)\n",
			dc.Filename, dc.Classification.Label, dc.Classification.Confidence)
	}

	cmd.Println("\nTopic distribution:")
	labels := make([]string, 0, len(report.Counts))
	for label := range report.Counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if report.Counts[label] == 0 {
			continue
		}
		cmd.Printf("  %-16s %d (%.1f%%)\n", label, report.Counts[label], report.Percentages[label])
	}

	if len(report.Dominant) > 0 {
		cmd.Println("\nDominant topics:")
		for i, topic := range report.Dominant {
			cmd.Printf("  %d. %s (%d)\n", i+1, topic.Label, topic.Count)
		}
	}

	insights := classifyService.Insights(report)
	cmd.Printf("\nDiversity: %.0f%% of labels present (%s)\n",
		insights.DiversityScore, insights.Tier)
	return nil
}

func runClassifyLabels(cmd *cobra.Command, _ []string) error {
	if classifyService == nil {
		return errors.New("classify service not configured")
	}

	for _, label := range classifyService.Labels() {
		cmd.Println(label)
	}
	return nil
}
