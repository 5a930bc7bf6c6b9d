package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List, inspect, or remove ingested documents and their fragments.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentFragmentsCmd = &cobra.Command{
	Use:   "fragments [filename]",
	Short: "List the stored fragments of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentFragments,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [filename]",
	Short: "Remove a document and all its fragments",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every document and fragment",
	Args:  cobra.NoArgs,
	RunE:  runDocumentClear,
}

// clearConfirmed skips the confirmation prompt for clear.
var clearConfirmed bool

func init() {
	documentClearCmd.Flags().BoolVarP(&clearConfirmed, "yes", "y", false, "skip the confirmation prompt")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentFragmentsCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentClearCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docs, err := ingestService.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].Filename)
		if docs[i].Title != "" {
			cmd.Printf("    Title:     %s\n", docs[i].Title)
		}
		if docs[i].Author != "" {
			cmd.Printf("    Author:    %s\n", docs[i].Author)
		}
		cmd.Printf("    Pages:     %d\n", docs[i].Pages)
		cmd.Printf("    Fragments: %d\n", docs[i].FragmentCount)
		cmd.Printf("    Uploaded:  %s\n", docs[i].UploadedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentFragments(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	filename := args[0]
	fragments, err := ingestService.ListFragments(context.Background(), filename)
	if err != nil {
		return fmt.Errorf("failed to list fragments: %w", err)
	}

	if len(fragments) == 0 {
		cmd.Printf("No fragments found for %s\n", filename)
		return nil
	}

	cmd.Printf("Fragments of %s:\n\n", filename)
	for i := range fragments {
		preview := strings.ReplaceAll(fragments[i].Meta.ContentPreview, "\n", " ")
		cmd.Printf("  [%d] %s (%d chars)\n", fragments[i].Index, fragments[i].ID, fragments[i].Meta.FragmentLength)
		if preview != "" {
			cmd.Printf("      %s\n", preview)
		}
	}

	cmd.Printf("\nTotal: %d fragments\n", len(fragments))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	filename := args[0]
	removed, err := ingestService.DeleteDocument(context.Background(), filename)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if !removed {
		cmd.Printf("Document %s was not found.\n", filename)
		return nil
	}

	cmd.Printf("Document %s deleted.\n", filename)
	return nil
}

func runDocumentClear(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if !clearConfirmed {
		return errors.New("clearing removes every document; re-run with --yes to confirm")
	}

	removed, err := ingestService.ClearAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}

	cmd.Printf("Removed %d fragments.\n", removed)
	return nil
}
