// Package cli implements the copiloto command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driving"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/logger"
)

var version = "dev"

var (
	verboseFlag bool
	configDir   string
)

// Services injected by the composition root.
var (
	chatService     driving.ChatService
	ingestService   driving.IngestService
	summaryService  driving.SummaryService
	classifyService driving.ClassifyService
	statusService   driving.StatusService
)

// initHook builds the services once persistent flags are parsed. Set by
// the composition root via OnInit.
var initHook func(configDir string) error

var rootCmd = &cobra.Command{
	Use:   "copiloto",
	Short: "Conversational copilot over your PDF documents",
	Long: `Copiloto ingests PDF documents into a local vector collection and
answers questions about them using a local Ollama model, with document
summaries and topic classification on top of the same collection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if initHook != nil {
			return initHook(configDir)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default ~/.copiloto)")
}

// Services bundles everything the commands need.
type Services struct {
	Chat     driving.ChatService
	Ingest   driving.IngestService
	Summary  driving.SummaryService
	Classify driving.ClassifyService
	Status   driving.StatusService
}

// SetServices injects the service implementations.
func SetServices(s Services) {
	chatService = s.Chat
	ingestService = s.Ingest
	summaryService = s.Summary
	classifyService = s.Classify
	statusService = s.Status
}

// OnInit registers the hook that wires the services after flag parsing.
func OnInit(hook func(configDir string) error) {
	initHook = hook
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
