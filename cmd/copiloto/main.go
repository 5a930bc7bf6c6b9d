// Command copiloto is a conversational copilot over local PDF
// documents, backed by Ollama and ChromaDB.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	configfile "github.com/Cristian-Soto/copiloto-conversacional/internal/adapters/driven/config/file"
	ollamaembed "github.com/Cristian-Soto/copiloto-conversacional/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/Cristian-Soto/copiloto-conversacional/internal/adapters/driven/llm/ollama"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/adapters/driven/pdf"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/adapters/driven/storage/sqlite"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/adapters/driven/vectorstore/chroma"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/adapters/driving/cli"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/services"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/fragmenter"
)

// version is set at build time via -ldflags.
var version = "0.1.0"

func main() {
	cli.SetVersion(version)
	cli.OnInit(buildServices)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildServices wires the adapters and services once the persistent
// flags are parsed. configDir overrides ~/.copiloto when non-empty.
func buildServices(configDir string) error {
	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg := configStore.Config()

	promptDir := ""
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	promptStore, err := configfile.NewPromptStore(promptDir)
	if err != nil {
		return fmt.Errorf("loading prompts: %w", err)
	}

	embedding := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.EmbeddingModel,
	})
	llm := ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.LLMModel,
		Timeout: time.Duration(cfg.Ollama.TimeoutSeconds) * time.Second,
	})
	store := chroma.NewStore(chroma.Config{
		BaseURL:    cfg.Chroma.BaseURL,
		Collection: cfg.Chroma.Collection,
	})

	registry, err := sqlite.NewRegistry(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening document registry: %w", err)
	}

	splitter := fragmenter.New(
		fragmenter.WithChunkSize(cfg.Fragmenter.ChunkSize),
		fragmenter.WithOverlap(cfg.Fragmenter.Overlap),
	)

	retrieval := services.NewRetrievalService(embedding, store)
	generation := services.NewGenerationService(retrieval, llm)
	generation.SetPromptStore(promptStore)

	cli.SetServices(cli.Services{
		Chat:     generation,
		Ingest:   services.NewIngestService(pdf.New(), splitter, embedding, store, registry),
		Summary:  services.NewSummaryService(llm, promptStore, store, registry),
		Classify: services.NewClassifyService(llm, promptStore, store, registry, cfg.Classifier.ConfidenceThreshold),
		Status:   services.NewStatusService(embedding, llm, store),
	})

	return nil
}
