package services

import (
	"context"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driving"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/logger"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// StatusService probes every backend and aggregates the result. It
// never errors; an unreachable backend is part of the report.
type StatusService struct {
	embeddingService driven.EmbeddingService
	llmService       driven.LLMService
	vectorStore      driven.VectorStore
}

// NewStatusService creates a new status service.
func NewStatusService(
	embeddingService driven.EmbeddingService,
	llmService driven.LLMService,
	vectorStore driven.VectorStore,
) *StatusService {
	return &StatusService{
		embeddingService: embeddingService,
		llmService:       llmService,
		vectorStore:      vectorStore,
	}
}

// Status probes the vector store, the embedding backend, and the model
// backend.
func (s *StatusService) Status(ctx context.Context) driving.PipelineStatus {
	status := driving.PipelineStatus{
		EmbeddingModel: s.embeddingService.ModelName(),
		LLMModel:       s.llmService.ModelName(),
	}

	storeStatus := s.vectorStore.Status(ctx)
	status.StoreConnected = storeStatus.Connected
	status.StoredFragments = storeStatus.Fragments
	status.Collection = storeStatus.Collection
	if storeStatus.Err != nil {
		logger.Debug("Vector store probe failed: %v", storeStatus.Err)
	}

	if err := s.embeddingService.Ping(ctx); err != nil {
		logger.Debug("Embedding backend probe failed: %v", err)
	} else {
		status.EmbeddingReachable = true
	}

	models, err := s.llmService.Models(ctx)
	if err != nil {
		logger.Debug("Model backend probe failed: %v", err)
		return status
	}

	status.LLMConnected = true
	status.AvailableModels = models
	for _, model := range models {
		if model == status.LLMModel {
			status.LLMModelAvailable = true
			break
		}
	}

	return status
}
