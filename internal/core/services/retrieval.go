package services

import (
	"context"
	"sort"
	"strings"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/logger"
)

// RetrievalService finds the stored fragments most similar to a query.
type RetrievalService struct {
	embeddingService driven.EmbeddingService
	vectorStore      driven.VectorStore
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	embeddingService driven.EmbeddingService,
	vectorStore driven.VectorStore,
) *RetrievalService {
	return &RetrievalService{
		embeddingService: embeddingService,
		vectorStore:      vectorStore,
	}
}

// Search embeds the query, asks the vector store for nearest
// neighbours, and normalises the result. Fragments below the similarity
// threshold are dropped; an outcome with Found=false is not an error,
// only backend failures are.
func (s *RetrievalService) Search(ctx context.Context, query string, opts domain.SearchOptions) (domain.SearchOutcome, error) {
	logger.Section("Contextual Retrieval")
	logger.Debug("Query: %q", query)

	outcome := domain.SearchOutcome{Query: query}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, nothing to retrieve")
		return outcome, nil
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = domain.DefaultMaxResults
	}
	threshold := opts.SimilarityThreshold
	if threshold <= 0 {
		threshold = domain.DefaultSimilarityThreshold
	}
	logger.Debug("Max results: %d, threshold: %.2f", maxResults, threshold)

	vector, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return outcome, err
	}

	neighbors, err := s.vectorStore.Query(ctx, vector, maxResults)
	if err != nil {
		return outcome, err
	}
	logger.Debug("Store returned %d neighbours", len(neighbors))

	fragments := make([]domain.RetrievedFragment, 0, len(neighbors))
	for _, n := range neighbors {
		similarity := domain.RoundScore(domain.Similarity(n.Distance))
		if similarity < threshold {
			continue
		}
		fragments = append(fragments, domain.RetrievedFragment{
			Fragment: domain.Fragment{
				ID:       n.ID,
				Filename: n.Meta.Filename,
				Index:    n.Meta.FragmentIndex,
				Content:  n.Content,
				Meta:     n.Meta,
			},
			Similarity: similarity,
		})
	}

	// Stores generally return neighbours ordered by distance already;
	// the stable sort keeps that order for equal scores.
	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].Similarity > fragments[j].Similarity
	})
	for i := range fragments {
		fragments[i].Rank = i + 1
	}

	outcome.Found = len(fragments) > 0
	outcome.Fragments = fragments
	outcome.Metadata = domain.SearchMetadata{
		TotalResults:        len(fragments),
		SimilarityThreshold: threshold,
		MaxResultsRequested: maxResults,
		EmbeddingDimension:  len(vector),
	}
	logger.Debug("Kept %d fragments above threshold", len(fragments))

	return outcome, nil
}
