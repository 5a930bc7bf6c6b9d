package cli

import (
	"context"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driving"
)

// setupTestServices installs mock services and returns a cleanup that
// restores the previous ones.
func setupTestServices() func() {
	oldChat, oldIngest := chatService, ingestService
	oldSummary, oldClassify := summaryService, classifyService
	oldStatus := statusService

	SetServices(Services{
		Chat:     &mockChatService{},
		Ingest:   &mockIngestService{},
		Summary:  &mockSummaryService{},
		Classify: &mockClassifyService{},
		Status:   &mockStatusService{},
	})

	return func() {
		chatService, ingestService = oldChat, oldIngest
		summaryService, classifyService = oldSummary, oldClassify
		statusService = oldStatus
	}
}

type mockChatService struct {
	err error
}

func (m *mockChatService) Ask(_ context.Context, question string, _ domain.SearchOptions) (domain.SearchOutcome, domain.Answer, error) {
	if m.err != nil {
		return domain.SearchOutcome{}, domain.Answer{}, m.err
	}
	outcome := domain.SearchOutcome{
		Query: question,
		Found: true,
		Fragments: []domain.RetrievedFragment{
			{
				Fragment:   domain.Fragment{Filename: "manual.pdf", Index: 2, Content: "relevant text"},
				Similarity: 0.8765,
				Rank:       1,
			},
		},
	}
	answer := domain.Answer{
		Text:          "The manual says so.",
		Method:        domain.MethodChain,
		Confidence:    0.9,
		FragmentsUsed: 1,
		Model:         "test-model",
	}
	return outcome, answer, nil
}

func (m *mockChatService) Retrieve(_ context.Context, question string, _ domain.SearchOptions) (domain.SearchOutcome, error) {
	return domain.SearchOutcome{Query: question}, m.err
}

func (m *mockChatService) ClearMemory() {}

type mockIngestService struct {
	err  error
	docs []domain.Document
}

func (m *mockIngestService) Ingest(_ context.Context, path string) (domain.IngestStats, error) {
	if m.err != nil {
		return domain.IngestStats{}, m.err
	}
	return domain.IngestStats{Filename: path, Pages: 3, Fragments: 7, Embeddings: 7, VectorDim: 768}, nil
}

func (m *mockIngestService) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockIngestService) ListFragments(_ context.Context, filename string) ([]domain.Fragment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Fragment{
		{ID: "frag-1", Filename: filename, Index: 0, Content: "first part",
			Meta: domain.FragmentMeta{ContentPreview: "first part", FragmentLength: 10}},
		{ID: "frag-2", Filename: filename, Index: 1, Content: "second part",
			Meta: domain.FragmentMeta{ContentPreview: "second part", FragmentLength: 11}},
	}, nil
}

func (m *mockIngestService) DeleteDocument(_ context.Context, _ string) (bool, error) {
	return true, m.err
}

func (m *mockIngestService) DeleteFragments(_ context.Context, ids []string) (int, error) {
	return len(ids), m.err
}

func (m *mockIngestService) ClearAll(_ context.Context) (int, error) {
	return 12, m.err
}

type mockSummaryService struct {
	err error
}

func (m *mockSummaryService) SummariseDocument(_ context.Context, _ string, typ domain.SummaryType) (domain.Summary, error) {
	if m.err != nil {
		return domain.Summary{}, m.err
	}
	return domain.Summary{Text: "A concise summary.", Type: typ, Method: domain.SummarisedByModel}, nil
}

func (m *mockSummaryService) SummariseCollection(_ context.Context, typ domain.SummaryType) (domain.Summary, error) {
	if m.err != nil {
		return domain.Summary{}, m.err
	}
	return domain.Summary{Text: "Collection overview.", Type: typ, Method: domain.SummarisedByModel, DocumentsProcessed: 2}, nil
}

func (m *mockSummaryService) Compare(_ context.Context, _, _ string) (domain.Summary, error) {
	if m.err != nil {
		return domain.Summary{}, m.err
	}
	return domain.Summary{Text: "They differ.", Type: domain.SummaryComprehensive, Method: domain.SummarisedByModel, DocumentsProcessed: 2}, nil
}

type mockClassifyService struct {
	err error
}

func (m *mockClassifyService) ClassifyContent(_ context.Context, _ string, _ []string, _ float64) (domain.Classification, error) {
	if m.err != nil {
		return domain.Classification{}, m.err
	}
	return domain.Classification{
		Label:      "technology",
		Confidence: 0.9,
		Reason:     "about software",
		Method:     domain.ClassifiedByModel,
	}, nil
}

func (m *mockClassifyService) ClassifyCollection(_ context.Context, _ []string) (domain.CollectionReport, error) {
	if m.err != nil {
		return domain.CollectionReport{}, m.err
	}
	return domain.CollectionReport{
		TotalDocuments: 2,
		Classifications: []domain.DocumentClassification{
			{Filename: "a.pdf", Classification: domain.Classification{Label: "technology", Confidence: 0.9}},
			{Filename: "b.pdf", Classification: domain.Classification{Label: "science", Confidence: 0.8}},
		},
		Counts:      map[string]int{"technology": 1, "science": 1},
		Percentages: map[string]float64{"technology": 50, "science": 50},
		Dominant: []domain.TopicCount{
			{Label: "technology", Count: 1},
			{Label: "science", Count: 1},
		},
		Labels: []string{"technology", "science"},
	}, nil
}

func (m *mockClassifyService) Insights(_ domain.CollectionReport) domain.DiversityInsights {
	return domain.DiversityInsights{TopicsPresent: 2, DiversityScore: 100, Tier: "very diverse"}
}

func (m *mockClassifyService) Labels() []string {
	return []string{"technology", "science"}
}

type mockStatusService struct{}

func (m *mockStatusService) Status(_ context.Context) driving.PipelineStatus {
	return driving.PipelineStatus{
		StoreConnected:     true,
		StoredFragments:    42,
		Collection:         "processed_documents",
		EmbeddingReachable: true,
		EmbeddingModel:     "nomic-embed-text",
		LLMConnected:       true,
		LLMModel:           "llama3.2:3b",
		LLMModelAvailable:  true,
		AvailableModels:    []string{"llama3.2:3b"},
	}
}
