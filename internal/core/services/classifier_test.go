package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/adapters/driven/storage/memory"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
)

func classifyPrompts() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptClassify: "LABELS: %s CONTENT: %s",
	}}
}

func newClassifyFixture(llm *mockLLM, store *mockVectorStore) *ClassifyService {
	return NewClassifyService(llm, classifyPrompts(), store, memory.NewRegistry(), 0.6)
}

func TestClassifyContentByModel(t *testing.T) {
	llm := &mockLLM{response: "CATEGORY: technology\nCONFIDENCE: 0.85\nREASON: about software"}
	svc := newClassifyFixture(llm, &mockVectorStore{})

	c, err := svc.ClassifyContent(context.Background(), "software architecture notes", nil, 0.6)
	require.NoError(t, err)

	assert.Equal(t, "technology", c.Label)
	assert.Equal(t, 0.85, c.Confidence)
	assert.Equal(t, "about software", c.Reason)
	assert.Equal(t, domain.ClassifiedByModel, c.Method)
	assert.Equal(t, 0.85, c.Scores["technology"])
	assert.Equal(t, 0.1, c.Scores["science"])

	assert.Contains(t, llm.prompts[0], "technology, science")
}

func TestClassifyContentEmptyInput(t *testing.T) {
	svc := newClassifyFixture(&mockLLM{}, &mockVectorStore{})

	_, err := svc.ClassifyContent(context.Background(), " ", nil, 0.6)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseClassificationLenient(t *testing.T) {
	labels := []string{"technology", "science"}

	tests := []struct {
		name       string
		response   string
		label      string
		confidence float64
	}{
		{
			name:       "valid response",
			response:   "CATEGORY: Science\nCONFIDENCE: 0.9\nREASON: experiments",
			label:      "science",
			confidence: 0.9,
		},
		{
			name:       "invalid label forced unknown",
			response:   "CATEGORY: cooking\nCONFIDENCE: 0.9\nREASON: recipes",
			label:      domain.UnknownLabel,
			confidence: 0.0,
		},
		{
			name:       "below threshold forced unknown",
			response:   "CATEGORY: technology\nCONFIDENCE: 0.3\nREASON: weak signal",
			label:      domain.UnknownLabel,
			confidence: 0.3,
		},
		{
			name:       "unparsable confidence defaults to half",
			response:   "CATEGORY: technology\nCONFIDENCE: high\nREASON: strong",
			label:      domain.UnknownLabel, // 0.5 < 0.6 threshold
			confidence: 0.5,
		},
		{
			name:       "garbage response",
			response:   "I think this is about many things.",
			label:      domain.UnknownLabel,
			confidence: 0.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := parseClassification(tc.response, labels, 0.6)
			assert.Equal(t, tc.label, c.Label)
			assert.Equal(t, tc.confidence, c.Confidence)
			assert.Equal(t, domain.ClassifiedByModel, c.Method)
		})
	}
}

func TestClassifyContentKeywordFallbackWhenDown(t *testing.T) {
	llm := &mockLLM{pingErr: domain.ErrLLMUnavailable}
	svc := newClassifyFixture(llm, &mockVectorStore{})

	content := "The software system uses digital technology and more software."
	c, err := svc.ClassifyContent(context.Background(), content, nil, 0.6)
	require.NoError(t, err)

	assert.Equal(t, "technology", c.Label)
	assert.Equal(t, domain.ClassifiedByKeywords, c.Method)
	// More than four keyword matches, so the score caps at 0.8.
	assert.Equal(t, 0.8, c.Confidence)
	assert.Empty(t, llm.prompts)
}

func TestKeywordFallbackConservativeScore(t *testing.T) {
	llm := &mockLLM{pingErr: domain.ErrLLMUnavailable}
	svc := newClassifyFixture(llm, &mockVectorStore{})

	c, err := svc.ClassifyContent(context.Background(), "the hospital treated one patient", nil, 0.6)
	require.NoError(t, err)
	assert.Equal(t, "health", c.Label)
	assert.InDelta(t, 0.4, c.Confidence, 1e-9) // 2 matches * 0.2
}

func TestKeywordFallbackNoMatches(t *testing.T) {
	llm := &mockLLM{pingErr: domain.ErrLLMUnavailable}
	svc := newClassifyFixture(llm, &mockVectorStore{})

	c, err := svc.ClassifyContent(context.Background(), "zzz qqq unrelated words entirely", nil, 0.6)
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownLabel, c.Label)
	assert.Zero(t, c.Confidence)
}

func TestClassifyCollection(t *testing.T) {
	llm := &mockLLM{response: "CATEGORY: technology\nCONFIDENCE: 0.9\nREASON: software"}
	store := &mockVectorStore{fragments: []domain.Fragment{
		{ID: "id-1", Filename: "a.pdf", Content: "software systems", Meta: domain.FragmentMeta{Filename: "a.pdf"}},
		{ID: "id-2", Filename: "a.pdf", Content: "more of the same", Meta: domain.FragmentMeta{Filename: "a.pdf"}},
		{ID: "id-3", Filename: "b.pdf", Content: "software again", Meta: domain.FragmentMeta{Filename: "b.pdf"}},
	}}
	svc := newClassifyFixture(llm, store)

	report, err := svc.ClassifyCollection(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalDocuments, "one classification per document")
	assert.Equal(t, 2, report.Counts["technology"])
	assert.Equal(t, 100.0, report.Percentages["technology"])
	require.Len(t, report.Dominant, 1)
	assert.Equal(t, domain.TopicCount{Label: "technology", Count: 2}, report.Dominant[0])
	assert.Len(t, report.Classifications, 2)
}

func TestClassifyCollectionEmpty(t *testing.T) {
	svc := newClassifyFixture(&mockLLM{}, &mockVectorStore{})

	_, err := svc.ClassifyCollection(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInsights(t *testing.T) {
	svc := newClassifyFixture(&mockLLM{}, &mockVectorStore{})

	report := domain.CollectionReport{
		TotalDocuments: 10,
		Labels:         []string{"a", "b", "c", "d"},
		Counts:         map[string]int{"a": 4, "b": 3, "c": 3, "d": 0},
	}

	insights := svc.Insights(report)
	assert.Equal(t, 3, insights.TopicsPresent)
	assert.Equal(t, 75.0, insights.DiversityScore)
	assert.Equal(t, "very diverse", insights.Tier)
}

func TestInsightsEmptyReport(t *testing.T) {
	svc := newClassifyFixture(&mockLLM{}, &mockVectorStore{})

	insights := svc.Insights(domain.CollectionReport{})
	assert.Zero(t, insights.TopicsPresent)
	assert.Equal(t, "low diversity", insights.Tier)
}

func TestDominantTopicsOrderAndCap(t *testing.T) {
	labels := []string{"a", "b", "c", "d", "e", "f", "g"}
	counts := map[string]int{"a": 1, "b": 3, "c": 3, "d": 2, "e": 1, "f": 1, "g": 1}

	topics := dominantTopics(counts, labels)
	require.Len(t, topics, 5)
	assert.Equal(t, "b", topics[0].Label, "ties keep label-set order")
	assert.Equal(t, "c", topics[1].Label)
	assert.Equal(t, "d", topics[2].Label)
	assert.Equal(t, "a", topics[3].Label)
	assert.Equal(t, "e", topics[4].Label)
}

func TestLabelsReturnsCopy(t *testing.T) {
	svc := newClassifyFixture(&mockLLM{}, &mockVectorStore{})

	labels := svc.Labels()
	labels[0] = "mutated"
	assert.NotEqual(t, "mutated", domain.DefaultLabels[0])
}
