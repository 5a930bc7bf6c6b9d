package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driving"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/logger"
)

// Ensure ClassifyService implements the interface.
var _ driving.ClassifyService = (*ClassifyService)(nil)

const (
	// classifyMaxTokens bounds the classification response.
	classifyMaxTokens = 200

	// maxClassifyChars truncates the content shown to the model.
	maxClassifyChars = 1000

	// maxDominantTopics caps the dominant-topic ranking.
	maxDominantTopics = 5
)

// keywordMap holds the fallback keywords per label, used when the
// model backend is down or its output cannot be parsed.
var keywordMap = map[string][]string{
	"technology": {"software", "technology", "programming", "code", "system", "digital", "tech"},
	"science":    {"research", "study", "scientific", "experiment", "analysis", "data"},
	"business":   {"company", "business", "market", "customer", "sale", "strategy"},
	"health":     {"health", "medical", "treatment", "patient", "disease", "hospital"},
	"education":  {"education", "student", "teaching", "learning", "course", "school"},
	"finance":    {"money", "financial", "bank", "investment", "cost", "price", "economic"},
}

// ClassifyService assigns topic labels to document content using the
// model backend, with a keyword-counting fallback.
type ClassifyService struct {
	llmService  driven.LLMService
	promptStore driven.PromptStore
	vectorStore driven.VectorStore
	registry    driven.DocumentRegistry

	confidenceThreshold float64
}

// NewClassifyService creates a new classification service.
func NewClassifyService(
	llmService driven.LLMService,
	promptStore driven.PromptStore,
	vectorStore driven.VectorStore,
	registry driven.DocumentRegistry,
	confidenceThreshold float64,
) *ClassifyService {
	if confidenceThreshold <= 0 {
		confidenceThreshold = 0.6
	}
	return &ClassifyService{
		llmService:          llmService,
		promptStore:         promptStore,
		vectorStore:         vectorStore,
		registry:            registry,
		confidenceThreshold: confidenceThreshold,
	}
}

// Labels returns the label set in use by default.
func (s *ClassifyService) Labels() []string {
	labels := make([]string, len(domain.DefaultLabels))
	copy(labels, domain.DefaultLabels)
	return labels
}

// ClassifyContent classifies one piece of content against a label set.
// A nil labels slice selects the default set; a non-positive threshold
// selects the service default.
func (s *ClassifyService) ClassifyContent(ctx context.Context, content string, labels []string, confidenceThreshold float64) (domain.Classification, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Classification{}, fmt.Errorf("%w: empty content", domain.ErrInvalidInput)
	}
	if len(labels) == 0 {
		labels = domain.DefaultLabels
	}
	if confidenceThreshold <= 0 {
		confidenceThreshold = s.confidenceThreshold
	}

	if len(content) > maxClassifyChars {
		content = content[:maxClassifyChars]
	}

	if err := s.llmService.Ping(ctx); err != nil {
		logger.Warn("Model backend unreachable, keyword classification: %v", err)
		return s.keywordClassification(content, labels), nil
	}

	template, err := s.promptStore.Load(driven.PromptClassify)
	if err != nil {
		return s.keywordClassification(content, labels), nil
	}

	prompt := fmt.Sprintf(template, strings.Join(labels, ", "), content)
	result, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   classifyMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		logger.Warn("Classification call failed, keyword fallback: %v", err)
		return s.keywordClassification(content, labels), nil
	}

	return parseClassification(result.Text, labels, confidenceThreshold), nil
}

// ClassifyCollection classifies a sample of the stored collection, one
// classification per document, and aggregates per-label statistics.
func (s *ClassifyService) ClassifyCollection(ctx context.Context, labels []string) (domain.CollectionReport, error) {
	if len(labels) == 0 {
		labels = domain.DefaultLabels
	}

	fragments, err := s.vectorStore.Sample(ctx, 20)
	if err != nil {
		return domain.CollectionReport{}, err
	}
	if len(fragments) == 0 {
		return domain.CollectionReport{}, fmt.Errorf("%w: no documents to classify", domain.ErrNotFound)
	}

	// One fragment per document, first encountered wins.
	seen := make(map[string]bool)
	var samples []domain.Fragment
	for _, f := range fragments {
		filename := f.Filename
		if filename == "" {
			filename = f.Meta.Filename
		}
		if filename == "" || seen[filename] {
			continue
		}
		seen[filename] = true
		samples = append(samples, f)
	}

	report := domain.CollectionReport{
		TotalDocuments: len(samples),
		Counts:         make(map[string]int, len(labels)+1),
		Percentages:    make(map[string]float64, len(labels)+1),
		Labels:         labels,
	}
	for _, label := range labels {
		report.Counts[label] = 0
	}
	report.Counts[domain.UnknownLabel] = 0

	for _, sample := range samples {
		classification, err := s.ClassifyContent(ctx, sample.Content, labels, s.confidenceThreshold)
		if err != nil {
			classification = domain.Classification{
				Label:  domain.UnknownLabel,
				Reason: err.Error(),
				Method: domain.ClassifiedByKeywords,
			}
		}

		report.Classifications = append(report.Classifications, domain.DocumentClassification{
			Filename:       sample.Filename,
			Classification: classification,
		})

		if _, known := report.Counts[classification.Label]; known {
			report.Counts[classification.Label]++
		} else {
			report.Counts[domain.UnknownLabel]++
		}
	}

	for label, count := range report.Counts {
		report.Percentages[label] = float64(count) / float64(report.TotalDocuments) * 100
	}
	report.Dominant = dominantTopics(report.Counts, labels)

	return report, nil
}

// Insights derives diversity observations from a collection report.
func (s *ClassifyService) Insights(report domain.CollectionReport) domain.DiversityInsights {
	if report.TotalDocuments == 0 || len(report.Labels) == 0 {
		return domain.DiversityInsights{Tier: domain.DiversityTier(0)}
	}

	present := 0
	for _, label := range report.Labels {
		if report.Counts[label] > 0 {
			present++
		}
	}

	score := float64(present) / float64(len(report.Labels)) * 100
	return domain.DiversityInsights{
		TopicsPresent:  present,
		DiversityScore: score,
		Tier:           domain.DiversityTier(score),
	}
}

// parseClassification reads the three-line CATEGORY / CONFIDENCE /
// REASON format leniently: missing lines keep their defaults, an
// unparsable confidence becomes 0.5, an invalid label or a confidence
// below the threshold forces "unknown".
func parseClassification(response string, labels []string, confidenceThreshold float64) domain.Classification {
	label := domain.UnknownLabel
	confidence := 0.0
	reason := "could not be determined"

	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "CATEGORY:"):
			label = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "CATEGORY:")))
		case strings.HasPrefix(line, "CONFIDENCE:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "CONFIDENCE:"))
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				confidence = 0.5
			} else {
				confidence = parsed
			}
		case strings.HasPrefix(line, "REASON:"):
			reason = strings.TrimSpace(strings.TrimPrefix(line, "REASON:"))
		}
	}

	matched := ""
	for _, candidate := range labels {
		if strings.ToLower(candidate) == label {
			matched = candidate
			break
		}
	}
	if matched == "" {
		label = domain.UnknownLabel
		confidence = 0.0
	}
	if confidence < confidenceThreshold {
		label = domain.UnknownLabel
	}

	scores := make(map[string]float64, len(labels))
	for _, candidate := range labels {
		scores[candidate] = 0.1
	}
	if matched != "" {
		scores[matched] = confidence
	}

	return domain.Classification{
		Label:      label,
		Confidence: confidence,
		Reason:     reason,
		Scores:     scores,
		Method:     domain.ClassifiedByModel,
	}
}

// keywordClassification counts label keyword occurrences. Conservative
// scoring: confidence min(count*0.2, 0.8), zero matches means unknown.
func (s *ClassifyService) keywordClassification(content string, labels []string) domain.Classification {
	lowered := strings.ToLower(content)

	counts := make(map[string]int, len(labels))
	for _, label := range labels {
		for _, keyword := range keywordMap[strings.ToLower(label)] {
			counts[label] += strings.Count(lowered, keyword)
		}
	}

	bestLabel := ""
	bestCount := 0
	for _, label := range labels {
		if counts[label] > bestCount {
			bestLabel = label
			bestCount = counts[label]
		}
	}

	scores := make(map[string]float64, len(labels))
	for label, count := range counts {
		scores[label] = float64(count) * 0.1
	}

	if bestCount == 0 {
		return domain.Classification{
			Label:  domain.UnknownLabel,
			Reason: "no relevant keywords found",
			Scores: scores,
			Method: domain.ClassifiedByKeywords,
		}
	}

	return domain.Classification{
		Label:      strings.ToLower(bestLabel),
		Confidence: math.Min(float64(bestCount)*0.2, 0.8),
		Reason:     fmt.Sprintf("keyword matches: %d", bestCount),
		Scores:     scores,
		Method:     domain.ClassifiedByKeywords,
	}
}

// dominantTopics ranks labels by count, ties broken by label-set order,
// zero-count labels excluded.
func dominantTopics(counts map[string]int, labels []string) []domain.TopicCount {
	ordered := make([]string, 0, len(labels)+1)
	ordered = append(ordered, labels...)
	ordered = append(ordered, domain.UnknownLabel)

	var topics []domain.TopicCount
	for _, label := range ordered {
		if counts[label] > 0 {
			topics = append(topics, domain.TopicCount{Label: label, Count: counts[label]})
		}
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})

	if len(topics) > maxDominantTopics {
		topics = topics[:maxDominantTopics]
	}
	return topics
}
