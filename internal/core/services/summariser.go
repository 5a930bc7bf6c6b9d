package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driving"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/logger"
)

// Ensure SummaryService implements the interface.
var _ driving.SummaryService = (*SummaryService)(nil)

// Content budgets for the summary prompts.
const (
	// maxSummaryChars truncates a single document's content.
	maxSummaryChars = 3000

	// maxPreviewChars truncates each document in a collection summary.
	maxPreviewChars = 800

	// maxCollectionDocs caps how many documents a collection summary reads.
	maxCollectionDocs = 10

	// maxCompareChars truncates each side of a comparison.
	maxCompareChars = 2000

	// minSentenceChars filters noise out of the extractive fallback.
	minSentenceChars = 20

	summaryMaxTokens = 400
)

// SummaryService produces document summaries, degrading to a
// deterministic extractive fallback when the model backend is down.
type SummaryService struct {
	llmService  driven.LLMService
	promptStore driven.PromptStore
	vectorStore driven.VectorStore
	registry    driven.DocumentRegistry
}

// NewSummaryService creates a new summary service.
func NewSummaryService(
	llmService driven.LLMService,
	promptStore driven.PromptStore,
	vectorStore driven.VectorStore,
	registry driven.DocumentRegistry,
) *SummaryService {
	return &SummaryService{
		llmService:  llmService,
		promptStore: promptStore,
		vectorStore: vectorStore,
		registry:    registry,
	}
}

// SummariseDocument summarises one document's content. An unknown type
// falls back to the comprehensive template.
func (s *SummaryService) SummariseDocument(ctx context.Context, content string, typ domain.SummaryType) (domain.Summary, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Summary{}, fmt.Errorf("%w: empty content", domain.ErrInvalidInput)
	}
	if !typ.IsValid() {
		typ = domain.SummaryComprehensive
	}

	truncated := false
	if len(content) > maxSummaryChars {
		content = content[:maxSummaryChars] + "..."
		truncated = true
	}

	if err := s.llmService.Ping(ctx); err != nil {
		logger.Warn("Model backend unreachable, extractive summary: %v", err)
		return s.extractiveSummary(content, typ, truncated), nil
	}

	prompt, err := s.renderSinglePrompt(content, typ)
	if err != nil {
		return s.extractiveSummary(content, typ, truncated), nil
	}

	result, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   summaryMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		logger.Warn("Summary generation failed, extractive fallback: %v", err)
		return s.extractiveSummary(content, typ, truncated), nil
	}

	return domain.Summary{
		Text:      strings.TrimSpace(result.Text),
		Type:      typ,
		Method:    domain.SummarisedByModel,
		Truncated: truncated,
	}, nil
}

// SummariseCollection consolidates the stored documents into one
// summary, reading at most ten documents with a short preview of each.
func (s *SummaryService) SummariseCollection(ctx context.Context, typ domain.SummaryType) (domain.Summary, error) {
	if !typ.IsValid() {
		typ = domain.SummaryComprehensive
	}

	docs, err := s.registry.List(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	if len(docs) == 0 {
		return domain.Summary{}, fmt.Errorf("%w: no documents to summarise", domain.ErrNotFound)
	}
	if len(docs) > maxCollectionDocs {
		docs = docs[:maxCollectionDocs]
	}

	previews := make([]string, 0, len(docs))
	contents := make([]string, 0, len(docs))
	for i, doc := range docs {
		preview, err := s.documentPreview(ctx, doc.Filename)
		if err != nil {
			logger.Warn("Skipping %s in collection summary: %v", doc.Filename, err)
			continue
		}
		contents = append(contents, preview)
		previews = append(previews, fmt.Sprintf("=== DOCUMENT %d: %s ===\n%s", i+1, doc.Filename, preview))
	}
	if len(previews) == 0 {
		return domain.Summary{}, fmt.Errorf("%w: no readable documents to summarise", domain.ErrNotFound)
	}

	if err := s.llmService.Ping(ctx); err != nil {
		logger.Warn("Model backend unreachable, extractive collection summary: %v", err)
		summary := s.extractiveMultiSummary(contents, typ)
		return summary, nil
	}

	template, err := s.promptStore.Load(driven.PromptMultiDocument)
	if err != nil {
		return s.extractiveMultiSummary(contents, typ), nil
	}

	result, err := s.llmService.Generate(ctx, fmt.Sprintf(template, strings.Join(previews, "\n\n")), driven.GenerateOptions{
		MaxTokens:   summaryMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		logger.Warn("Collection summary failed, extractive fallback: %v", err)
		return s.extractiveMultiSummary(contents, typ), nil
	}

	return domain.Summary{
		Text:               strings.TrimSpace(result.Text),
		Type:               typ,
		Method:             domain.SummarisedByModel,
		DocumentsProcessed: len(previews),
	}, nil
}

// Compare produces the five-section comparative analysis of two
// content blocks.
func (s *SummaryService) Compare(ctx context.Context, doc1, doc2 string) (domain.Summary, error) {
	doc1 = strings.TrimSpace(doc1)
	doc2 = strings.TrimSpace(doc2)
	if doc1 == "" || doc2 == "" {
		return domain.Summary{}, fmt.Errorf("%w: comparison needs two non-empty documents", domain.ErrInvalidInput)
	}

	truncated := false
	if len(doc1) > maxCompareChars {
		doc1 = doc1[:maxCompareChars] + "..."
		truncated = true
	}
	if len(doc2) > maxCompareChars {
		doc2 = doc2[:maxCompareChars] + "..."
		truncated = true
	}

	if err := s.llmService.Ping(ctx); err != nil {
		logger.Warn("Model backend unreachable, extractive comparison: %v", err)
		return s.extractiveComparison(doc1, doc2, truncated), nil
	}

	template, err := s.promptStore.Load(driven.PromptComparison)
	if err != nil {
		return s.extractiveComparison(doc1, doc2, truncated), nil
	}

	result, err := s.llmService.Generate(ctx, fmt.Sprintf(template, doc1, doc2), driven.GenerateOptions{
		MaxTokens:   summaryMaxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		logger.Warn("Comparison failed, extractive fallback: %v", err)
		return s.extractiveComparison(doc1, doc2, truncated), nil
	}

	return domain.Summary{
		Text:               strings.TrimSpace(result.Text),
		Type:               domain.SummaryComprehensive,
		Method:             domain.SummarisedByModel,
		DocumentsProcessed: 2,
		Truncated:          truncated,
	}, nil
}

// renderSinglePrompt loads the template matching the summary type.
func (s *SummaryService) renderSinglePrompt(content string, typ domain.SummaryType) (string, error) {
	var name string
	switch typ {
	case domain.SummaryExecutive:
		name = driven.PromptSummaryExecutive
	case domain.SummaryTechnical:
		name = driven.PromptSummaryTechnical
	case domain.SummaryBulletPoints:
		name = driven.PromptSummaryBullets
	default:
		name = driven.PromptSummaryComprehensive
	}

	template, err := s.promptStore.Load(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(template, content), nil
}

// documentPreview reads the leading fragments of a document up to the
// preview budget.
func (s *SummaryService) documentPreview(ctx context.Context, filename string) (string, error) {
	fragments, err := s.vectorStore.GetByFilename(ctx, filename)
	if err != nil {
		return "", err
	}
	if len(fragments) == 0 {
		return "", fmt.Errorf("%w: no fragments for %q", domain.ErrNotFound, filename)
	}

	ordered := make([]domain.Fragment, len(fragments))
	copy(ordered, fragments)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	var b strings.Builder
	for _, f := range ordered {
		if b.Len() >= maxPreviewChars {
			break
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(f.Content)
	}

	preview := b.String()
	if len(preview) > maxPreviewChars {
		preview = preview[:maxPreviewChars] + "..."
	}
	return preview, nil
}

// extractiveSummary selects the first two, middle two, and last two
// sentences of the content. Short contents are returned whole.
func (s *SummaryService) extractiveSummary(content string, typ domain.SummaryType, truncated bool) domain.Summary {
	sentences := splitSentences(content)

	var selected []string
	if len(sentences) <= 5 {
		selected = sentences
	} else {
		selected = append(selected, sentences[:2]...)
		mid := len(sentences) / 3
		selected = append(selected, sentences[mid:mid+2]...)
		selected = append(selected, sentences[len(sentences)-2:]...)
	}

	return domain.Summary{
		Text:      strings.Join(selected, " "),
		Type:      typ,
		Method:    domain.SummarisedExtractively,
		Truncated: truncated,
	}
}

// extractiveMultiSummary takes the first, middle, and last sentence of
// each document and lists them.
func (s *SummaryService) extractiveMultiSummary(contents []string, typ domain.SummaryType) domain.Summary {
	parts := make([]string, 0, len(contents))
	for i, content := range contents {
		sentences := splitSentences(content)
		if len(sentences) == 0 {
			continue
		}

		var key []string
		if len(sentences) >= 3 {
			key = []string{sentences[0], sentences[len(sentences)/2], sentences[len(sentences)-1]}
		} else {
			key = sentences
		}
		if len(key) > 2 {
			key = key[:2]
		}
		parts = append(parts, fmt.Sprintf("Document %d: %s", i+1, strings.Join(key, " ")))
	}

	return domain.Summary{
		Text:               strings.Join(parts, "\n\n"),
		Type:               typ,
		Method:             domain.SummarisedExtractively,
		DocumentsProcessed: len(contents),
	}
}

// extractiveComparison summarises each side separately; no model means
// no cross-document analysis.
func (s *SummaryService) extractiveComparison(doc1, doc2 string, truncated bool) domain.Summary {
	first := s.extractiveSummary(doc1, domain.SummaryComprehensive, false)
	second := s.extractiveSummary(doc2, domain.SummaryComprehensive, false)

	text := fmt.Sprintf("DOCUMENT 1 KEY SENTENCES:\n%s\n\nDOCUMENT 2 KEY SENTENCES:\n%s",
		first.Text, second.Text)

	return domain.Summary{
		Text:               text,
		Type:               domain.SummaryComprehensive,
		Method:             domain.SummarisedExtractively,
		DocumentsProcessed: 2,
		Truncated:          truncated,
	}
}

// splitSentences cuts content into sentences, dropping anything at or
// under the noise threshold.
func splitSentences(content string) []string {
	flat := strings.ReplaceAll(content, "\n", " ")

	var sentences []string
	for _, raw := range strings.Split(flat, ". ") {
		sentence := strings.TrimSpace(raw)
		sentence = strings.TrimSuffix(sentence, ".")
		if len(sentence) <= minSentenceChars {
			continue
		}
		sentences = append(sentences, sentence+".")
	}
	return sentences
}
