package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driving"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/logger"
)

// Ensure GenerationService implements the interfaces.
var (
	_ driving.ChatService     = (*GenerationService)(nil)
	_ driven.PromptStoreAware = (*GenerationService)(nil)
)

// Context assembly limits for the generation tiers.
const (
	// maxContextFragments caps how many fragments go into the prompt.
	maxContextFragments = 3

	// maxFragmentChars truncates each fragment inside the context block.
	maxFragmentChars = 800

	// maxFallbackChars truncates the extractive tier's quoted fragment.
	maxFallbackChars = 500

	// chainMaxTokens and directMaxTokens bound the two model tiers.
	chainMaxTokens  = 500
	directMaxTokens = 200
)

// directQAPrompt is the hardcoded prompt of the direct tier, used when
// the structured chain is unavailable or failed.
const directQAPrompt = `You are a document analysis assistant. Answer based ONLY on the provided context.

RULES:
- Only use information from the context
- If there is not enough information, say so clearly
- Be concise and direct

CONTEXT:
%s

QUESTION: %s

ANSWER BASED ON THE CONTEXT:`

// noContextAnswer is returned when no fragment is available to quote.
const noContextAnswer = "No relevant information was found in the documents to answer your question."

// fallbackNote marks answers the extractive tier produced.
const fallbackNote = "Answer assembled without a model call: relevant information was found but could not be processed."

// GenerationService runs retrieval plus the three-tier answer cascade:
// structured chain, direct call, extractive fallback. The cascade
// absorbs backend failures; Ask only errors when retrieval itself does.
type GenerationService struct {
	retriever  *RetrievalService
	llmService driven.LLMService

	promptStore driven.PromptStore

	mu     sync.Mutex
	memory []domain.Turn
}

// NewGenerationService creates a new generation service.
func NewGenerationService(retriever *RetrievalService, llmService driven.LLMService) *GenerationService {
	return &GenerationService{
		retriever:  retriever,
		llmService: llmService,
	}
}

// SetPromptStore enables the structured chain tier. Without a store the
// cascade starts at the direct tier.
func (s *GenerationService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ask retrieves relevant context and runs the generation cascade.
func (s *GenerationService) Ask(ctx context.Context, question string, opts domain.SearchOptions) (domain.SearchOutcome, domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.SearchOutcome{}, domain.Answer{}, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	outcome, err := s.retriever.Search(ctx, question, opts)
	if err != nil {
		return outcome, domain.Answer{}, err
	}

	answer := s.Generate(ctx, question, outcome.Fragments)

	if answer.Method.Generated() {
		s.mu.Lock()
		s.memory = append(s.memory,
			domain.Turn{Role: "user", Content: question},
			domain.Turn{Role: "assistant", Content: answer.Text},
		)
		s.mu.Unlock()
	}

	return outcome, answer, nil
}

// Retrieve runs just the retrieval pass, without generation.
func (s *GenerationService) Retrieve(ctx context.Context, question string, opts domain.SearchOptions) (domain.SearchOutcome, error) {
	return s.retriever.Search(ctx, question, opts)
}

// ClearMemory discards the conversation memory.
func (s *GenerationService) ClearMemory() {
	s.mu.Lock()
	s.memory = nil
	s.mu.Unlock()
}

// Generate runs the cascade over already-retrieved fragments. The
// returned answer is always populated; the extractive tier cannot fail.
func (s *GenerationService) Generate(ctx context.Context, question string, fragments []domain.RetrievedFragment) domain.Answer {
	logger.Section("Generation Cascade")

	similarities := make([]float64, len(fragments))
	for i, f := range fragments {
		similarities[i] = f.Similarity
	}
	confidence := domain.Confidence(similarities)

	if err := s.llmService.Ping(ctx); err != nil {
		logger.Warn("Model backend unreachable, using extractive tier: %v", err)
		answer := s.extractive(fragments)
		answer.Confidence = confidence
		answer.TierErr = err
		return answer
	}

	contextBlock := buildContextBlock(fragments)

	if s.promptStore != nil {
		answer, err := s.chainTier(ctx, question, contextBlock)
		if err == nil {
			answer.Confidence = confidence
			answer.FragmentsUsed = len(fragments)
			return answer
		}
		logger.Warn("Chain tier failed, falling through: %v", err)
	}

	answer, err := s.directTier(ctx, question, contextBlock)
	if err == nil {
		answer.Confidence = confidence
		answer.FragmentsUsed = len(fragments)
		return answer
	}
	logger.Warn("Direct tier failed, falling through: %v", err)

	fallback := s.extractive(fragments)
	fallback.Confidence = confidence
	fallback.TierErr = err
	return fallback
}

// chainTier renders the question through the prompt store template,
// prefixed with the conversation so far. Only this tier sees memory.
func (s *GenerationService) chainTier(ctx context.Context, question, contextBlock string) (domain.Answer, error) {
	template, err := s.promptStore.Load(driven.PromptQA)
	if err != nil {
		return domain.Answer{}, err
	}

	prompt := fmt.Sprintf(template, contextBlock, question)
	if transcript := s.transcript(); transcript != "" {
		prompt = "PREVIOUS CONVERSATION:\n" + transcript + "\n\n" + prompt
	}

	result, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   chainMaxTokens,
		Temperature: 0.7,
		TopP:        0.9,
	})
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{
		Text:       strings.TrimSpace(result.Text),
		Method:     domain.MethodChain,
		Model:      s.llmService.ModelName(),
		TokensUsed: result.EvalCount,
		Duration:   result.Duration,
	}, nil
}

// directTier sends a fixed prompt to the backend, with no templating
// and no memory.
func (s *GenerationService) directTier(ctx context.Context, question, contextBlock string) (domain.Answer, error) {
	prompt := fmt.Sprintf(directQAPrompt, contextBlock, question)

	result, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   directMaxTokens,
		Temperature: 0.7,
		TopP:        0.9,
	})
	if err != nil {
		return domain.Answer{}, err
	}

	return domain.Answer{
		Text:       strings.TrimSpace(result.Text),
		Method:     domain.MethodDirect,
		Model:      s.llmService.ModelName(),
		TokensUsed: result.EvalCount,
		Duration:   result.Duration,
	}, nil
}

// extractive quotes the best fragment verbatim. Deterministic, no
// backend involved.
func (s *GenerationService) extractive(fragments []domain.RetrievedFragment) domain.Answer {
	if len(fragments) == 0 {
		return domain.Answer{
			Text:   noContextAnswer,
			Method: domain.MethodFallback,
		}
	}

	best := fragments[0]
	content := best.Fragment.Content
	if len(content) > maxFallbackChars {
		content = content[:maxFallbackChars] + "..."
	}

	filename := best.Fragment.Filename
	if filename == "" {
		filename = "document"
	}

	return domain.Answer{
		Text:          fmt.Sprintf("Information found in %s:\n\n%s", filename, content),
		Method:        domain.MethodFallback,
		FragmentsUsed: len(fragments),
		Note:          fallbackNote,
	}
}

// transcript renders the conversation memory as role-prefixed lines.
func (s *GenerationService) transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.memory) == 0 {
		return ""
	}
	var b strings.Builder
	for _, turn := range s.memory {
		fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
	}
	return strings.TrimSpace(b.String())
}

// buildContextBlock assembles the prompt context from the top
// fragments, each tagged with its source document and relevance.
func buildContextBlock(fragments []domain.RetrievedFragment) string {
	if len(fragments) == 0 {
		return "(no context available)"
	}

	limit := len(fragments)
	if limit > maxContextFragments {
		limit = maxContextFragments
	}

	parts := make([]string, 0, limit)
	for _, f := range fragments[:limit] {
		content := f.Fragment.Content
		if len(content) > maxFragmentChars {
			content = content[:maxFragmentChars] + "..."
		}
		parts = append(parts, fmt.Sprintf("[DOCUMENT: %s]\n[RELEVANCE: %.3f]\n%s\n---",
			f.Fragment.Filename, f.Similarity, content))
	}
	return strings.Join(parts, "\n")
}
