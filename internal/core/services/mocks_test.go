package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbedding implements driven.EmbeddingService for testing.
type mockEmbedding struct {
	vector   []float32
	embedErr error
	pingErr  error

	embedCalls int
}

func (m *mockEmbedding) Embed(_ context.Context, _ string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector, nil
}

func (m *mockEmbedding) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = m.vector
	}
	return vectors, nil
}

func (m *mockEmbedding) Dimensions() int { return len(m.vector) }

func (m *mockEmbedding) ModelName() string { return "mock-embed" }

func (m *mockEmbedding) Ping(_ context.Context) error { return m.pingErr }

func (m *mockEmbedding) Close() error { return nil }

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	response    string
	evalCount   int
	generateErr error
	pingErr     error
	models      []string
	modelsErr   error

	// failFirst makes the first Generate call fail, exercising the
	// chain-to-direct fallthrough.
	failFirst bool

	prompts []string
	opts    []driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (driven.GenerateResult, error) {
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if m.failFirst && len(m.prompts) == 1 {
		return driven.GenerateResult{}, fmt.Errorf("%w: simulated first failure", domain.ErrGenerationFailed)
	}
	if m.generateErr != nil {
		return driven.GenerateResult{}, m.generateErr
	}
	return driven.GenerateResult{Text: m.response, EvalCount: m.evalCount}, nil
}

func (m *mockLLM) Models(_ context.Context) ([]string, error) {
	if m.modelsErr != nil {
		return nil, m.modelsErr
	}
	return m.models, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return m.pingErr }

func (m *mockLLM) Close() error { return nil }

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	neighbors []driven.Neighbor
	fragments []domain.Fragment
	queryErr  error
	addErr    error
	getErr    error

	addedTexts []string
	deletedIDs []string
	cleared    bool

	status driven.StoreStatus
}

func (m *mockVectorStore) Add(_ context.Context, texts []string, _ [][]float32, _ []domain.FragmentMeta) ([]string, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	m.addedTexts = append(m.addedTexts, texts...)
	ids := make([]string, len(texts))
	for i := range texts {
		ids[i] = fmt.Sprintf("id-%d", i)
	}
	return ids, nil
}

func (m *mockVectorStore) Query(_ context.Context, _ []float32, k int) ([]driven.Neighbor, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k < len(m.neighbors) {
		return m.neighbors[:k], nil
	}
	return m.neighbors, nil
}

func (m *mockVectorStore) GetByFilename(_ context.Context, filename string) ([]domain.Fragment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []domain.Fragment
	for _, f := range m.fragments {
		if f.Filename == filename {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockVectorStore) DeleteByFilename(_ context.Context, filename string) (bool, error) {
	var kept []domain.Fragment
	removed := false
	for _, f := range m.fragments {
		if f.Filename == filename {
			removed = true
			continue
		}
		kept = append(kept, f)
	}
	m.fragments = kept
	return removed, nil
}

func (m *mockVectorStore) DeleteByIDs(_ context.Context, ids []string) (int, error) {
	m.deletedIDs = append(m.deletedIDs, ids...)
	return len(ids), nil
}

func (m *mockVectorStore) Clear(_ context.Context) (int, error) {
	m.cleared = true
	n := len(m.fragments)
	m.fragments = nil
	return n, nil
}

func (m *mockVectorStore) Count(_ context.Context) (int, error) {
	return len(m.fragments), nil
}

func (m *mockVectorStore) Sample(_ context.Context, limit int) ([]domain.Fragment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if limit > 0 && limit < len(m.fragments) {
		return m.fragments[:limit], nil
	}
	return m.fragments, nil
}

func (m *mockVectorStore) Status(_ context.Context) driven.StoreStatus {
	return m.status
}

func (m *mockVectorStore) Close() error { return nil }

// mockExtractor implements driven.PDFExtractor for testing.
type mockExtractor struct {
	text    string
	pages   []string
	meta    driven.PDFMetadata
	textErr error
	metaErr error
}

func (m *mockExtractor) ExtractText(_ context.Context, _ string) (string, error) {
	if m.textErr != nil {
		return "", m.textErr
	}
	return m.text, nil
}

func (m *mockExtractor) ExtractPages(_ context.Context, _ string) ([]string, error) {
	return m.pages, nil
}

func (m *mockExtractor) ExtractMetadata(_ context.Context, _ string) (driven.PDFMetadata, error) {
	if m.metaErr != nil {
		return driven.PDFMetadata{}, m.metaErr
	}
	return m.meta, nil
}

// mockSplitter implements TextSplitter for testing.
type mockSplitter struct {
	chunks []string
}

func (m *mockSplitter) Split(text string) []string {
	if m.chunks != nil {
		return m.chunks
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	loadErr error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	if prompt, ok := m.prompts[name]; ok {
		return prompt, nil
	}
	// Generic two-slot template so any prompt renders in tests.
	return "TEMPLATE %s | %s", nil
}

func (m *mockPromptStore) Reload() {}
