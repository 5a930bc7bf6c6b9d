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

func newIngestFixture(extractor *mockExtractor, store *mockVectorStore) (*IngestService, *memory.Registry) {
	registry := memory.NewRegistry()
	svc := NewIngestService(
		extractor,
		&mockSplitter{},
		&mockEmbedding{vector: []float32{0.1, 0.2, 0.3}},
		store,
		registry,
	)
	return svc, registry
}

func TestIngest(t *testing.T) {
	extractor := &mockExtractor{
		text: "Document body text.",
		meta: driven.PDFMetadata{Title: "Report", Author: "Ana", Pages: 7},
	}
	store := &mockVectorStore{}
	svc, registry := newIngestFixture(extractor, store)

	stats, err := svc.Ingest(context.Background(), "/drop/report.pdf")
	require.NoError(t, err)

	assert.Equal(t, "report.pdf", stats.Filename)
	assert.Equal(t, 7, stats.Pages)
	assert.Equal(t, 1, stats.Fragments)
	assert.Equal(t, 1, stats.Embeddings)
	assert.Equal(t, 3, stats.VectorDim)
	assert.Len(t, stats.FragmentIDs, 1)
	assert.Equal(t, []string{"Document body text."}, store.addedTexts)

	doc, err := registry.Get(context.Background(), "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Report", doc.Title)
	assert.Equal(t, 1, doc.FragmentCount)
	assert.False(t, doc.UploadedAt.IsZero())
}

func TestIngestExtractionFailure(t *testing.T) {
	extractor := &mockExtractor{textErr: domain.ErrParseFailed}
	svc, registry := newIngestFixture(extractor, &mockVectorStore{})

	_, err := svc.Ingest(context.Background(), "/drop/broken.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrParseFailed)

	docs, err := registry.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs, "failed ingest must not register the document")
}

func TestIngestMetadataFailureTolerated(t *testing.T) {
	extractor := &mockExtractor{
		text:    "Body without metadata.",
		metaErr: domain.ErrParseFailed,
	}
	svc, registry := newIngestFixture(extractor, &mockVectorStore{})

	stats, err := svc.Ingest(context.Background(), "/drop/plain.pdf")
	require.NoError(t, err, "missing PDF metadata is not fatal")
	assert.Zero(t, stats.Pages)

	doc, err := registry.Get(context.Background(), "plain.pdf")
	require.NoError(t, err)
	assert.Empty(t, doc.Title)
}

func TestIngestEmbeddingFailure(t *testing.T) {
	registry := memory.NewRegistry()
	svc := NewIngestService(
		&mockExtractor{text: "content"},
		&mockSplitter{},
		&mockEmbedding{embedErr: domain.ErrEmbeddingFailed},
		&mockVectorStore{},
		registry,
	)

	_, err := svc.Ingest(context.Background(), "/drop/doc.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingFailed)
}

func TestListFragmentsOrdered(t *testing.T) {
	store := &mockVectorStore{fragments: []domain.Fragment{
		{ID: "id-2", Filename: "a.pdf", Index: 2},
		{ID: "id-0", Filename: "a.pdf", Index: 0},
		{ID: "id-1", Filename: "a.pdf", Index: 1},
		{ID: "id-9", Filename: "b.pdf", Index: 0},
	}}
	svc, _ := newIngestFixture(&mockExtractor{}, store)

	fragments, err := svc.ListFragments(context.Background(), "a.pdf")
	require.NoError(t, err)
	require.Len(t, fragments, 3)
	assert.Equal(t, "id-0", fragments[0].ID)
	assert.Equal(t, "id-1", fragments[1].ID)
	assert.Equal(t, "id-2", fragments[2].ID)
}

func TestDeleteDocument(t *testing.T) {
	store := &mockVectorStore{fragments: []domain.Fragment{
		{ID: "id-1", Filename: "a.pdf"},
	}}
	extractor := &mockExtractor{text: "content"}
	svc, registry := newIngestFixture(extractor, store)

	require.NoError(t, registry.Save(context.Background(), domain.Document{Filename: "a.pdf"}))

	removed, err := svc.DeleteDocument(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = registry.Get(context.Background(), "a.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	removed, err = svc.DeleteDocument(context.Background(), "a.pdf")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDeleteFragments(t *testing.T) {
	store := &mockVectorStore{}
	svc, _ := newIngestFixture(&mockExtractor{}, store)

	n, err := svc.DeleteFragments(context.Background(), []string{"id-1", "id-2"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"id-1", "id-2"}, store.deletedIDs)
}

func TestClearAll(t *testing.T) {
	store := &mockVectorStore{fragments: []domain.Fragment{
		{ID: "id-1", Filename: "a.pdf"},
		{ID: "id-2", Filename: "b.pdf"},
	}}
	svc, registry := newIngestFixture(&mockExtractor{}, store)
	require.NoError(t, registry.Save(context.Background(), domain.Document{Filename: "a.pdf"}))

	n, err := svc.ClearAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, store.cleared)

	docs, err := registry.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
