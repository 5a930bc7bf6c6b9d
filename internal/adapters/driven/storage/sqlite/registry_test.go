package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	registry, err := NewRegistry(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { registry.Close() })
	return registry
}

func sampleDocument(filename string) domain.Document {
	return domain.Document{
		Filename:      filename,
		Title:         "Sample Title",
		Author:        "Sample Author",
		Subject:       "Testing",
		Pages:         12,
		ByteSize:      4096,
		FragmentCount: 8,
		UploadedAt:    time.Date(2025, 5, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestRegistrySaveAndGet(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	doc := sampleDocument("report.pdf")
	require.NoError(t, registry.Save(ctx, doc))

	got, err := registry.Get(ctx, "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, doc.Filename, got.Filename)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Pages, got.Pages)
	assert.Equal(t, doc.FragmentCount, got.FragmentCount)
	assert.True(t, doc.UploadedAt.Equal(got.UploadedAt))
}

func TestRegistrySaveReplaces(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	doc := sampleDocument("report.pdf")
	require.NoError(t, registry.Save(ctx, doc))

	doc.FragmentCount = 20
	require.NoError(t, registry.Save(ctx, doc))

	got, err := registry.Get(ctx, "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, 20, got.FragmentCount)

	docs, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1, "replace must not duplicate rows")
}

func TestRegistrySaveEmptyFilename(t *testing.T) {
	registry := newTestRegistry(t)

	err := registry.Save(context.Background(), domain.Document{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistryGetMissing(t *testing.T) {
	registry := newTestRegistry(t)

	_, err := registry.Get(context.Background(), "missing.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistryListOrder(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	older := sampleDocument("older.pdf")
	older.UploadedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleDocument("newer.pdf")
	newer.UploadedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, registry.Save(ctx, older))
	require.NoError(t, registry.Save(ctx, newer))

	docs, err := registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "newer.pdf", docs[0].Filename)
	assert.Equal(t, "older.pdf", docs[1].Filename)
}

func TestRegistryDelete(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Save(ctx, sampleDocument("report.pdf")))

	removed, err := registry.Delete(ctx, "report.pdf")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = registry.Delete(ctx, "report.pdf")
	require.NoError(t, err)
	assert.False(t, removed, "second delete finds nothing")
}

func TestRegistryClear(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Save(ctx, sampleDocument("a.pdf")))
	require.NoError(t, registry.Save(ctx, sampleDocument("b.pdf")))

	n, err := registry.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	docs, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRegistryMigrationIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewRegistry(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), sampleDocument("a.pdf")))
	require.NoError(t, first.Close())

	second, err := NewRegistry(dir)
	require.NoError(t, err)
	defer second.Close()

	docs, err := second.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 1, "reopening must keep existing data")
}
