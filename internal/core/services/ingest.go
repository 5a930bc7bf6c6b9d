package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driving"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// TextSplitter cuts document text into overlapping fragments.
// Implemented by fragmenter.Splitter.
type TextSplitter interface {
	Split(text string) []string
}

// IngestService runs the ingestion pipeline: extract, fragment, embed,
// persist. It also owns document-level bookkeeping.
type IngestService struct {
	extractor        driven.PDFExtractor
	splitter         TextSplitter
	embeddingService driven.EmbeddingService
	vectorStore      driven.VectorStore
	registry         driven.DocumentRegistry
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	extractor driven.PDFExtractor,
	splitter TextSplitter,
	embeddingService driven.EmbeddingService,
	vectorStore driven.VectorStore,
	registry driven.DocumentRegistry,
) *IngestService {
	return &IngestService{
		extractor:        extractor,
		splitter:         splitter,
		embeddingService: embeddingService,
		vectorStore:      vectorStore,
		registry:         registry,
	}
}

// Ingest extracts, fragments, embeds, and persists one PDF. The
// returned stats mirror what was stored.
func (s *IngestService) Ingest(ctx context.Context, path string) (domain.IngestStats, error) {
	filename := filepath.Base(path)
	logger.Section("Ingestion")
	logger.Info("Processing %s", filename)

	text, err := s.extractor.ExtractText(ctx, path)
	if err != nil {
		return domain.IngestStats{}, err
	}

	// Extraction metadata is best effort; a PDF without an info
	// dictionary still ingests.
	meta, err := s.extractor.ExtractMetadata(ctx, path)
	if err != nil {
		logger.Warn("Metadata extraction failed for %s: %v", filename, err)
		meta = driven.PDFMetadata{}
	}

	var byteSize int64
	if info, err := os.Stat(path); err == nil {
		byteSize = info.Size()
	}

	chunks := s.splitter.Split(text)
	if len(chunks) == 0 {
		return domain.IngestStats{}, fmt.Errorf("%w: no fragments produced from %s", domain.ErrParseFailed, filename)
	}
	logger.Debug("Split into %d fragments", len(chunks))

	vectors, err := s.embeddingService.EmbedBatch(ctx, chunks)
	if err != nil {
		return domain.IngestStats{}, err
	}

	now := time.Now().UTC()
	metas := make([]domain.FragmentMeta, len(chunks))
	for i, chunk := range chunks {
		metas[i] = domain.FragmentMeta{
			Filename:        filename,
			FragmentIndex:   i,
			FragmentLength:  len(chunk),
			TotalPages:      meta.Pages,
			DocumentTitle:   meta.Title,
			DocumentAuthor:  meta.Author,
			DocumentSubject: meta.Subject,
			ContentPreview:  domain.Preview(chunk),
			ProcessedAt:     now,
		}
	}

	ids, err := s.vectorStore.Add(ctx, chunks, vectors, metas)
	if err != nil {
		return domain.IngestStats{}, err
	}
	logger.Info("Stored %d fragments for %s", len(ids), filename)

	doc := domain.Document{
		Filename:      filename,
		Title:         meta.Title,
		Author:        meta.Author,
		Subject:       meta.Subject,
		Pages:         meta.Pages,
		ByteSize:      byteSize,
		FragmentCount: len(ids),
		UploadedAt:    now,
	}
	if err := s.registry.Save(ctx, doc); err != nil {
		return domain.IngestStats{}, fmt.Errorf("registering document: %w", err)
	}

	var dimension int
	if len(vectors) > 0 {
		dimension = len(vectors[0])
	}

	return domain.IngestStats{
		Filename:    filename,
		Pages:       meta.Pages,
		Fragments:   len(chunks),
		Embeddings:  len(vectors),
		VectorDim:   dimension,
		FragmentIDs: ids,
	}, nil
}

// ListDocuments returns the registered documents.
func (s *IngestService) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	return s.registry.List(ctx)
}

// ListFragments returns the stored fragments of one document, ordered
// by their position.
func (s *IngestService) ListFragments(ctx context.Context, filename string) ([]domain.Fragment, error) {
	fragments, err := s.vectorStore.GetByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}

	sort.Slice(fragments, func(i, j int) bool {
		return fragments[i].Index < fragments[j].Index
	})
	return fragments, nil
}

// DeleteDocument removes a document's fragments and its registry row.
func (s *IngestService) DeleteDocument(ctx context.Context, filename string) (bool, error) {
	fragmentsRemoved, err := s.vectorStore.DeleteByFilename(ctx, filename)
	if err != nil {
		return false, err
	}

	recordRemoved, err := s.registry.Delete(ctx, filename)
	if err != nil {
		return false, err
	}

	return fragmentsRemoved || recordRemoved, nil
}

// DeleteFragments removes individual fragments by id. The owning
// document's registry row keeps its original fragment count.
func (s *IngestService) DeleteFragments(ctx context.Context, ids []string) (int, error) {
	return s.vectorStore.DeleteByIDs(ctx, ids)
}

// ClearAll removes every fragment and every registry row.
func (s *IngestService) ClearAll(ctx context.Context) (int, error) {
	removed, err := s.vectorStore.Clear(ctx)
	if err != nil {
		return 0, err
	}

	if _, err := s.registry.Clear(ctx); err != nil {
		return removed, fmt.Errorf("clearing registry: %w", err)
	}
	return removed, nil
}
