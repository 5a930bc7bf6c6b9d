package driving

import (
	"context"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

// IngestService processes PDF documents into the fragment collection.
type IngestService interface {
	// Ingest extracts, fragments, embeds, and persists one PDF.
	Ingest(ctx context.Context, path string) (domain.IngestStats, error)

	// ListDocuments returns the registered documents.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// ListFragments returns the stored fragments of one document.
	ListFragments(ctx context.Context, filename string) ([]domain.Fragment, error)

	// DeleteDocument removes a document and all its fragments. Returns
	// whether anything was removed.
	DeleteDocument(ctx context.Context, filename string) (bool, error)

	// DeleteFragments removes individual fragments by id and returns
	// how many were removed.
	DeleteFragments(ctx context.Context, ids []string) (int, error)

	// ClearAll removes every document and fragment, returning the
	// number of fragments removed.
	ClearAll(ctx context.Context) (int, error)
}
