package driven

import (
	"context"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

// DocumentRegistry persists document-level records: one row per
// ingested document, independent of the fragment collection. It serves
// listings and ingest statistics; the vector store remains the owner of
// fragment data.
type DocumentRegistry interface {
	// Save inserts or replaces the record for doc.Filename.
	Save(ctx context.Context, doc domain.Document) error

	// Get returns the record for a filename.
	// Returns domain.ErrNotFound if no record exists.
	Get(ctx context.Context, filename string) (domain.Document, error)

	// List returns all records ordered by upload time descending.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes the record for a filename. Returns whether a
	// record was removed.
	Delete(ctx context.Context, filename string) (bool, error)

	// Clear removes every record and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
