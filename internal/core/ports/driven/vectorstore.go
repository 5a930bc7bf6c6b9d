package driven

import (
	"context"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

// VectorStore persists fragment triples (text, vector, metadata) in one
// logical collection and serves nearest-neighbour queries.
//
// Connection lifecycle: the store may start disconnected. Every
// operation lazily (re)establishes the connection before proceeding and
// fails with domain.ErrStoreUnavailable if it cannot. Status never
// fails; it degrades to a disconnected result instead.
type VectorStore interface {
	// Add persists fragments with their vectors, generating one fresh
	// unique id per fragment. IDs are returned in input order.
	// Precondition: len(texts) == len(vectors) == len(metas); a
	// violation is a caller bug, not a recoverable runtime condition.
	Add(ctx context.Context, texts []string, vectors [][]float32, metas []domain.FragmentMeta) ([]string, error)

	// Query returns up to k nearest fragments by the store's native
	// distance metric (cosine). An empty collection yields an empty
	// result, not an error.
	Query(ctx context.Context, vector []float32, k int) ([]Neighbor, error)

	// GetByFilename returns all stored fragments whose metadata
	// filename matches, without vectors.
	GetByFilename(ctx context.Context, filename string) ([]domain.Fragment, error)

	// DeleteByFilename removes all fragments of a document. Returns
	// whether anything was removed.
	DeleteByFilename(ctx context.Context, filename string) (bool, error)

	// DeleteByIDs removes the given fragments and returns how many were
	// removed.
	DeleteByIDs(ctx context.Context, ids []string) (int, error)

	// Clear removes every fragment and returns how many were removed.
	Clear(ctx context.Context) (int, error)

	// Count returns the number of stored fragments.
	Count(ctx context.Context) (int, error)

	// Sample returns up to limit stored fragments for listing and
	// debugging.
	Sample(ctx context.Context, limit int) ([]domain.Fragment, error)

	// Status reports connection state and collection size. It never
	// returns an error: when the backend is unreachable the result is
	// marked disconnected.
	Status(ctx context.Context) StoreStatus

	// Close releases resources.
	Close() error
}

// Neighbor is a raw similarity query hit with the store-reported
// distance. Score normalisation is the retriever's concern.
type Neighbor struct {
	// ID is the stored fragment id.
	ID string

	// Content is the fragment text.
	Content string

	// Meta is the persisted fragment metadata.
	Meta domain.FragmentMeta

	// Distance is the raw cosine distance in [0,2]; lower is more
	// similar.
	Distance float64
}

// StoreStatus describes the vector store connection and collection.
type StoreStatus struct {
	// Connected reports whether the backend answered.
	Connected bool

	// Collection is the collection name.
	Collection string

	// Fragments is the stored fragment count, valid when Connected.
	Fragments int

	// Err holds the connection error when disconnected.
	Err error
}
