// Package memory provides an in-memory document registry, used in tests
// and when persistence is disabled.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.DocumentRegistry = (*Registry)(nil)

// Registry keeps document records in a map guarded by a mutex.
type Registry struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

// NewRegistry creates an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{docs: make(map[string]domain.Document)}
}

// Save inserts or replaces the record for doc.Filename.
func (r *Registry) Save(_ context.Context, doc domain.Document) error {
	if doc.Filename == "" {
		return fmt.Errorf("%w: empty filename", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.Filename] = doc
	return nil
}

// Get returns the record for a filename.
func (r *Registry) Get(_ context.Context, filename string) (domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[filename]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: document %q", domain.ErrNotFound, filename)
	}
	return doc, nil
}

// List returns all records ordered by upload time descending.
func (r *Registry) List(_ context.Context) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]domain.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// Delete removes the record for a filename.
func (r *Registry) Delete(_ context.Context, filename string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[filename]; !ok {
		return false, nil
	}
	delete(r.docs, filename)
	return true, nil
}

// Clear removes every record.
func (r *Registry) Clear(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.docs)
	r.docs = make(map[string]domain.Document)
	return n, nil
}

// Close releases resources.
func (r *Registry) Close() error {
	return nil
}
