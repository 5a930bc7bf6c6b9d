// Package chroma provides a vector store adapter backed by a ChromaDB
// server over its HTTP API.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:8000"
	DefaultCollection = "processed_documents"
	DefaultTimeout    = 20 * time.Second
)

// Config holds configuration for the Chroma store.
type Config struct {
	// BaseURL is the ChromaDB server URL (default: http://localhost:8000).
	BaseURL string

	// Collection is the logical collection name (default: processed_documents).
	Collection string

	// Timeout is the request timeout (default: 20s).
	Timeout time.Duration
}

// Store persists fragment triples in one Chroma collection.
//
// The store may be constructed while the backend is down: every
// operation re-establishes the collection handle if needed and fails
// with domain.ErrStoreUnavailable when it cannot. Reconnection is
// deliberately unguarded; the handle is just the collection UUID, so
// concurrent reconnects are idempotent and the last writer wins.
type Store struct {
	client     *http.Client
	baseURL    string
	collection string

	// collectionID is the resolved collection UUID, empty while
	// disconnected.
	collectionID string
}

// NewStore creates a new Chroma store. No connection is attempted here;
// the first operation connects lazily.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		collection: cfg.Collection,
	}
}

// collectionResponse is the Chroma create/get collection response.
type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// queryResponse is the Chroma query response: parallel arrays indexed
// by result position, one inner slice per query embedding.
type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

// getResponse is the Chroma get response.
type getResponse struct {
	IDs       []string         `json:"ids"`
	Documents []string         `json:"documents"`
	Metadatas []map[string]any `json:"metadatas"`
}

// ensureConnected resolves the collection id, creating the collection
// on first use. Called by every operation; cheap once connected.
func (s *Store) ensureConnected(ctx context.Context) error {
	if s.collectionID != "" {
		return nil
	}

	body := map[string]any{
		"name":          s.collection,
		"get_or_create": true,
		"metadata": map[string]any{
			"description": "processed PDF documents",
			// Pin the distance metric: the similarity normalisation
			// upstream assumes cosine distances in [0,2].
			"hnsw:space": "cosine",
		},
	}

	data, err := s.doRequest(ctx, http.MethodPost, "/api/v1/collections", body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var coll collectionResponse
	if err := json.Unmarshal(data, &coll); err != nil {
		return fmt.Errorf("%w: decode collection: %v", domain.ErrStoreUnavailable, err)
	}
	if coll.ID == "" {
		return fmt.Errorf("%w: empty collection id", domain.ErrStoreUnavailable)
	}

	s.collectionID = coll.ID
	return nil
}

// Add persists fragments with their vectors, generating one fresh UUID
// per fragment. IDs are returned in input order.
func (s *Store) Add(ctx context.Context, texts []string, vectors [][]float32, metas []domain.FragmentMeta) ([]string, error) {
	if len(texts) != len(vectors) || len(texts) != len(metas) {
		panic(fmt.Sprintf("chroma: mismatched add lengths: %d texts, %d vectors, %d metas",
			len(texts), len(vectors), len(metas)))
	}
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}

	ids := make([]string, len(texts))
	for i := range ids {
		ids[i] = uuid.New().String()
	}

	metadatas := make([]map[string]any, len(metas))
	for i, m := range metas {
		metadatas[i] = metaToMap(m)
	}

	body := map[string]any{
		"ids":        ids,
		"documents":  texts,
		"embeddings": vectors,
		"metadatas":  metadatas,
	}

	if _, err := s.doRequest(ctx, http.MethodPost, s.collectionPath("/add"), body); err != nil {
		return nil, s.disconnect(err)
	}
	return ids, nil
}

// Query returns up to k nearest fragments with raw cosine distances.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]driven.Neighbor, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = domain.DefaultMaxResults
	}

	body := map[string]any{
		"query_embeddings": [][]float32{vector},
		"n_results":        k,
		"include":          []string{"documents", "metadatas", "distances"},
	}

	data, err := s.doRequest(ctx, http.MethodPost, s.collectionPath("/query"), body)
	if err != nil {
		return nil, s.disconnect(err)
	}

	var parsed queryResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	if len(parsed.IDs) == 0 {
		return nil, nil
	}

	ids := parsed.IDs[0]
	neighbors := make([]driven.Neighbor, 0, len(ids))
	for i, id := range ids {
		n := driven.Neighbor{ID: id, Distance: 2.0}
		if i < len(parsed.Documents[0]) {
			n.Content = parsed.Documents[0][i]
		}
		if len(parsed.Metadatas) > 0 && i < len(parsed.Metadatas[0]) {
			n.Meta = metaFromMap(parsed.Metadatas[0][i])
		}
		if len(parsed.Distances) > 0 && i < len(parsed.Distances[0]) {
			n.Distance = parsed.Distances[0][i]
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, nil
}

// GetByFilename returns all stored fragments of one document.
func (s *Store) GetByFilename(ctx context.Context, filename string) ([]domain.Fragment, error) {
	return s.get(ctx, map[string]any{"filename": filename}, 0)
}

// Sample returns up to limit stored fragments.
func (s *Store) Sample(ctx context.Context, limit int) ([]domain.Fragment, error) {
	return s.get(ctx, nil, limit)
}

func (s *Store) get(ctx context.Context, where map[string]any, limit int) ([]domain.Fragment, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return nil, err
	}

	body := map[string]any{
		"include": []string{"documents", "metadatas"},
	}
	if where != nil {
		body["where"] = where
	}
	if limit > 0 {
		body["limit"] = limit
	}

	data, err := s.doRequest(ctx, http.MethodPost, s.collectionPath("/get"), body)
	if err != nil {
		return nil, s.disconnect(err)
	}

	var parsed getResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode get response: %w", err)
	}

	fragments := make([]domain.Fragment, 0, len(parsed.IDs))
	for i, id := range parsed.IDs {
		f := domain.Fragment{ID: id}
		if i < len(parsed.Documents) {
			f.Content = parsed.Documents[i]
		}
		if i < len(parsed.Metadatas) {
			f.Meta = metaFromMap(parsed.Metadatas[i])
			f.Filename = f.Meta.Filename
			f.Index = f.Meta.FragmentIndex
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

// DeleteByFilename removes every fragment of a document.
func (s *Store) DeleteByFilename(ctx context.Context, filename string) (bool, error) {
	fragments, err := s.GetByFilename(ctx, filename)
	if err != nil {
		return false, err
	}
	if len(fragments) == 0 {
		return false, nil
	}

	ids := make([]string, len(fragments))
	for i, f := range fragments {
		ids[i] = f.ID
	}
	if _, err := s.DeleteByIDs(ctx, ids); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteByIDs removes the given fragments.
func (s *Store) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.ensureConnected(ctx); err != nil {
		return 0, err
	}

	body := map[string]any{"ids": ids}
	if _, err := s.doRequest(ctx, http.MethodPost, s.collectionPath("/delete"), body); err != nil {
		return 0, s.disconnect(err)
	}
	return len(ids), nil
}

// Clear removes every fragment in the collection.
func (s *Store) Clear(ctx context.Context) (int, error) {
	fragments, err := s.Sample(ctx, 0)
	if err != nil {
		return 0, err
	}
	if len(fragments) == 0 {
		return 0, nil
	}

	ids := make([]string, len(fragments))
	for i, f := range fragments {
		ids[i] = f.ID
	}
	return s.DeleteByIDs(ctx, ids)
}

// Count returns the number of stored fragments.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.ensureConnected(ctx); err != nil {
		return 0, err
	}

	data, err := s.doRequest(ctx, http.MethodGet, s.collectionPath("/count"), nil)
	if err != nil {
		return 0, s.disconnect(err)
	}

	var count int
	if err := json.Unmarshal(data, &count); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}
	return count, nil
}

// Status reports connection state without raising.
func (s *Store) Status(ctx context.Context) driven.StoreStatus {
	status := driven.StoreStatus{Collection: s.collection}

	count, err := s.Count(ctx)
	if err != nil {
		status.Err = err
		return status
	}

	status.Connected = true
	status.Fragments = count
	return status
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// disconnect wraps an operation error and drops the collection handle
// so the next call re-resolves it.
func (s *Store) disconnect(err error) error {
	s.collectionID = ""
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

func (s *Store) collectionPath(suffix string) string {
	return "/api/v1/collections/" + s.collectionID + suffix
}

func (s *Store) doRequest(ctx context.Context, method, path string, body any) ([]byte, error) {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("chroma status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}
