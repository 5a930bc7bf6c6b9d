// Package watcher ingests PDF documents dropped into a directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driving"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/logger"
)

// defaultSettle is how long a file must stay quiet after its last write
// event before it is ingested. Copies into the watched directory arrive
// as a burst of write events; ingesting on the first one would read a
// partial file.
const defaultSettle = 500 * time.Millisecond

// Watcher watches one directory and runs each new or modified PDF
// through the ingest pipeline.
type Watcher struct {
	ingestService driving.IngestService
	dir           string
	settle        time.Duration

	// OnIngest, when set, is called after every ingest attempt.
	OnIngest func(path string, stats domain.IngestStats, err error)

	fsw *fsnotify.Watcher

	mu       sync.Mutex
	pending  map[string]*time.Timer
	closed   bool
	ingestMu sync.Mutex
}

// New creates a watcher for dir. The directory must exist.
func New(ingestService driving.IngestService, dir string) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path is not a directory: %s", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &Watcher{
		ingestService: ingestService,
		dir:           dir,
		settle:        defaultSettle,
		fsw:           fsw,
		pending:       make(map[string]*time.Timer),
	}, nil
}

// Run blocks processing filesystem events until ctx is cancelled or the
// watcher is closed. It always closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	logger.Info("Watching %s for PDF documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// Close stops the watcher and cancels pending ingests. Idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	return w.fsw.Close()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	if !isPDF(event.Name) || isHidden(event.Name) {
		return
	}
	if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
		return
	}

	w.schedule(ctx, event.Name)
}

// schedule arms (or re-arms) the settle timer for path. The ingest runs
// only once the file has been quiet for the settle window.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}

	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		closed := w.closed
		w.mu.Unlock()

		if closed || ctx.Err() != nil {
			return
		}
		w.ingest(ctx, path)
	})
}

// ingest runs one document through the pipeline. Serialized so that a
// burst of dropped files does not overload the embedding backend.
func (w *Watcher) ingest(ctx context.Context, path string) {
	w.ingestMu.Lock()
	defer w.ingestMu.Unlock()

	logger.Info("Ingesting %s", filepath.Base(path))
	stats, err := w.ingestService.Ingest(ctx, path)
	if err != nil {
		logger.Warn("Ingest of %s failed: %v", filepath.Base(path), err)
	} else {
		logger.Info("Ingested %s: %d fragments", stats.Filename, stats.Fragments)
	}

	if w.OnIngest != nil {
		w.OnIngest(path, stats, err)
	}
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
