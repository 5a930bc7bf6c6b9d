// Package sqlite provides a SQLite-backed document registry.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Cristian-Soto/copiloto-conversacional/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.DocumentRegistry = (*Registry)(nil)

// Registry is a SQLite-backed document registry: one row per ingested
// document. Fragment content lives in the vector store; this table only
// serves listings and ingest bookkeeping.
type Registry struct {
	db   *sql.DB
	path string
}

// NewRegistry creates a registry at the specified data directory.
// If dataDir is empty, defaults to ~/.copiloto/data/documents.db.
func NewRegistry(dataDir string) (*Registry, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".copiloto", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "documents.db")

	// WAL mode for better concurrency with the watcher.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	r := &Registry{
		db:   db,
		path: dbPath,
	}

	if err := r.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return r, nil
}

// Close closes the database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Registry) Path() string {
	return r.path
}

// Save inserts or replaces the record for doc.Filename.
func (r *Registry) Save(ctx context.Context, doc domain.Document) error {
	if doc.Filename == "" {
		return fmt.Errorf("%w: empty filename", domain.ErrInvalidInput)
	}
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents
			(filename, title, author, subject, pages, byte_size, fragment_count, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.Filename, doc.Title, doc.Author, doc.Subject, doc.Pages,
		doc.ByteSize, doc.FragmentCount, doc.UploadedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get returns the record for a filename.
func (r *Registry) Get(ctx context.Context, filename string) (domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT filename, title, author, subject, pages, byte_size, fragment_count, uploaded_at
		FROM documents WHERE filename = ?
	`, filename)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Document{}, fmt.Errorf("%w: document %q", domain.ErrNotFound, filename)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

// List returns all records ordered by upload time descending.
func (r *Registry) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT filename, title, author, subject, pages, byte_size, fragment_count, uploaded_at
		FROM documents ORDER BY uploaded_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Delete removes the record for a filename.
func (r *Registry) Delete(ctx context.Context, filename string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE filename = ?", filename)
	if err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking delete result: %w", err)
	}
	return affected > 0, nil
}

// Clear removes every record.
func (r *Registry) Clear(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents")
	if err != nil {
		return 0, fmt.Errorf("clearing documents: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking clear result: %w", err)
	}
	return int(affected), nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (domain.Document, error) {
	var doc domain.Document
	err := row.Scan(&doc.Filename, &doc.Title, &doc.Author, &doc.Subject,
		&doc.Pages, &doc.ByteSize, &doc.FragmentCount, &doc.UploadedAt)
	return doc, err
}

// migrate runs all pending migrations.
func (r *Registry) migrate(fsys embed.FS) error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := r.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := r.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := r.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
