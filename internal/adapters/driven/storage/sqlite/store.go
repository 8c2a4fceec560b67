package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/livres/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
)

// DatabaseFile is the catalog file name inside the data directory.
const DatabaseFile = "catalog.db"

// Store is the SQLite catalog.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.CatalogStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.livres/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".livres", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
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
		// Extract version number (e.g., "001_catalog.up.sql" -> 1)
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
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts the entry or replaces the one sharing its ID.
// CreatedAt of an existing entry is preserved.
func (s *Store) Upsert(ctx context.Context, entry *domain.CatalogEntry) error {
	if entry == nil || entry.ID == "" {
		return fmt.Errorf("%w: %w: entry without id", domain.ErrCatalogWriteFailed, domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog (id, title, document_path, audio_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			document_path = excluded.document_path,
			audio_path = excluded.audio_path,
			updated_at = excluded.updated_at
	`, entry.ID, entry.Title, entry.DocumentPath, entry.AudioPath, entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: saving entry: %w", domain.ErrCatalogWriteFailed, err)
	}
	return nil
}

// List returns all entries in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, document_path, audio_path, created_at, updated_at
		FROM catalog ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	entries := []domain.CatalogEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// Get retrieves an entry by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, document_path, audio_path, created_at, updated_at
		FROM catalog WHERE id = ?
	`, id)
	return scanEntry(row)
}

// FindByTitle retrieves the most recently updated entry with the given title.
func (s *Store) FindByTitle(ctx context.Context, title string) (*domain.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, document_path, audio_path, created_at, updated_at
		FROM catalog WHERE title = ? ORDER BY updated_at DESC, rowid DESC LIMIT 1
	`, title)
	return scanEntry(row)
}

// Delete removes an entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM catalog WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: deleting entry: %w", domain.ErrCatalogWriteFailed, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&entry.ID, &entry.Title, &entry.DocumentPath, &entry.AudioPath,
		&createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning entry: %w", err)
	}
	if createdAt.Valid {
		entry.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		entry.UpdatedAt = updatedAt.Time
	}
	return &entry, nil
}
