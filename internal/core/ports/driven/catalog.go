package driven

import (
	"context"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// CatalogStore persists catalog entries.
// Backed by SQLite; an in-memory variant exists for tests and dry runs.
type CatalogStore interface {
	// Upsert inserts the entry or replaces the one sharing its ID.
	// Write failures wrap domain.ErrCatalogWriteFailed.
	Upsert(ctx context.Context, entry *domain.CatalogEntry) error

	// List returns all entries in insertion order.
	List(ctx context.Context) ([]domain.CatalogEntry, error)

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*domain.CatalogEntry, error)

	// FindByTitle retrieves the entry with the given title.
	FindByTitle(ctx context.Context, title string) (*domain.CatalogEntry, error)

	// Delete removes an entry.
	Delete(ctx context.Context, id string) error
}
