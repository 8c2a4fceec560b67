package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// LibraryService is the read side used by presentation surfaces.
type LibraryService interface {
	// List returns all cataloged documents. An empty catalog is an empty slice.
	List(ctx context.Context) ([]domain.CatalogEntry, error)

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*domain.CatalogEntry, error)

	// Find resolves a title. When nothing matches exactly, the error wraps
	// domain.ErrNotFound and the closest titles are returned as suggestions.
	Find(ctx context.Context, title string) (*domain.CatalogEntry, []string, error)

	// Text returns the document text of an entry.
	Text(ctx context.Context, id string) (string, error)

	// Audio opens the narration of an entry. The name is the file base name.
	Audio(ctx context.Context, id string) (io.ReadSeekCloser, string, error)

	// OpenAudio plays the narration with the system's default application.
	OpenAudio(ctx context.Context, id string) error
}
