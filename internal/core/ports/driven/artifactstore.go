package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// ArtifactStore persists generated artifacts.
type ArtifactStore interface {
	// Commit writes all artifacts for a title, or none of them.
	// Failures wrap domain.ErrArtifactWriteFailed.
	Commit(ctx context.Context, title string, artifacts ...domain.Artifact) ([]domain.StoredArtifact, error)

	// Open opens a stored artifact for reading.
	Open(path string) (io.ReadSeekCloser, error)
}
