package driven

import (
	"context"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// Extractor produces the raw text of a chunk.
type Extractor interface {
	// Name identifies the extractor in logs.
	Name() string

	// Extract returns the chunk's raw text.
	// Failures wrap domain.ErrExtractionFailed.
	Extract(ctx context.Context, chunk domain.Chunk) (string, error)
}
