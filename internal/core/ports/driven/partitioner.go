package driven

import (
	"context"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// Partitioner splits a source PDF into chunks of bounded page count.
type Partitioner interface {
	// Partition writes one temporary file per chunk and returns the chunks in order.
	// An unreadable or empty document yields domain.ErrDocumentUnreadable.
	Partition(ctx context.Context, doc *domain.SourceDocument) ([]domain.Chunk, error)

	// Cleanup removes the temporary files of the given chunks.
	Cleanup(chunks []domain.Chunk)
}
