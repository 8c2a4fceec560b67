// Package placeholder provides an extractor that returns a fixed sentence per chunk.
// It stands in for a real OCR service during development and dry runs.
package placeholder

import (
	"context"
	"fmt"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor names the chunk instead of reading it.
type Extractor struct{}

// New creates a placeholder extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return string(domain.ExtractorPlaceholder)
}

// Extract returns "Texte brut extrait des pages X-Y".
func (e *Extractor) Extract(ctx context.Context, chunk domain.Chunk) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	return Text(chunk), nil
}

// Text is the sentence produced for chunk.
func Text(chunk domain.Chunk) string {
	return fmt.Sprintf("Texte brut extrait des pages %s", chunk.Range())
}
