// Package extractors selects the extraction adapter from settings.
package extractors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/extractors/gemini"
	"github.com/custodia-labs/livres/internal/extractors/pdftext"
	"github.com/custodia-labs/livres/internal/extractors/placeholder"
)

// New returns the extractor named by cfg.Kind.
// Extractors holding remote clients also implement io.Closer.
func New(ctx context.Context, cfg domain.ExtractorSettings) (driven.Extractor, error) {
	switch cfg.Kind {
	case domain.ExtractorPlaceholder, "":
		return placeholder.New(), nil
	case domain.ExtractorPDFText:
		return pdftext.New(), nil
	case domain.ExtractorGemini:
		return gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("%w: extractor %q", domain.ErrUnsupportedType, cfg.Kind)
	}
}
