// Package pdftext extracts the embedded text layer of a chunk with ledongthuc/pdf.
// Scanned pages without a text layer produce empty text.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads the text layer of PDF chunks.
type Extractor struct{}

// New creates a text layer extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return string(domain.ExtractorPDFText)
}

// Extract returns the plain text of every page in the chunk, one line per page.
func (e *Extractor) Extract(ctx context.Context, chunk domain.Chunk) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}

	content, err := os.ReadFile(chunk.Path)
	if err != nil {
		return "", fmt.Errorf("%w: read chunk: %w", domain.ErrExtractionFailed, err)
	}

	text, err := extractText(ctx, content)
	if err != nil {
		return "", fmt.Errorf("%w: pages %s: %w", domain.ErrExtractionFailed, chunk.Range(), err)
	}
	return text, nil
}

func extractText(ctx context.Context, content []byte) (text string, err error) {
	// The reader panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrUnsupportedFormat, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open PDF: %w", domain.ErrUnsupportedFormat, err)
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i+1, err)
		}
		buf.WriteString(pageText)
		if i < numPages-1 {
			buf.WriteByte('\n')
		}
	}
	return buf.String(), nil
}
