// Package text normalises extracted chunk text.
package text

import (
	"strings"

	"github.com/custodia-labs/livres/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Normaliser flattens line breaks and trims surrounding whitespace.
type Normaliser struct{}

// New creates a new text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise cleans raw chunk text.
func (n *Normaliser) Normalise(raw string) string {
	return Normalize(raw)
}

// Normalize replaces every CRLF, CR and LF with a single space, then trims
// leading and trailing whitespace. Applying it twice gives the same result.
func Normalize(raw string) string {
	return strings.TrimSpace(lineBreaks.Replace(raw))
}
