// Package normalisers provides implementations of the Normaliser interface.
// A normaliser cleans the raw text an extractor produced for one chunk
// before the chunks of a document are reassembled.
package normalisers
