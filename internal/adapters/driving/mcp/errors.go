// Package mcp provides an MCP (Model Context Protocol) server adapter for livres.
// It lets AI assistants browse the catalog, read transcribed documents and
// start a processing batch.
package mcp

import "errors"

// ErrMissingLibraryService is returned when the library service is not provided.
var ErrMissingLibraryService = errors.New("mcp: library service is required")
