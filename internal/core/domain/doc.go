// Package domain defines the core business entities for livres.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RemoteFile: A listing entry from the remote store
//   - SourceDocument: Downloaded PDF bytes awaiting partitioning
//   - Chunk: A temporary PDF holding a bounded page range
//   - NormalizedText: The reassembled, cleaned text of a document
//   - CatalogEntry: A processed document and the paths of its artifacts
//   - BatchReport: The outcome of one pipeline run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
