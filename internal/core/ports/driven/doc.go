// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RemoteStore: Lists and downloads source PDFs (Dropbox, Google Drive, local folder)
//   - Partitioner: Splits a PDF into bounded page-range chunks
//   - Extractor: Produces raw text for a chunk (placeholder, text layer, Gemini)
//   - Normaliser: Cleans raw chunk text
//   - DocumentRenderer: Renders the final text as a word-processor document
//   - SpeechSynthesizer: Narrates the final text
//   - ArtifactStore: Persists the document and audio pair atomically
//   - CatalogStore: Catalog persistence (SQLite)
//   - ConfigStore: Application configuration
//   - PromptStore: Model prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
