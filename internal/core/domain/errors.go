package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown extractor or remote provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrBatchInProgress indicates a batch is already running.
	ErrBatchInProgress = errors.New("batch in progress")

	// Pipeline stage errors.

	// ErrDocumentUnreadable indicates the source PDF cannot be opened or has no pages.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrRemoteFetchFailed indicates listing or downloading from the remote store failed.
	ErrRemoteFetchFailed = errors.New("remote fetch failed")

	// ErrExtractionFailed indicates a chunk's text could not be extracted.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrSynthesisFailed indicates the speech service rejected or did not answer.
	ErrSynthesisFailed = errors.New("speech synthesis failed")

	// ErrArtifactWriteFailed indicates the artifact pair or a scratch chunk could not be written.
	ErrArtifactWriteFailed = errors.New("artifact write failed")

	// ErrCatalogWriteFailed indicates the catalog entry could not be written.
	ErrCatalogWriteFailed = errors.New("catalog write failed")

	// Causes.

	// ErrAuthFailure indicates the external service refused the credentials.
	ErrAuthFailure = errors.New("authentication failure")

	// ErrTransientNetwork indicates a network failure that may succeed on retry.
	ErrTransientNetwork = errors.New("transient network failure")

	// ErrServiceUnavailable indicates the external service is overloaded or down.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrUnsupportedFormat indicates the input is not in a format the component accepts.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// IsRetryable reports whether err is worth retrying.
// Only transient network failures and unavailable services qualify.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrAuthFailure) ||
		errors.Is(err, ErrDocumentUnreadable) {
		return false
	}
	return errors.Is(err, ErrTransientNetwork) || errors.Is(err, ErrServiceUnavailable)
}
