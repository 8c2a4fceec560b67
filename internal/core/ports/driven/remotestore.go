package driven

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_remote_store.go -package=mocks github.com/custodia-labs/livres/internal/core/ports/driven RemoteStore

import (
	"context"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// RemoteStore lists and downloads source documents.
// Errors wrap domain.ErrRemoteFetchFailed together with one of
// domain.ErrNotFound, domain.ErrAuthFailure or domain.ErrTransientNetwork.
type RemoteStore interface {
	// List returns the entries of a folder. Folders themselves are not returned.
	List(ctx context.Context, folder string) ([]domain.RemoteFile, error)

	// Fetch downloads the file at path.
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// RemoteWatcher is implemented by remote stores that can report new files.
type RemoteWatcher interface {
	// Watch emits the path of every created or rewritten file under folder
	// until ctx is cancelled.
	Watch(ctx context.Context, folder string) (<-chan string, error)
}
