package driving

import "context"

// Scheduler keeps the catalog in step with the remote folder in the background.
type Scheduler interface {
	// Start runs until Stop is called or ctx is cancelled.
	Start(ctx context.Context) error

	// Stop ends the loop and waits for the current document to finish.
	Stop() error
}
