package driving

import (
	"context"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// PipelineService converts remote PDFs into cataloged text and narration.
type PipelineService interface {
	// RunBatch lists the configured folder once and processes every PDF in it.
	// Per-document failures are recorded in the report; the error is reserved
	// for failures that stop the whole batch (listing, concurrent batch).
	RunBatch(ctx context.Context) (*domain.BatchReport, error)

	// ProcessOne processes a single remote file.
	ProcessOne(ctx context.Context, remotePath string) domain.DocumentResult

	// Status returns the live state of documents in the running batch.
	Status() *PipelineStatus
}

// PipelineStatus represents the current state of a batch.
type PipelineStatus struct {
	// Running indicates if a batch is currently in progress.
	Running bool

	// Documents holds the live status of each document seen so far.
	Documents []domain.DocumentStatus

	// DocumentsProcessed is the count of documents that reached a terminal stage.
	DocumentsProcessed int

	// ErrorCount is the number of failed documents.
	ErrorCount int
}
