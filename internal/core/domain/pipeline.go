package domain

import (
	"errors"
	"fmt"
	"time"
)

// Stage is a step in the processing of a single document.
type Stage string

// Pipeline stages, in the order a document passes through them.
const (
	StagePending             Stage = "pending"
	StageFetching            Stage = "fetching"
	StagePartitioning        Stage = "partitioning"
	StageExtracting          Stage = "extracting"
	StageNormalizing         Stage = "normalizing"
	StageGeneratingArtifacts Stage = "generating_artifacts"
	StageCataloging          Stage = "cataloging"
	StageDone                Stage = "done"
	StageFailed              Stage = "failed"
	StageSkipped             Stage = "skipped"
)

// IsTerminal returns true if no further transitions follow.
func (s Stage) IsTerminal() bool {
	return s == StageDone || s == StageFailed || s == StageSkipped
}

// String returns the string representation.
func (s Stage) String() string {
	return string(s)
}

// DocumentStatus is the live state of a document within a running batch.
type DocumentStatus struct {
	Title string
	Path  string
	Stage Stage

	// Chunk is the chunk being extracted while in StageExtracting.
	Chunk int

	// Chunks is the total chunk count once partitioned.
	Chunks int

	// FailedStage is the stage that failed when Stage is StageFailed.
	FailedStage Stage

	Err error
}

// Describe renders the status for progress output.
func (s DocumentStatus) Describe() string {
	switch s.Stage {
	case StageExtracting:
		return fmt.Sprintf("%s (%d/%d)", s.Stage, s.Chunk+1, s.Chunks)
	case StageFailed:
		return fmt.Sprintf("%s at %s: %v", s.Stage, s.FailedStage, s.Err)
	default:
		return s.Stage.String()
	}
}

// DocumentResult is the final outcome of one document in a batch.
type DocumentResult struct {
	Title string
	Path  string

	// Stage is StageDone, StageSkipped, or the stage at which the document failed.
	Stage Stage

	Err error

	// Chunks is the number of chunks the document was split into.
	Chunks int

	// Entry is the catalog record written on success.
	Entry *CatalogEntry
}

// Succeeded returns true if the document was cataloged.
func (r DocumentResult) Succeeded() bool {
	return r.Err == nil && r.Stage == StageDone
}

// BatchReport summarises a pipeline run.
type BatchReport struct {
	Started  time.Time
	Finished time.Time
	Results  []DocumentResult
}

// Succeeded counts documents that reached StageDone.
func (r *BatchReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded() {
			n++
		}
	}
	return n
}

// Failed counts documents that did not complete.
func (r *BatchReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Skipped counts listing entries that were not PDFs.
func (r *BatchReport) Skipped() int {
	n := 0
	for _, res := range r.Results {
		if res.Stage == StageSkipped {
			n++
		}
	}
	return n
}

// Duration returns how long the batch ran.
func (r *BatchReport) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Err joins the errors of all failed documents, or returns nil.
func (r *BatchReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Title, res.Err))
		}
	}
	return errors.Join(errs...)
}
