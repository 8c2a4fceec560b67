// Package tui provides an interactive terminal user interface for livres.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Library reads the catalog, document text and narration.
	Library driving.LibraryService

	// Pipeline processes the remote folder. Optional: without it the
	// process action is disabled.
	Pipeline driving.PipelineService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(library driving.LibraryService, pipeline driving.PipelineService) *Ports {
	return &Ports{
		Library:  library,
		Pipeline: pipeline,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
