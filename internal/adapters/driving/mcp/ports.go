package mcp

import (
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Library reads the catalog and its artifacts.
	Library driving.LibraryService

	// Pipeline runs batches. Optional; without it process_library is not offered.
	Pipeline driving.PipelineService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Library == nil {
		return ErrMissingLibraryService
	}
	return nil
}
