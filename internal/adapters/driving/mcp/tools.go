package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// ListBooksInput is the input schema for the list_books tool.
type ListBooksInput struct {
	Title string `json:"title,omitempty" jsonschema:"optional title to look up instead of listing everything"`
}

// ListBooksOutput is the output schema for the list_books tool.
type ListBooksOutput struct {
	Books       []BookOutput `json:"books"`
	Count       int          `json:"count"`
	Suggestions []string     `json:"suggestions,omitempty"`
}

// BookOutput represents a single cataloged document.
type BookOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TextURI   string `json:"text_uri"`
	HasAudio  bool   `json:"has_audio"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ProcessLibraryInput is the input schema for the process_library tool.
type ProcessLibraryInput struct {
	Path string `json:"path,omitempty" jsonschema:"remote path of a single PDF; omit to process the whole folder"`
}

// ProcessLibraryOutput is the output schema for the process_library tool.
type ProcessLibraryOutput struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Skipped   int               `json:"skipped"`
	Documents []DocumentOutcome `json:"documents"`
}

// DocumentOutcome is the result of one document in a batch.
type DocumentOutcome struct {
	Title string `json:"title"`
	Stage string `json:"stage"`
	Error string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_books",
		Description: "List the documents in the library, or look one up by title",
	}, s.handleListBooks)

	if s.ports.Pipeline != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "process_library",
			Description: "Transcribe and narrate the PDFs in the remote folder",
		}, s.handleProcessLibrary)
	}
}

// handleListBooks handles the list_books tool invocation.
func (s *Server) handleListBooks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListBooksInput,
) (*mcp.CallToolResult, ListBooksOutput, error) {
	if input.Title != "" {
		entry, suggestions, err := s.ports.Library.Find(ctx, input.Title)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ListBooksOutput{Books: []BookOutput{}, Suggestions: suggestions}, nil
		}
		if err != nil {
			return nil, ListBooksOutput{}, err
		}
		return nil, ListBooksOutput{Books: []BookOutput{toBookOutput(entry)}, Count: 1}, nil
	}

	entries, err := s.ports.Library.List(ctx)
	if err != nil {
		return nil, ListBooksOutput{}, err
	}

	output := ListBooksOutput{
		Books: make([]BookOutput, len(entries)),
		Count: len(entries),
	}
	for i := range entries {
		output.Books[i] = toBookOutput(&entries[i])
	}
	return nil, output, nil
}

// handleProcessLibrary handles the process_library tool invocation.
func (s *Server) handleProcessLibrary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessLibraryInput,
) (*mcp.CallToolResult, ProcessLibraryOutput, error) {
	var results []domain.DocumentResult
	if input.Path != "" {
		results = []domain.DocumentResult{s.ports.Pipeline.ProcessOne(ctx, input.Path)}
	} else {
		report, err := s.ports.Pipeline.RunBatch(ctx)
		if err != nil {
			return nil, ProcessLibraryOutput{}, err
		}
		results = report.Results
	}

	output := ProcessLibraryOutput{Documents: make([]DocumentOutcome, len(results))}
	for i, res := range results {
		outcome := DocumentOutcome{Title: res.Title, Stage: res.Stage.String()}
		switch {
		case res.Err != nil:
			outcome.Error = res.Err.Error()
			output.Failed++
		case res.Stage == domain.StageSkipped:
			output.Skipped++
		default:
			output.Succeeded++
		}
		output.Documents[i] = outcome
	}
	return nil, output, nil
}

func toBookOutput(entry *domain.CatalogEntry) BookOutput {
	out := BookOutput{
		ID:       entry.ID,
		Title:    entry.Title,
		TextURI:  bookTextURI(entry.ID),
		HasAudio: entry.HasAudio(),
	}
	if !entry.UpdatedAt.IsZero() {
		out.UpdatedAt = entry.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}
