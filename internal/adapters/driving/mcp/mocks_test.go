package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	entries     []domain.CatalogEntry
	entry       *domain.CatalogEntry
	suggestions []string
	text        string
	err         error
}

func (m *mockLibraryService) List(_ context.Context) ([]domain.CatalogEntry, error) {
	return m.entries, m.err
}

func (m *mockLibraryService) Get(_ context.Context, _ string) (*domain.CatalogEntry, error) {
	return m.entry, m.err
}

func (m *mockLibraryService) Find(_ context.Context, _ string) (*domain.CatalogEntry, []string, error) {
	return m.entry, m.suggestions, m.err
}

func (m *mockLibraryService) Text(_ context.Context, _ string) (string, error) {
	return m.text, m.err
}

func (m *mockLibraryService) Audio(_ context.Context, _ string) (io.ReadSeekCloser, string, error) {
	return nil, "", m.err
}

func (m *mockLibraryService) OpenAudio(_ context.Context, _ string) error {
	return m.err
}

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	report  *domain.BatchReport
	result  domain.DocumentResult
	err     error
	gotPath string
}

func (m *mockPipelineService) RunBatch(_ context.Context) (*domain.BatchReport, error) {
	return m.report, m.err
}

func (m *mockPipelineService) ProcessOne(_ context.Context, remotePath string) domain.DocumentResult {
	m.gotPath = remotePath
	return m.result
}

func (m *mockPipelineService) Status() *driving.PipelineStatus {
	return &driving.PipelineStatus{}
}
