package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	entries   []domain.CatalogEntry
	texts     map[string]string
	audio     map[string][]byte
	listErr   error
	textCalls int
}

func (m *mockLibraryService) List(_ context.Context) ([]domain.CatalogEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.entries == nil {
		return []domain.CatalogEntry{}, nil
	}
	return m.entries, nil
}

func (m *mockLibraryService) Get(_ context.Context, id string) (*domain.CatalogEntry, error) {
	for i := range m.entries {
		if m.entries[i].ID == id {
			e := m.entries[i]
			return &e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockLibraryService) Find(_ context.Context, _ string) (*domain.CatalogEntry, []string, error) {
	return nil, nil, domain.ErrNotFound
}

func (m *mockLibraryService) Text(_ context.Context, id string) (string, error) {
	m.textCalls++
	text, ok := m.texts[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (m *mockLibraryService) Audio(_ context.Context, id string) (io.ReadSeekCloser, string, error) {
	data, ok := m.audio[id]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return readSeekNopCloser{bytes.NewReader(data)}, id + ".mp3", nil
}

func (m *mockLibraryService) OpenAudio(_ context.Context, _ string) error {
	return nil
}

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	report *domain.BatchReport
	err    error
	status *driving.PipelineStatus
}

func (m *mockPipelineService) RunBatch(_ context.Context) (*domain.BatchReport, error) {
	return m.report, m.err
}

func (m *mockPipelineService) ProcessOne(_ context.Context, _ string) domain.DocumentResult {
	return domain.DocumentResult{}
}

func (m *mockPipelineService) Status() *driving.PipelineStatus {
	if m.status == nil {
		return &driving.PipelineStatus{}
	}
	return m.status
}

var updated = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, library *mockLibraryService, pipeline *mockPipelineService) http.Handler {
	t.Helper()
	deps := &Deps{Library: library}
	if pipeline != nil {
		deps.Pipeline = pipeline
	}
	router, err := NewRouter(deps)
	require.NoError(t, err)
	return router
}

func serve(router http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	router := newTestRouter(t, &mockLibraryService{}, &mockPipelineService{report: &domain.BatchReport{}})

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"list books", http.MethodGet, "/api/books", http.StatusOK},
		{"unknown book", http.MethodGet, "/api/books/missing", http.StatusNotFound},
		{"unknown book text", http.MethodGet, "/api/books/missing/text", http.StatusNotFound},
		{"unknown book audio", http.MethodGet, "/api/books/missing/audio", http.StatusNotFound},
		{"run batch", http.MethodPost, "/api/batch", http.StatusOK},
		{"batch status", http.MethodGet, "/api/batch", http.StatusOK},
		{"books is read only", http.MethodPost, "/api/books", http.StatusMethodNotAllowed},
		{"health", http.MethodGet, "/healthz", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.method, tt.path)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRouter_WithoutPipeline(t *testing.T) {
	router := newTestRouter(t, &mockLibraryService{}, nil)

	w := serve(router, http.MethodPost, "/api/batch")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBooks_List_Empty(t *testing.T) {
	router := newTestRouter(t, &mockLibraryService{}, nil)

	w := serve(router, http.MethodGet, "/api/books")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestBooks_List(t *testing.T) {
	router := newTestRouter(t, &mockLibraryService{entries: []domain.CatalogEntry{
		{ID: "b1", Title: "Candide", AudioPath: "/out/Candide.mp3", CreatedAt: updated, UpdatedAt: updated},
	}}, nil)

	w := serve(router, http.MethodGet, "/api/books")

	require.Equal(t, http.StatusOK, w.Code)
	var books []Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "b1", books[0].ID)
	assert.Equal(t, "Candide", books[0].Title)
	assert.True(t, books[0].HasAudio)
	assert.True(t, updated.Equal(books[0].UpdatedAt))
}

func TestBooks_List_Error(t *testing.T) {
	router := newTestRouter(t, &mockLibraryService{listErr: errors.New("database is locked")}, nil)

	w := serve(router, http.MethodGet, "/api/books")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database is locked")
}

func TestBooks_Text_Cached(t *testing.T) {
	library := &mockLibraryService{
		entries: []domain.CatalogEntry{{ID: "b1", Title: "Candide", UpdatedAt: updated}},
		texts:   map[string]string{"b1": "Il y avait en Westphalie"},
	}
	router := newTestRouter(t, library, nil)

	for i := 0; i < 3; i++ {
		w := serve(router, http.MethodGet, "/api/books/b1/text")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "Il y avait en Westphalie", w.Body.String())
	}
	assert.Equal(t, 1, library.textCalls)

	// A replaced entry is read again.
	library.entries[0].UpdatedAt = updated.Add(time.Hour)
	library.texts["b1"] = "Nouvelle version"

	w := serve(router, http.MethodGet, "/api/books/b1/text")
	assert.Equal(t, "Nouvelle version", w.Body.String())
	assert.Equal(t, 2, library.textCalls)
}

func TestBooks_Audio(t *testing.T) {
	library := &mockLibraryService{
		entries: []domain.CatalogEntry{{ID: "b1", Title: "Candide", AudioPath: "/out/b1.mp3", UpdatedAt: updated}},
		audio:   map[string][]byte{"b1": []byte("0123456789")},
	}
	router := newTestRouter(t, library, nil)

	w := serve(router, http.MethodGet, "/api/books/b1/audio")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "0123456789", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/books/b1/audio", nil)
	req.Header.Set("Range", "bytes=2-5")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "2345", w.Body.String())
}

func TestBatch_Run(t *testing.T) {
	pipeline := &mockPipelineService{report: &domain.BatchReport{Results: []domain.DocumentResult{
		{Title: "a", Path: "/a.pdf", Stage: domain.StageDone, Entry: &domain.CatalogEntry{ID: "e1"}},
		{Title: "b", Path: "/b.pdf", Stage: domain.StageExtracting, Err: domain.ErrExtractionFailed},
	}}}
	router := newTestRouter(t, &mockLibraryService{}, pipeline)

	w := serve(router, http.MethodPost, "/api/batch")

	require.Equal(t, http.StatusOK, w.Code)
	var report BatchReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Documents, 2)
	assert.Equal(t, "e1", report.Documents[0].EntryID)
	assert.Equal(t, "extraction failed", report.Documents[1].Error)
}

func TestBatch_Run_InProgress(t *testing.T) {
	router := newTestRouter(t, &mockLibraryService{}, &mockPipelineService{err: domain.ErrBatchInProgress})

	w := serve(router, http.MethodPost, "/api/batch")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBatch_Status(t *testing.T) {
	pipeline := &mockPipelineService{status: &driving.PipelineStatus{
		Running: true,
		Documents: []domain.DocumentStatus{
			{Title: "a", Stage: domain.StageExtracting, Chunk: 1, Chunks: 3},
		},
		DocumentsProcessed: 2,
	}}
	router := newTestRouter(t, &mockLibraryService{}, pipeline)

	w := serve(router, http.MethodGet, "/api/batch")

	require.Equal(t, http.StatusOK, w.Code)
	var status BatchStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Running)
	assert.Equal(t, 2, status.Processed)
	require.Len(t, status.Documents, 1)
	assert.Equal(t, "extracting (2/3)", status.Documents[0].Detail)
}

func TestAudioContentType(t *testing.T) {
	assert.Equal(t, "audio/mpeg", audioContentType("a.mp3"))
	assert.Equal(t, "audio/ogg", audioContentType("a.OGG"))
	assert.Equal(t, "audio/wav", audioContentType("a.wav"))
}
