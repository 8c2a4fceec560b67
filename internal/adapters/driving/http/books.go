package http

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
	"github.com/custodia-labs/livres/internal/logger"
)

// Book is the JSON form of a catalog entry.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	HasAudio  bool      `json:"has_audio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBook(e *domain.CatalogEntry) Book {
	return Book{
		ID:        e.ID,
		Title:     e.Title,
		HasAudio:  e.HasAudio(),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type booksHandler struct {
	library driving.LibraryService

	// texts is keyed by ID and update time so a replaced entry misses.
	texts *lru.Cache[string, string]
}

func (h *booksHandler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.library.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	books := make([]Book, len(entries))
	for i := range entries {
		books[i] = toBook(&entries[i])
	}
	writeJSON(w, http.StatusOK, books)
}

func (h *booksHandler) get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.library.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBook(entry))
}

func (h *booksHandler) text(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	entry, err := h.library.Get(ctx, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	key := fmt.Sprintf("%s@%d", entry.ID, entry.UpdatedAt.UnixNano())
	text, ok := h.texts.Get(key)
	if !ok {
		text, err = h.library.Text(ctx, id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		h.texts.Add(key, text)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (h *booksHandler) audio(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	entry, err := h.library.Get(ctx, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	audio, name, err := h.library.Audio(ctx, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", audioContentType(name))
	http.ServeContent(w, r, name, entry.UpdatedAt, audio)
}

func audioContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".ogg":
		return "audio/ogg"
	case ".wav":
		return "audio/wav"
	default:
		return "audio/mpeg"
	}
}

// writeServiceError maps domain errors onto status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrBatchInProgress):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Warn("%s %s: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
