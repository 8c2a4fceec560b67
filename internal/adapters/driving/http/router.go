// Package http serves the library over a small JSON and streaming API.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// DefaultTextCacheSize is the number of document texts kept in memory.
const DefaultTextCacheSize = 32

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Library driving.LibraryService

	// Pipeline is optional; without it POST /api/batch is not routed.
	Pipeline driving.PipelineService

	// TextCacheSize overrides DefaultTextCacheSize when positive.
	TextCacheSize int
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) (http.Handler, error) {
	size := deps.TextCacheSize
	if size <= 0 {
		size = DefaultTextCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}

	books := &booksHandler{library: deps.Library, texts: cache}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/books", books.list)
		r.Get("/books/{id}", books.get)
		r.Get("/books/{id}/text", books.text)
		r.Get("/books/{id}/audio", books.audio)

		if deps.Pipeline != nil {
			batch := &batchHandler{pipeline: deps.Pipeline}
			r.Post("/batch", batch.run)
			r.Get("/batch", batch.status)
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r, nil
}
