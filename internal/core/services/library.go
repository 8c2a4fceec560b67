package services

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

const (
	maxSuggestions  = 3
	minSuggestScore = 0.5
)

// LibraryService reads the catalog and the artifacts it points to.
type LibraryService struct {
	catalog   driven.CatalogStore
	artifacts driven.ArtifactStore
	reader    driven.DocumentReader
	opener    func(path string) error
}

// NewLibraryService creates a new library service.
func NewLibraryService(
	catalog driven.CatalogStore,
	artifacts driven.ArtifactStore,
	reader driven.DocumentReader,
) *LibraryService {
	return &LibraryService{
		catalog:   catalog,
		artifacts: artifacts,
		reader:    reader,
		opener:    openURL,
	}
}

// List returns all cataloged documents in insertion order.
func (s *LibraryService) List(ctx context.Context) ([]domain.CatalogEntry, error) {
	entries, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.CatalogEntry{}
	}
	return entries, nil
}

// Get retrieves an entry by ID.
func (s *LibraryService) Get(ctx context.Context, id string) (*domain.CatalogEntry, error) {
	return s.catalog.Get(ctx, id)
}

// Find resolves a title, falling back to a case-insensitive match.
// When nothing matches, the closest titles are returned as suggestions.
func (s *LibraryService) Find(ctx context.Context, title string) (*domain.CatalogEntry, []string, error) {
	entry, err := s.catalog.FindByTitle(ctx, title)
	if err == nil {
		return entry, nil, nil
	}

	entries, listErr := s.catalog.List(ctx)
	if listErr != nil {
		return nil, nil, listErr
	}

	query := strings.ToLower(strings.TrimSpace(title))
	for i := range entries {
		if strings.ToLower(entries[i].Title) == query {
			return &entries[i], nil, nil
		}
	}

	return nil, suggestTitles(query, entries), fmt.Errorf("%w: %q", domain.ErrNotFound, title)
}

// Text returns the document text of an entry.
func (s *LibraryService) Text(ctx context.Context, id string) (string, error) {
	entry, err := s.catalog.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if entry.DocumentPath == "" {
		return "", fmt.Errorf("%w: %s has no document", domain.ErrNotFound, entry.Title)
	}

	f, err := s.artifacts.Open(entry.DocumentPath)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return s.reader.ReadText(data)
}

// Audio opens the narration of an entry.
func (s *LibraryService) Audio(ctx context.Context, id string) (io.ReadSeekCloser, string, error) {
	entry, err := s.catalog.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !entry.HasAudio() {
		return nil, "", fmt.Errorf("%w: %s has no narration", domain.ErrNotFound, entry.Title)
	}

	f, err := s.artifacts.Open(entry.AudioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open narration: %w", err)
	}
	return f, filepath.Base(entry.AudioPath), nil
}

// OpenAudio plays the narration with the system's default application.
func (s *LibraryService) OpenAudio(ctx context.Context, id string) error {
	entry, err := s.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	if !entry.HasAudio() {
		return fmt.Errorf("%w: %s has no narration", domain.ErrNotFound, entry.Title)
	}
	return s.opener(entry.AudioPath)
}

// suggestTitles ranks catalog titles by similarity to query.
func suggestTitles(query string, entries []domain.CatalogEntry) []string {
	type scored struct {
		title string
		score float64
	}

	var candidates []scored
	for _, e := range entries {
		if score := titleScore(query, strings.ToLower(e.Title)); score >= minSuggestScore {
			candidates = append(candidates, scored{e.Title, score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var titles []string
	for _, c := range candidates {
		if len(titles) == maxSuggestions {
			break
		}
		titles = append(titles, c.title)
	}
	return titles
}

// titleScore returns a similarity between 0 and 1.
func titleScore(query, title string) float64 {
	if query == "" || title == "" {
		return 0
	}
	if strings.Contains(title, query) {
		return 0.95
	}

	dist := levenshtein.Distance(query, title, nil)
	maxLen := len([]rune(query))
	if n := len([]rune(title)); n > maxLen {
		maxLen = n
	}
	score := 1.0 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// openURL opens a URL/path using the system default handler.
func openURL(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
