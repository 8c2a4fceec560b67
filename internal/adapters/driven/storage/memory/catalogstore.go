package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory implementation of driven.CatalogStore.
type CatalogStore struct {
	mu      sync.RWMutex
	entries map[string]domain.CatalogEntry
	order   []string
}

// NewCatalogStore creates a new in-memory catalog.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		entries: make(map[string]domain.CatalogEntry),
	}
}

// Upsert inserts the entry or replaces the one sharing its ID.
func (s *CatalogStore) Upsert(_ context.Context, entry *domain.CatalogEntry) error {
	if entry == nil || entry.ID == "" {
		return fmt.Errorf("%w: %w: entry without id", domain.ErrCatalogWriteFailed, domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}

	stored := *entry
	if existing, ok := s.entries[entry.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		s.order = append(s.order, entry.ID)
	}
	s.entries[entry.ID] = stored
	return nil
}

// List returns all entries in insertion order.
func (s *CatalogStore) List(_ context.Context) ([]domain.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CatalogEntry, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.entries[id])
	}
	return result, nil
}

// Get retrieves an entry by ID.
func (s *CatalogStore) Get(_ context.Context, id string) (*domain.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// FindByTitle retrieves the most recently updated entry with the given title.
func (s *CatalogStore) FindByTitle(_ context.Context, title string) (*domain.CatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *domain.CatalogEntry
	for _, id := range s.order {
		entry := s.entries[id]
		if entry.Title != title {
			continue
		}
		if found == nil || !entry.UpdatedAt.Before(found.UpdatedAt) {
			found = &entry
		}
	}
	if found == nil {
		return nil, domain.ErrNotFound
	}
	return found, nil
}

// Delete removes an entry.
func (s *CatalogStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
