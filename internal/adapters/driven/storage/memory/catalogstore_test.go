package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/livres/internal/core/domain"
)

func TestCatalogStore_UpsertAndGet(t *testing.T) {
	store := NewCatalogStore()
	ctx := context.Background()

	entry := &domain.CatalogEntry{ID: "a", Title: "atlas", DocumentPath: "/out/atlas.docx"}
	require.NoError(t, store.Upsert(ctx, entry))
	assert.False(t, entry.CreatedAt.IsZero())

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "atlas", got.Title)
	assert.Equal(t, "/out/atlas.docx", got.DocumentPath)
}

func TestCatalogStore_Upsert_ReplacesKeepingCreatedAt(t *testing.T) {
	store := NewCatalogStore()
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, &domain.CatalogEntry{
		ID: "a", Title: "atlas", AudioPath: "/out/atlas.mp3", CreatedAt: created, UpdatedAt: created,
	}))
	require.NoError(t, store.Upsert(ctx, &domain.CatalogEntry{
		ID: "a", Title: "atlas", UpdatedAt: created.Add(time.Hour),
	}))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, created, entries[0].CreatedAt)
	assert.False(t, entries[0].HasAudio())
}

func TestCatalogStore_Upsert_RejectsMissingID(t *testing.T) {
	err := NewCatalogStore().Upsert(context.Background(), &domain.CatalogEntry{Title: "atlas"})
	assert.ErrorIs(t, err, domain.ErrCatalogWriteFailed)

	err = NewCatalogStore().Upsert(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogStore_List_InsertionOrder(t *testing.T) {
	store := NewCatalogStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Upsert(ctx, &domain.CatalogEntry{ID: id, Title: id}))
	}
	require.NoError(t, store.Upsert(ctx, &domain.CatalogEntry{ID: "c", Title: "c2"}))

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].ID)
	assert.Equal(t, "c2", entries[0].Title)
	assert.Equal(t, "a", entries[1].ID)
	assert.Equal(t, "b", entries[2].ID)
}

func TestCatalogStore_FindByTitle(t *testing.T) {
	store := NewCatalogStore()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx, &domain.CatalogEntry{ID: "old", Title: "atlas", UpdatedAt: base}))
	require.NoError(t, store.Upsert(ctx, &domain.CatalogEntry{ID: "new", Title: "atlas", UpdatedAt: base.Add(time.Hour)}))

	entry, err := store.FindByTitle(ctx, "atlas")
	require.NoError(t, err)
	assert.Equal(t, "new", entry.ID)

	_, err = store.FindByTitle(ctx, "bestiary")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogStore_Delete(t *testing.T) {
	store := NewCatalogStore()
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, &domain.CatalogEntry{ID: "a", Title: "atlas"}))
	require.NoError(t, store.Upsert(ctx, &domain.CatalogEntry{ID: "b", Title: "bestiary"}))
	require.NoError(t, store.Delete(ctx, "a"))

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "a"), domain.ErrNotFound)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ID)
}

func TestCatalogStore_ConcurrentUpserts(t *testing.T) {
	store := NewCatalogStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", n)
			assert.NoError(t, store.Upsert(ctx, &domain.CatalogEntry{ID: id, Title: id}))
		}(i)
	}
	wg.Wait()

	entries, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}
