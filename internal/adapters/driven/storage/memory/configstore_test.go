package memory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.Empty(t, store.values)
}

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore(
		map[string]any{"remote.provider": "filesystem"},
		map[string]any{"pipeline.chunk_pages": 10},
	)

	assert.Equal(t, "filesystem", store.GetString("remote.provider"))
	assert.Equal(t, 10, store.GetInt("pipeline.chunk_pages"))
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("remote.folder", "/Livres"))
	require.NoError(t, store.Set("remote.folder", "/Books"))

	val, ok := store.Get("remote.folder")
	assert.True(t, ok)
	assert.Equal(t, "/Books", val)
}

func TestConfigStore_GetInt(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"int":     42,
		"int64":   int64(7),
		"float64": float64(3),
		"string":  "12",
	})

	assert.Equal(t, 42, store.GetInt("int"))
	assert.Equal(t, 7, store.GetInt("int64"))
	assert.Equal(t, 3, store.GetInt("float64"))
	assert.Equal(t, 0, store.GetInt("string"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_GetDuration(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"duration": 2 * time.Minute,
		"string":   "45s",
		"int":      10,
		"int64":    int64(5),
		"invalid":  "later",
		"bool":     true,
	})

	assert.Equal(t, 2*time.Minute, store.GetDuration("duration"))
	assert.Equal(t, 45*time.Second, store.GetDuration("string"))
	assert.Equal(t, 10*time.Second, store.GetDuration("int"))
	assert.Equal(t, 5*time.Second, store.GetDuration("int64"))
	assert.Zero(t, store.GetDuration("invalid"))
	assert.Zero(t, store.GetDuration("bool"))
	assert.Zero(t, store.GetDuration("missing"))
}

func TestConfigStore_GetStringAndBool(t *testing.T) {
	store := NewConfigStore(map[string]any{"name": "atlas", "flag": true})

	assert.Equal(t, "atlas", store.GetString("name"))
	assert.Equal(t, "", store.GetString("flag"))
	assert.True(t, store.GetBool("flag"))
	assert.False(t, store.GetBool("name"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"strings": []string{"a", "b"},
		"mixed":   []any{"a", 1, "b"},
		"scalar":  "a",
	})

	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("strings"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("mixed"))
	assert.Nil(t, store.GetStringSlice("scalar"))
	assert.Nil(t, store.GetStringSlice("missing"))
}

func TestConfigStore_SaveLoadPath(t *testing.T) {
	store := NewConfigStore()

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("pipeline.chunk_pages", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("pipeline.chunk_pages")
		}()
	}
	wg.Wait()

	_, ok := store.Get("pipeline.chunk_pages")
	assert.True(t, ok)
}
