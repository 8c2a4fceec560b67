package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/livres/internal/core/domain"
)

func newTestLibrary() *mockLibraryService {
	updated := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &mockLibraryService{
		entries: []domain.CatalogEntry{
			{
				ID: "c1", Title: "Candide",
				DocumentPath: "Candide.docx", AudioPath: "Candide.mp3",
				CreatedAt: updated, UpdatedAt: updated,
			},
			{ID: "z1", Title: "Zadig", DocumentPath: "Zadig.docx", UpdatedAt: updated},
		},
		texts: map[string]string{"c1": "Il y avait en Westphalie...", "z1": "Du temps du roi Moabdar"},
		audio: map[string][]byte{"c1": []byte("ID3 narration")},
	}
}

func TestLibraryList_NotConfigured(t *testing.T) {
	withServices(t, &Services{})

	_, err := execute(t, "library", "list")

	assert.EqualError(t, err, "library service not configured")
}

func TestLibraryList_Empty(t *testing.T) {
	withServices(t, &Services{Library: &mockLibraryService{}})

	out, err := execute(t, "library", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "The library is empty. Run 'livres process' to add documents.")
}

func TestLibraryList(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})

	out, err := execute(t, "library", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Candide")
	assert.Contains(t, out, "ID: c1")
	assert.Contains(t, out, "Audio: yes")
	assert.Contains(t, out, "Audio: no")
	assert.Contains(t, out, "Total: 2 documents")
}

func TestLibraryList_JSON(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})

	out, err := execute(t, "library", "list", "--json")

	require.NoError(t, err)
	var entries []domain.CatalogEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Candide", entries[0].Title)
}

func TestLibraryList_Error(t *testing.T) {
	withServices(t, &Services{Library: &mockLibraryService{listErr: errors.New("catalog locked")}})

	_, err := execute(t, "library", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog locked")
}

func TestLibraryShow(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})

	out, err := execute(t, "library", "show", "candide")

	require.NoError(t, err)
	assert.Contains(t, out, "Title:    Candide")
	assert.Contains(t, out, "Document: Candide.docx")
	assert.Contains(t, out, "Audio:    Candide.mp3")
}

func TestLibraryShow_ByID(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})

	out, err := execute(t, "library", "show", "z1")

	require.NoError(t, err)
	assert.Contains(t, out, "Title:    Zadig")
	assert.Contains(t, out, "Audio:    (none)")
}

func TestLibraryShow_Suggestions(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})

	_, err := execute(t, "library", "show", "Cand")

	require.Error(t, err)
	assert.Equal(t, `no document titled "Cand"; did you mean "Candide"?`, err.Error())
}

func TestLibraryShow_NoMatch(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})

	_, err := execute(t, "library", "show", "Micromégas")

	require.Error(t, err)
	assert.Equal(t, `no document titled "Micromégas"`, err.Error())
}

func TestLibraryText(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})

	out, err := execute(t, "library", "text", "Zadig")

	require.NoError(t, err)
	assert.Contains(t, out, "Du temps du roi Moabdar")
}

func TestLibraryText_Output(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})
	path := filepath.Join(t.TempDir(), "candide.txt")

	out, err := execute(t, "library", "text", "Candide", "-o", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Text written to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Il y avait en Westphalie...", string(data))
}

func TestLibraryAudio_Plays(t *testing.T) {
	library := newTestLibrary()
	withServices(t, &Services{Library: library})

	out, err := execute(t, "library", "audio", "Candide")

	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, library.played)
	assert.Contains(t, out, "Playing Candide")
}

func TestLibraryAudio_Output(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})
	path := filepath.Join(t.TempDir(), "candide.mp3")

	out, err := execute(t, "library", "audio", "Candide", "--output", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Narration written to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID3 narration", string(data))
}

func TestLibraryAudio_NoNarration(t *testing.T) {
	withServices(t, &Services{Library: newTestLibrary()})

	_, err := execute(t, "library", "audio", "Zadig")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to play narration")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTime(time.Time{}))
	assert.NotEqual(t, "-", formatTime(time.Now()))
}

func TestQuoteAll(t *testing.T) {
	assert.Equal(t, `"Candide", "Zadig"`, quoteAll([]string{"Candide", "Zadig"}))
}
