package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/livres/internal/core/ports/driven"
)

func TestRenderer_Extension(t *testing.T) {
	assert.Equal(t, "docx", NewRenderer().Extension())
}

func TestRenderer_PackageParts(t *testing.T) {
	data, err := NewRenderer().Render(context.Background(), "Atlas", "hello")
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"docProps/core.xml",
	}, names)
}

func TestRenderer_RoundTrip(t *testing.T) {
	r := NewRenderer()
	r.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }

	text := "Chapitre 1 <intro> & \"citations\"\nChapitre 2   espacé\n"
	data, err := r.Render(context.Background(), "Le Petit Prince", text)
	require.NoError(t, err)

	doc, err := Read(data)
	require.NoError(t, err)
	assert.Equal(t, "Le Petit Prince", doc.Title)
	assert.Equal(t, text, doc.Text)
}

func TestRenderer_SingleParagraph(t *testing.T) {
	data, err := NewRenderer().Render(context.Background(), "t", "a\nb\nc")
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	content, err := readPart(reader, "word/document.xml")
	require.NoError(t, err)

	assert.Equal(t, 1, bytes.Count(content, []byte("<w:p>")))
	assert.Equal(t, 2, bytes.Count(content, []byte("<w:br/>")))
}

func TestRenderer_EmptyText(t *testing.T) {
	data, err := NewRenderer().Render(context.Background(), "empty", "")
	require.NoError(t, err)

	doc, err := Read(data)
	require.NoError(t, err)
	assert.Equal(t, "", doc.Text)
}

func TestRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRenderer().Render(ctx, "t", "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.DocumentRenderer = (*Renderer)(nil)
}
