package domain

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// RemoteFile is a single entry returned when listing the remote store.
type RemoteFile struct {
	// Name is the file name including extension.
	Name string

	// Path is the location used to fetch the file.
	Path string

	// ID is the provider's identifier, if any.
	ID string

	// Size is the file size in bytes.
	Size int64

	// Modified is the last modification time reported by the provider.
	Modified time.Time
}

// Title returns the file name without its extension.
func (f RemoteFile) Title() string {
	return TitleFromName(f.Name)
}

// IsPDF returns true if the entry looks like a PDF document.
func (f RemoteFile) IsPDF() bool {
	return strings.EqualFold(path.Ext(f.Name), ".pdf")
}

// TitleFromName strips the extension from a file name.
func TitleFromName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// SourceDocument is a downloaded PDF awaiting partitioning.
// It is discarded once its chunks have been written.
type SourceDocument struct {
	RemoteFile

	// Title is the human-readable name derived from the file name.
	Title string

	// Content holds the raw PDF bytes.
	Content []byte
}

// NewSourceDocument builds a SourceDocument for a fetched remote file.
func NewSourceDocument(file RemoteFile, content []byte) *SourceDocument {
	return &SourceDocument{
		RemoteFile: file,
		Title:      file.Title(),
		Content:    content,
	}
}

// Chunk is a temporary PDF containing a contiguous page range of a SourceDocument.
type Chunk struct {
	// Position is the zero-based ordinal of the chunk within its document.
	Position int

	// FirstPage is the first page (1-based, inclusive).
	FirstPage int

	// LastPage is the last page (1-based, inclusive).
	LastPage int

	// Path is the scratch file holding the chunk.
	Path string
}

// Pages returns the number of pages in the chunk.
func (c Chunk) Pages() int {
	return c.LastPage - c.FirstPage + 1
}

// Range returns the page range in "first-last" form.
func (c Chunk) Range() string {
	return fmt.Sprintf("%d-%d", c.FirstPage, c.LastPage)
}

// ChunkText is the cleaned text produced for one chunk.
type ChunkText struct {
	Position int
	Text     string
}

// ChunkSeparator joins chunk texts during reassembly.
const ChunkSeparator = "\n"

// NormalizedText is the final text of a document, built once and never modified.
type NormalizedText struct {
	text string
}

// Assemble joins chunk texts ordered by Position, whatever order they arrived in.
func Assemble(parts []ChunkText) NormalizedText {
	ordered := make([]ChunkText, len(parts))
	copy(ordered, parts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	texts := make([]string, len(ordered))
	for i, p := range ordered {
		texts[i] = p.Text
	}
	return NormalizedText{text: strings.Join(texts, ChunkSeparator)}
}

// String returns the assembled text.
func (n NormalizedText) String() string {
	return n.text
}

// IsEmpty returns true if no text was assembled.
func (n NormalizedText) IsEmpty() bool {
	return strings.TrimSpace(n.text) == ""
}
