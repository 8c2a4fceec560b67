package domain

import "time"

// CatalogEntry records a processed document and where its artifacts live.
type CatalogEntry struct {
	// ID is the unique identifier for the entry.
	ID string

	// Title is the document title shown to users.
	Title string

	// DocumentPath locates the rendered document artifact.
	DocumentPath string

	// AudioPath locates the narration artifact.
	AudioPath string

	// CreatedAt is when the entry was first cataloged.
	CreatedAt time.Time

	// UpdatedAt is when the entry was last replaced.
	UpdatedAt time.Time
}

// HasAudio returns true if the entry references a narration.
func (e *CatalogEntry) HasAudio() bool {
	return e.AudioPath != ""
}
