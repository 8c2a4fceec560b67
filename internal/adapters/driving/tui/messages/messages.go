// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/livres/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewLibrary lists cataloged documents.
	ViewLibrary
	// ViewReader shows the text of one document.
	ViewReader
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewLibrary:
		return "library"
	case ViewReader:
		return "reader"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// LibraryLoaded carries the catalog.
type LibraryLoaded struct {
	Entries []domain.CatalogEntry
	Err     error
}

// ReadRequested asks to open an entry in the reader.
type ReadRequested struct {
	Entry domain.CatalogEntry
}

// TextLoaded carries the text of an entry.
type TextLoaded struct {
	EntryID string
	Text    string
	Err     error
}

// PlayRequested asks to play an entry's narration.
type PlayRequested struct {
	Entry domain.CatalogEntry
}

// AudioStarted signals the narration was handed to the system player.
type AudioStarted struct {
	Title string
	Err   error
}

// BatchRequested asks to process the remote folder.
type BatchRequested struct{}

// BatchCompleted carries the report of a finished batch.
type BatchCompleted struct {
	Report *domain.BatchReport
	Err    error
}
