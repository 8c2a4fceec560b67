// Package reader provides the document text view for the TUI.
package reader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/livres/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// chrome is the number of lines taken by the title and help footer.
const chrome = 5

var errNoLibrary = errors.New("library service not available")

// View shows the text of one catalog entry.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	library driving.LibraryService

	entry    *domain.CatalogEntry
	text     string
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	err      error
	loading  bool
}

// NewView creates a new reader view.
func NewView(s *styles.Styles, km *keymap.KeyMap, library driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	v := &View{
		styles:   s,
		keymap:   km,
		library:  library,
		viewport: viewport.New(80, 24-chrome),
		width:    80,
		height:   24,
	}
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetEntry resets the view to entry and returns a command loading its text.
func (v *View) SetEntry(entry domain.CatalogEntry) tea.Cmd {
	v.entry = &entry
	v.text = ""
	v.err = nil
	v.loading = true
	v.viewport.SetContent("")
	v.viewport.GotoTop()

	library := v.library
	return func() tea.Msg {
		if library == nil {
			return messages.TextLoaded{EntryID: entry.ID, Err: errNoLibrary}
		}
		text, err := library.Text(context.Background(), entry.ID)
		return messages.TextLoaded{EntryID: entry.ID, Text: text, Err: err}
	}
}

// Update handles messages for the reader view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.TextLoaded:
		if v.entry == nil || msg.EntryID != v.entry.ID {
			// Stale load for an entry no longer shown.
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.text = msg.Text
		v.refresh()
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewLibrary}
			}
		case key.Matches(msg, v.keymap.Play):
			if v.entry != nil && v.entry.HasAudio() {
				entry := *v.entry
				return v, func() tea.Msg { return messages.PlayRequested{Entry: entry} }
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// refresh wraps the text to the current width and loads it into the viewport.
func (v *View) refresh() {
	wrapped := v.styles.Reader.Width(max(v.width-2, 10)).Render(v.text)
	v.viewport.SetContent(wrapped)
}

// View renders the reader.
func (v *View) View() string {
	var b strings.Builder

	title := "Reader"
	if v.entry != nil {
		title = v.entry.Title
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading text..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case strings.TrimSpace(v.text) == "":
		b.WriteString(v.styles.Muted.Render("This document has no text."))
	default:
		b.WriteString(v.viewport.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderHelp() string {
	help := "[↑/↓] scroll  [pgup/pgdn] page"
	if v.entry != nil && v.entry.HasAudio() {
		help += "  [a] play"
	}
	help += "  [esc] back"
	if !v.loading && v.err == nil && v.text != "" {
		help += fmt.Sprintf("  %3.f%%", v.viewport.ScrollPercent()*100)
	}
	return v.styles.Help.Render(help)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.viewport.Width = width
	v.viewport.Height = max(height-chrome, 1)
	if v.text != "" {
		v.refresh()
	}
}

// Entry returns the entry being shown.
func (v *View) Entry() *domain.CatalogEntry {
	return v.entry
}

// Text returns the loaded text.
func (v *View) Text() string {
	return v.text
}

// IsLoading reports whether the text is being read.
func (v *View) IsLoading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
