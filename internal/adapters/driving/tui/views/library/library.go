// Package library provides the catalog list view for the TUI.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/livres/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// EmptyMessage is shown when the catalog has no entries.
const EmptyMessage = "The library is empty. Process a folder to add documents."

// ActionOption represents an action on a catalog entry.
type ActionOption int

const (
	ActionRead ActionOption = iota
	ActionPlay
	ActionCancel
)

var errNoLibrary = errors.New("library service not available")

// View is the catalog list view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	library driving.LibraryService

	entries      []domain.CatalogEntry
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	showingMenu  bool
	menuSelected ActionOption
	scrollOffset int
}

// NewView creates a new library view.
func NewView(s *styles.Styles, km *keymap.KeyMap, library driving.LibraryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:  s,
		keymap:  km,
		library: library,
		entries: []domain.CatalogEntry{},
		width:   80,
		height:  24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Load returns a command that reads the catalog.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.showingMenu = false
	library := v.library
	return func() tea.Msg {
		if library == nil {
			return messages.LibraryLoaded{Err: errNoLibrary}
		}
		entries, err := library.List(context.Background())
		return messages.LibraryLoaded{Entries: entries, Err: err}
	}
}

// Update handles messages for the library view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.showingMenu {
			return v.handleMenuKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.LibraryLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.entries = msg.Entries
		if v.selected >= len(v.entries) {
			v.selected = max(len(v.entries)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.entries)-1 {
			v.selected++
			v.adjustScroll()
		}
	case key.Matches(msg, v.keymap.Select):
		if len(v.entries) > 0 {
			v.showingMenu = true
			v.menuSelected = ActionRead
		}
	case key.Matches(msg, v.keymap.Play):
		if entry := v.SelectedEntry(); entry != nil {
			return v, v.play(*entry)
		}
	case key.Matches(msg, v.keymap.Reload):
		return v, v.Load()
	case key.Matches(msg, v.keymap.Process):
		return v, func() tea.Msg { return messages.BatchRequested{} }
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

func (v *View) handleMenuKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up):
		if v.menuSelected > ActionRead {
			v.menuSelected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case key.Matches(msg, v.keymap.Select):
		return v.handleMenuSelect()
	case key.Matches(msg, v.keymap.Back):
		v.showingMenu = false
	}

	return v, nil
}

func (v *View) handleMenuSelect() (*View, tea.Cmd) {
	v.showingMenu = false
	entry := v.SelectedEntry()
	if entry == nil {
		return v, nil
	}

	switch v.menuSelected {
	case ActionRead:
		e := *entry
		return v, func() tea.Msg { return messages.ReadRequested{Entry: e} }
	case ActionPlay:
		return v, v.play(*entry)
	case ActionCancel:
	}
	return v, nil
}

func (v *View) play(entry domain.CatalogEntry) tea.Cmd {
	if !entry.HasAudio() {
		v.err = fmt.Errorf("%q has no narration", entry.Title)
		return nil
	}
	return func() tea.Msg { return messages.PlayRequested{Entry: entry} }
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// Title, separator, help and padding
	return max(v.height-8, 1)
}

// View renders the library view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Library (%d)", len(v.entries))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading library..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.entries) == 0:
		b.WriteString(v.styles.Muted.Render(EmptyMessage))
	case v.showingMenu:
		b.WriteString(v.renderActionMenu())
		return b.String()
	default:
		b.WriteString(v.renderEntries())
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderEntries() string {
	var b strings.Builder
	visible := v.visibleItemCount()
	end := min(v.scrollOffset+visible, len(v.entries))
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.renderEntry(i, &v.entries[i]))
		b.WriteString("\n")
	}
	if len(v.entries) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, end, len(v.entries))))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *View) renderEntry(index int, entry *domain.CatalogEntry) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	maxTitleLen := max(v.width-24, 10)
	title := []rune(entry.Title)
	if len(title) > maxTitleLen {
		title = append(title[:maxTitleLen-3], []rune("...")...)
	}

	audio := " "
	if entry.HasAudio() {
		audio = "♪"
	}
	updated := entry.UpdatedAt.Format("2006-01-02")

	if index == v.selected {
		return v.styles.Selected.Render(
			fmt.Sprintf("%s%-*s %s  %s", indicator, maxTitleLen, string(title), audio, updated))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s ", indicator, maxTitleLen, string(title))) +
		v.styles.Narration.Render(audio) + "  " +
		v.styles.Muted.Render(updated)
}

func (v *View) renderActionMenu() string {
	var b strings.Builder

	if entry := v.SelectedEntry(); entry != nil {
		b.WriteString(v.styles.Subtitle.Render(entry.Title))
		b.WriteString("\n\n")
	}

	options := []struct {
		action ActionOption
		label  string
	}{
		{ActionRead, "Read text"},
		{ActionPlay, "Play audio"},
		{ActionCancel, "Cancel"},
	}

	var menu strings.Builder
	for _, opt := range options {
		if v.menuSelected == opt.action {
			menu.WriteString(v.styles.Selected.Render("> " + opt.label))
		} else {
			menu.WriteString(v.styles.Normal.Render("  " + opt.label))
		}
		menu.WriteString("\n")
	}
	b.WriteString(v.styles.Panel.Render(strings.TrimRight(menu.String(), "\n")))

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))
	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [a] play  [p] process  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Entries returns the loaded catalog entries.
func (v *View) Entries() []domain.CatalogEntry {
	return v.entries
}

// SelectedIndex returns the currently selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedEntry returns the currently selected entry.
func (v *View) SelectedEntry() *domain.CatalogEntry {
	if v.selected < len(v.entries) {
		return &v.entries[v.selected]
	}
	return nil
}

// IsShowingMenu reports whether the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// IsLoading reports whether the catalog is being read.
func (v *View) IsLoading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
