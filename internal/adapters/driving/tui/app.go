package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/livres/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/views/library"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/livres/internal/adapters/driving/tui/views/reader"
	"github.com/custodia-labs/livres/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports

	// ctx bounds service calls made on behalf of the user.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView    *menu.View
	libraryView *library.View
	readerView  *reader.View
	statusBar   *status.Bar

	currentView messages.ViewType

	// processing is true while a batch runs.
	processing bool

	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		menuView:    menu.NewView(s, km, ports.Pipeline != nil),
		libraryView: library.NewView(s, km, ports.Library),
		readerView:  reader.NewView(s, km, ports.Library),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("livres"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.LibraryLoaded:
		a.libraryView, cmd = a.libraryView.Update(msg)
		if msg.Err == nil {
			a.statusBar.SetCount(len(msg.Entries))
			if a.statusBar.State() == status.StateLoading {
				a.statusBar.Clear()
			}
		} else {
			a.fail(msg.Err)
		}
		return a, cmd

	case messages.ReadRequested:
		a.currentView = messages.ViewReader
		a.statusBar.SetState(status.StateReading)
		a.statusBar.SetMessage(msg.Entry.Title)
		return a, a.readerView.SetEntry(msg.Entry)

	case messages.TextLoaded:
		a.readerView, cmd = a.readerView.Update(msg)
		if msg.Err != nil {
			a.fail(msg.Err)
		}
		return a, cmd

	case messages.PlayRequested:
		return a, a.play(msg.Entry)

	case messages.AudioStarted:
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, nil
		}
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage("Playing " + msg.Title)
		return a, nil

	case messages.BatchRequested:
		return a, a.runBatch()

	case messages.BatchCompleted:
		a.processing = false
		if msg.Err != nil {
			a.fail(msg.Err)
			return a, nil
		}
		a.statusBar.SetState(status.StateReady)
		a.statusBar.SetMessage(summarise(msg.Report))
		return a, a.libraryView.Load()

	case messages.ErrorOccurred:
		a.fail(msg.Err)
		a.libraryView, cmd = a.libraryView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewLibrary:
		a.libraryView, cmd = a.libraryView.Update(msg)
	case messages.ViewReader:
		a.readerView, cmd = a.readerView.Update(msg)
	case messages.ViewHelp:
		if km, ok := msg.(tea.KeyMsg); ok {
			switch km.String() {
			case "esc", "q", "?":
				return a.switchTo(messages.ViewMenu)
			}
		}
	}
	return cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	if !a.processing {
		a.statusBar.Clear()
	}
	a.err = nil

	switch view {
	case messages.ViewLibrary:
		if !a.processing {
			a.statusBar.SetState(status.StateLoading)
		}
		return a.libraryView.Load()
	case messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	case messages.ViewMenu, messages.ViewReader:
	}
	return nil
}

func (a *App) play(entry domain.CatalogEntry) tea.Cmd {
	ctx := a.ctx
	library := a.ports.Library
	return func() tea.Msg {
		err := library.OpenAudio(ctx, entry.ID)
		return messages.AudioStarted{Title: entry.Title, Err: err}
	}
}

func (a *App) runBatch() tea.Cmd {
	if a.ports.Pipeline == nil {
		a.fail(fmt.Errorf("processing is not configured"))
		return nil
	}
	if a.processing {
		return nil
	}
	a.processing = true
	a.statusBar.SetState(status.StateProcessing)

	ctx := a.ctx
	pipeline := a.ports.Pipeline
	return func() tea.Msg {
		report, err := pipeline.RunBatch(ctx)
		return messages.BatchCompleted{Report: report, Err: err}
	}
}

func (a *App) fail(err error) {
	a.err = err
	a.statusBar.SetState(status.StateError)
	a.statusBar.SetMessage(err.Error())
}

func summarise(report *domain.BatchReport) string {
	if report == nil {
		return "Nothing to process"
	}
	msg := fmt.Sprintf("%d processed", report.Succeeded())
	if n := report.Failed(); n > 0 {
		msg += fmt.Sprintf(", %d failed", n)
	}
	if n := report.Skipped(); n > 0 {
		msg += fmt.Sprintf(", %d skipped", n)
	}
	return msg
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewLibrary:
		body = a.libraryView.View()
	case messages.ViewReader:
		body = a.readerView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view from the key map.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	sections := []string{"Navigation", "Library", "General"}
	for i, group := range a.keymap.FullHelp() {
		if i < len(sections) {
			b.WriteString(a.styles.Subtitle.Render(sections[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Help.Render("[esc] back to menu"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Processing reports whether a batch is running.
func (a *App) Processing() bool {
	return a.processing
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	// One line for the status bar.
	viewHeight := max(height-1, 1)
	a.menuView.SetDimensions(width, viewHeight)
	a.libraryView.SetDimensions(width, viewHeight)
	a.readerView.SetDimensions(width, viewHeight)
	a.statusBar.SetWidth(width)
}
