// Package styles holds the palette and lipgloss styles of the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colours the styles are built from.
type Palette struct {
	Accent    lipgloss.Color // titles, selection, panel borders
	Highlight lipgloss.Color // section headers
	Ink       lipgloss.Color // body text
	Faint     lipgloss.Color // hints, dates, counters
	Bar       lipgloss.Color // status bar background
	Good      lipgloss.Color
	Caution   lipgloss.Color
	Bad       lipgloss.Color
}

// Sepia is the default palette: warm accents on a dark terminal.
func Sepia() *Palette {
	return &Palette{
		Accent:    lipgloss.Color("#B45309"),
		Highlight: lipgloss.Color("#0E7490"),
		Ink:       lipgloss.Color("#E7E5E4"),
		Faint:     lipgloss.Color("#78716C"),
		Bar:       lipgloss.Color("#1C1917"),
		Good:      lipgloss.Color("#84CC16"),
		Caution:   lipgloss.Color("#FACC15"),
		Bad:       lipgloss.Color("#EF4444"),
	}
}

// Styles are the rendered styles shared by every view.
type Styles struct {
	palette *Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	// Narration marks library entries that have audio.
	Narration lipgloss.Style

	// Panel frames the action menu.
	Panel lipgloss.Style

	// Reader pads document text in the reader view.
	Reader lipgloss.Style

	StatusBar lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles builds styles from p. A nil palette means Sepia.
func NewStyles(p *Palette) *Styles {
	if p == nil {
		p = Sepia()
	}

	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		palette:   p,
		Title:     fg(p.Accent).Bold(true),
		Subtitle:  fg(p.Highlight).Bold(true),
		Normal:    fg(p.Ink),
		Muted:     fg(p.Faint),
		Selected:  fg(p.Ink).Background(p.Accent).Bold(true),
		Error:     fg(p.Bad),
		Success:   fg(p.Good),
		Warning:   fg(p.Caution),
		Narration: fg(p.Highlight),
		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Reader:    fg(p.Ink).PaddingLeft(2),
		StatusBar: fg(p.Faint).Background(p.Bar).Padding(0, 1),
		Help:      fg(p.Faint),
	}
}

// DefaultStyles returns styles built from the Sepia palette.
func DefaultStyles() *Styles {
	return NewStyles(Sepia())
}

// Palette returns the palette the styles were built from.
func (s *Styles) Palette() *Palette {
	return s.palette
}
