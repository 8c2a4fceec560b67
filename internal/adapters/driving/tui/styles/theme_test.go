package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSepia_AccentsAreDistinct(t *testing.T) {
	p := Sepia()

	accents := []lipgloss.Color{p.Accent, p.Highlight, p.Good, p.Caution, p.Bad}
	seen := make(map[lipgloss.Color]bool)
	for _, c := range accents {
		require.NotEmpty(t, string(c))
		assert.False(t, seen[c], "duplicate accent %s", c)
		seen[c] = true
	}
	assert.NotEqual(t, p.Ink, p.Faint)
}

func TestNewStyles_NilPaletteUsesSepia(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s.Palette())
	assert.Equal(t, Sepia(), s.Palette())
}

func TestNewStyles_CustomPalette(t *testing.T) {
	p := Sepia()
	p.Accent = lipgloss.Color("#FF00FF")

	s := NewStyles(p)

	assert.Same(t, p, s.Palette())
	assert.Equal(t, lipgloss.TerminalColor(p.Accent), s.Title.GetForeground())
	assert.Equal(t, lipgloss.TerminalColor(p.Accent), s.Selected.GetBackground())
	assert.Equal(t, lipgloss.TerminalColor(p.Accent), s.Panel.GetBorderTopForeground())
}

func TestStyles_Render(t *testing.T) {
	s := DefaultStyles()

	for name, style := range map[string]lipgloss.Style{
		"title":     s.Title,
		"subtitle":  s.Subtitle,
		"normal":    s.Normal,
		"muted":     s.Muted,
		"selected":  s.Selected,
		"error":     s.Error,
		"success":   s.Success,
		"warning":   s.Warning,
		"narration": s.Narration,
		"reader":    s.Reader,
		"help":      s.Help,
	} {
		assert.Contains(t, style.Render("Candide"), "Candide", name)
	}

	assert.True(t, s.Title.GetBold())
	assert.True(t, s.Selected.GetBold())
	assert.Equal(t, 2, s.Reader.GetPaddingLeft())
	assert.Contains(t, s.Panel.Render("Read text"), "Read text")
}
