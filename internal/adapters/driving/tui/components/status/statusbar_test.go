package status

import (
	"errors"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Empty(t, bar.Message())
}

func TestBar_View(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		message string
		count   int
		want    string
	}{
		{"ready", StateReady, "", 0, "Ready"},
		{"ready with count", StateReady, "", 3, "3 documents"},
		{"ready with message", StateReady, "2 processed", 3, "2 processed"},
		{"loading", StateLoading, "", 0, "Loading..."},
		{"processing", StateProcessing, "", 0, "Processing folder..."},
		{"reading", StateReading, "Candide", 0, "Candide"},
		{"error", StateError, "boom", 0, "Error: boom"},
		{"error without message", StateError, "", 0, "Error"},
		{"help", StateHelp, "", 0, "Help"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)
			bar.SetCount(tt.count)

			assert.Contains(t, bar.View(), tt.want)
		})
	}
}

func TestBar_ViewShowsHints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "q: quit")

	bar.SetState(StateReading)
	assert.Contains(t, bar.View(), "esc: back")
}

func TestBar_ViewFitsOnOneLine(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(80)
	bar.SetCount(12)

	view := bar.View()

	assert.NotContains(t, view, "\n")
	assert.Equal(t, 80, lipgloss.Width(view))
}

func TestBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetCount(4)

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 4, bar.Count())
}

func TestBar_UpdateIsPassive(t *testing.T) {
	bar := NewBar(nil, nil)

	got, cmd := bar.Update(errors.New("ignored"))

	assert.Same(t, bar, got)
	assert.Nil(t, cmd)
	assert.Nil(t, bar.Init())
}
