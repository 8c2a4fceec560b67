package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name string
		keys []string
		want []string
	}{
		{"quit", km.Quit.Keys(), []string{"q", "ctrl+c"}},
		{"help", km.Help.Keys(), []string{"?"}},
		{"back", km.Back.Keys(), []string{"esc"}},
		{"up", km.Up.Keys(), []string{"up", "k"}},
		{"down", km.Down.Keys(), []string{"down", "j"}},
		{"select", km.Select.Keys(), []string{"enter"}},
		{"process", km.Process.Keys(), []string{"p"}},
		{"reload", km.Reload.Keys(), []string{"r"}},
		{"play", km.Play.Keys(), []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.want {
				assert.Contains(t, tt.keys, k)
			}
		})
	}
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()
	assert.Len(t, help, 2)
}

func TestKeyMap_LibraryHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.LibraryHelp()
	require.Len(t, help, 5)
	assert.Equal(t, "enter", help[0].Help().Key)
}

func TestKeyMap_ReaderHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ReaderHelp()
	require.NotEmpty(t, help)
	assert.Equal(t, "esc", help[len(help)-1].Help().Key)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	groups := km.FullHelp()
	require.Len(t, groups, 3)
	for _, g := range groups {
		assert.NotEmpty(t, g)
	}
}
