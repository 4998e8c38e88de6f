package tui

import (
	"go/format"
	"os"
	"testing"

	"charm.land/bubbles/v2/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeysFileIsFormatted(t *testing.T) {
	src, err := os.ReadFile("keys.go")
	require.NoError(t, err)

	formatted, err := format.Source(src)
	require.NoError(t, err)
	assert.Equal(t, string(formatted), string(src))
}

func TestKeyMap_FullHelpListsEveryBinding(t *testing.T) {
	k := defaultKeyMap()

	var listed []string
	for _, row := range k.FullHelp() {
		for _, b := range row {
			listed = append(listed, b.Help().Desc)
		}
	}
	for _, b := range []key.Binding{k.Picker, k.BothSides, k.Search} {
		assert.Contains(t, listed, b.Help().Desc)
	}
	assert.Equal(t, []string{"/", "ctrl+f"}, k.Search.Keys())
}
