package cli

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
}

func TestDefaultTheme_ColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()
	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Primary, theme.Success, theme.Warning, theme.Error} {
		assert.False(t, seen[c], "duplicate colour: %s", c)
		seen[c] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	assert.NotNil(t, NewStyles(nil, true))
}

func TestStyles_PlainWhenNotTerminal(t *testing.T) {
	st := stylesFor(new(bytes.Buffer))

	assert.Equal(t, "Summary", st.Render(st.Title, "Summary"))
	assert.Equal(t, "  Places: 3", st.Row("Places", "3"))
}

func TestStyles_RowWithColour(t *testing.T) {
	st := NewStyles(DefaultTheme(), true)

	row := st.Row("Places", "3")
	assert.Contains(t, row, "Places:")
	assert.Contains(t, row, "3")
}
