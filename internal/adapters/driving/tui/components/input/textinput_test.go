package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewField(t *testing.T) {
	f := NewField(nil, "Name: ", "Team sync")

	require.NotNil(t, f)
	assert.NotNil(t, f.styles)
	assert.Equal(t, "Name: ", f.Label())
	assert.False(t, f.Focused())
	assert.Empty(t, f.Value())
}

func TestNewSearchInput(t *testing.T) {
	f := NewSearchInput(nil)

	assert.Equal(t, "Search: ", f.Label())
	assert.Contains(t, f.View(), "Search:")
}

func TestField_TypingWhenFocused(t *testing.T) {
	f := NewField(nil, "Name: ", "")
	f.Focus()

	for _, r := range "gym" {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	assert.Equal(t, "gym", f.Value())
}

func TestField_IgnoresTypingWhenBlurred(t *testing.T) {
	f := NewField(nil, "Name: ", "")

	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	assert.Empty(t, f.Value())
}

func TestField_SetValueAndReset(t *testing.T) {
	f := NewField(nil, "Venue: ", "")

	f.SetValue("Room 4")
	assert.Equal(t, "Room 4", f.Value())

	f.Reset()
	assert.Empty(t, f.Value())
}

func TestField_FocusBlur(t *testing.T) {
	f := NewField(nil, "Date: ", "")

	f.Focus()
	assert.True(t, f.Focused())

	f.Blur()
	assert.False(t, f.Focused())
}

func TestField_SetWidth(t *testing.T) {
	f := NewField(nil, "Name: ", "")

	f.SetWidth(100)
	assert.Equal(t, 100, f.Width())
	assert.Equal(t, 90, f.textinput.Width)

	f.SetWidth(5)
	assert.Equal(t, 20, f.textinput.Width, "input width has a floor")
}

func TestField_Init(t *testing.T) {
	assert.NotNil(t, NewField(nil, "", "").Init())
}
