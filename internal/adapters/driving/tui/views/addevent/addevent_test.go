package addevent

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proemail-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proemail-cli/internal/core/domain"
	"github.com/custodia-labs/proemail-cli/internal/core/ports/driving"
)

type mockDashboard struct {
	driving.Dashboard
	added []domain.Event
	err   error
}

func (m *mockDashboard) AddCustom(_ context.Context, e domain.Event) (domain.Event, error) {
	if m.err != nil {
		return domain.Event{}, m.err
	}
	e.ID = "new-id"
	e.Origin = domain.OriginCustom
	e.CreatedAt = time.Now()
	m.added = append(m.added, e)
	return e, nil
}

func typeText(v *View, text string) *View {
	for _, r := range text {
		v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return v
}

func press(v *View, t tea.KeyType) (*View, tea.Cmd) {
	return v.Update(tea.KeyMsg{Type: t})
}

func TestView_FillAndSubmit(t *testing.T) {
	dash := &mockDashboard{}
	v := NewView(nil, dash)
	v.Init()

	v = typeText(v, "Gym")
	v, _ = press(v, tea.KeyTab)
	v = typeText(v, "2099-01-01")
	v, _ = press(v, tea.KeyTab)
	v = typeText(v, "09:00")

	assert.Equal(t, domain.Event{Name: "Gym", Date: "2099-01-01", Time: "09:00"}, v.Event())

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	msg := cmd()

	added, ok := msg.(messages.EventAdded)
	require.True(t, ok)
	require.NoError(t, added.Err)
	assert.Equal(t, "new-id", added.Event.ID)
	require.Len(t, dash.added, 1)

	v, cmd = v.Update(msg)
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDashboard}, cmd())
	assert.Empty(t, v.Event().Name, "form is reset after saving")
}

func TestView_EnterAdvancesThenSubmits(t *testing.T) {
	dash := &mockDashboard{}
	v := NewView(nil, dash)
	v.Init()
	v = typeText(v, "Standup")

	for i := 0; i < fieldCount-1; i++ {
		v, _ = press(v, tea.KeyEnter)
	}
	assert.Equal(t, fieldAttendees, v.Focused())

	_, cmd := press(v, tea.KeyEnter)
	require.NotNil(t, cmd)
	cmd()
	require.Len(t, dash.added, 1)
	assert.Equal(t, "Standup", dash.added[0].Name)
}

func TestView_NameRequired(t *testing.T) {
	dash := &mockDashboard{}
	v := NewView(nil, dash)
	v.Init()
	v, _ = press(v, tea.KeyTab)

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Error(t, v.Err())
	assert.Equal(t, fieldName, v.Focused())
	assert.Empty(t, dash.added)
	assert.Contains(t, v.View(), "name is required")
}

func TestView_SaveErrorShown(t *testing.T) {
	dash := &mockDashboard{err: errors.New("disk full")}
	v := NewView(nil, dash)
	v.Init()
	v = typeText(v, "Gym")

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	v, next := v.Update(cmd())

	assert.Nil(t, next)
	assert.EqualError(t, v.Err(), "disk full")
	assert.Equal(t, "Gym", v.Event().Name, "values kept after a failed save")
}

func TestView_EscapeCancels(t *testing.T) {
	v := NewView(nil, &mockDashboard{})
	v.Init()
	v = typeText(v, "Gym")

	v, cmd := press(v, tea.KeyEsc)

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDashboard}, cmd())
	assert.Empty(t, v.Event().Name)
}

func TestView_FocusWraps(t *testing.T) {
	v := NewView(nil, &mockDashboard{})
	v.Init()

	v, _ = press(v, tea.KeyShiftTab)
	assert.Equal(t, fieldAttendees, v.Focused())

	v, _ = press(v, tea.KeyTab)
	assert.Equal(t, fieldName, v.Focused())
}
