package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// recordingPresenter records calls for relay tests.
type recordingPresenter struct {
	calls []string
}

func (r *recordingPresenter) Render(domain.EventView) { r.calls = append(r.calls, "render") }
func (r *recordingPresenter) Warn(msg string)         { r.calls = append(r.calls, "warn:"+msg) }
func (r *recordingPresenter) ShowLoggedIn(e string)   { r.calls = append(r.calls, "in:"+e) }
func (r *recordingPresenter) ShowLoggedOut()          { r.calls = append(r.calls, "out") }

func TestRelay_ForwardsToTarget(t *testing.T) {
	rec := &recordingPresenter{}
	relay := NewRelay(rec)

	relay.Render(domain.EventView{})
	relay.Warn("slow")
	relay.ShowLoggedIn("ada@example.com")
	relay.ShowLoggedOut()

	assert.Equal(t, []string{"render", "warn:slow", "in:ada@example.com", "out"}, rec.calls)
}

func TestRelay_SetTargetReturnsPrevious(t *testing.T) {
	first := &recordingPresenter{}
	second := &recordingPresenter{}
	relay := NewRelay(first)

	prev := relay.SetTarget(second)
	relay.Warn("x")

	assert.Same(t, first, prev)
	assert.Empty(t, first.calls)
	assert.Len(t, second.calls, 1)
}

func TestRelay_NilTargetDiscards(t *testing.T) {
	relay := NewRelay(nil)
	assert.NotPanics(t, func() {
		relay.Render(domain.EventView{})
		relay.Warn("x")
		relay.ShowLoggedIn("a")
		relay.ShowLoggedOut()
	})
}

func TestTablePresenter_Render(t *testing.T) {
	out := new(bytes.Buffer)
	p := NewTablePresenter(out, out)

	p.Render(*sampleView())

	text := out.String()
	assert.Contains(t, text, "3 events · 0 this week · 1 completed · 1 missed · 1 upcoming · 30 attendees")
	assert.Contains(t, text, "KEY")
	assert.Contains(t, text, "9b2f6c1e")
	assert.NotContains(t, text, "9b2f6c1e-0d4a")
	assert.Contains(t, text, "Gym (custom)")
	assert.Contains(t, text, "missed")
	assert.Contains(t, text, "Hall 1")
}

func TestTablePresenter_RenderEmptyWithQuery(t *testing.T) {
	out := new(bytes.Buffer)
	p := NewTablePresenter(out, out)

	p.Render(domain.EventView{Query: "yoga"})

	assert.Contains(t, out.String(), `Matching "yoga"`)
	assert.Contains(t, out.String(), "No events.")
}

func TestTablePresenter_Messages(t *testing.T) {
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	p := NewTablePresenter(out, errOut)

	p.Warn("backend unreachable")
	p.ShowLoggedIn("ada@example.com")
	p.ShowLoggedOut()

	assert.Contains(t, errOut.String(), "warning: backend unreachable")
	assert.Contains(t, out.String(), "Signed in as ada@example.com")
	assert.Contains(t, out.String(), "proemail login")
}

func TestShortKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"uuid", "9b2f6c1e-0d4a-4c55-8a43-6b1f7e2d9c10", "9b2f6c1e"},
		{"name key", "Quarterly-review", "Quarterly-review"},
		{"short", "c1", "c1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortKey(tt.key))
		})
	}
}

func TestDash(t *testing.T) {
	assert.Equal(t, "-", dash("  "))
	assert.Equal(t, "x", dash("x"))
}
