package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBar(t *testing.T) {
	b := NewBar(nil, nil)

	require.NotNil(t, b)
	assert.Equal(t, StateSignedOut, b.State())
	assert.Equal(t, 80, b.Width())
	assert.Nil(t, b.Init())
}

func TestBar_SignedOutView(t *testing.T) {
	b := NewBar(nil, nil)

	view := b.View()

	assert.Contains(t, view, "Signed out")
	assert.Contains(t, view, "login")
	assert.NotContains(t, view, "refresh")
}

func TestBar_SignedInView(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetWidth(120)

	b.SetSignedIn("ada@example.com")
	view := b.View()

	assert.Equal(t, StateReady, b.State())
	assert.Equal(t, "ada@example.com", b.Email())
	assert.Contains(t, view, "ada@example.com")
	assert.Contains(t, view, "refresh")
}

func TestBar_Messages(t *testing.T) {
	tests := []struct {
		name  string
		state State
		msg   string
		want  string
	}{
		{"busy default", StateBusy, "", "Working..."},
		{"busy custom", StateBusy, "Fetching mail...", "Fetching mail..."},
		{"warning", StateWarning, "Could not reach the backend", "Could not reach the backend"},
		{"error", StateError, "boom", "Error: boom"},
		{"ready message", StateReady, "Deleted", "Deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBar(nil, nil)
			b.SetWidth(140)
			b.SetSignedIn("ada@example.com")

			b.SetState(tt.state, tt.msg)

			assert.Equal(t, tt.state, b.State())
			assert.Equal(t, tt.msg, b.Message())
			assert.Contains(t, b.View(), tt.want)
		})
	}
}

func TestBar_SetSignedOutClearsEmail(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetSignedIn("ada@example.com")

	b.SetSignedOut()

	assert.Empty(t, b.Email())
	assert.Equal(t, StateSignedOut, b.State())
}
