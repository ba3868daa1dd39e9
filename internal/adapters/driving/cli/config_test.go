package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"integer", "25", 25},
		{"float", "2.5", 2.5},
		{"true", "true", true},
		{"false uppercase", "FALSE", false},
		{"url", "https://example.com", "https://example.com"},
		{"word", "google", "google"},
		{"one stays int", "1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.input))
		})
	}
}

func TestConfigSetAndGet(t *testing.T) {
	env := setupServices(t)

	out, err := execute(t, "config", "set", "fetch.message_cap", "25")
	require.NoError(t, err)
	assert.Contains(t, out, "fetch.message_cap = 25")
	assert.Equal(t, 25, env.config.data["fetch.message_cap"])

	out, err = execute(t, "config", "get", "fetch.message_cap")
	require.NoError(t, err)
	assert.Equal(t, "25\n", out)
}

func TestConfigSet_UnknownKeyNote(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "config", "set", "theme.colour", "blue")

	require.NoError(t, err)
	assert.Contains(t, out, "not a key proemail reads")
}

func TestConfigSet_RefusesSecret(t *testing.T) {
	env := setupServices(t)

	_, err := execute(t, "config", "set", "google.client_secret", "hunter2")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "set-secret")
	assert.NotContains(t, env.config.data, "google.client_secret")
}

func TestConfigGet_Missing(t *testing.T) {
	setupServices(t)

	_, err := execute(t, "config", "get", "backend.url")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestConfigGet_MasksSecret(t *testing.T) {
	env := setupServices(t)
	env.config.data["google.client_secret"] = "GOCSPX-abcdefghijkl"

	out, err := execute(t, "config", "get", "google.client_secret")

	require.NoError(t, err)
	assert.Equal(t, "GOCS...ijkl\n", out)
}

func TestConfigList(t *testing.T) {
	env := setupServices(t)
	env.config.data["backend.url"] = "http://localhost:8000"
	env.config.data["google.client_secret"] = "GOCSPX-abcdefghijkl"
	env.config.data["legacy.key"] = "x"

	out, err := execute(t, "config", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "# /tmp/proemail/config.toml")
	assert.Contains(t, out, "backend.url = http://localhost:8000")
	assert.Contains(t, out, "google.client_id = (default)")
	assert.Contains(t, out, "google.client_secret = GOCS...ijkl")
	assert.Contains(t, out, "legacy.key = x (unused)")
	assert.NotContains(t, out, "GOCSPX-abcdefghijkl")
}

func TestConfigUnset(t *testing.T) {
	env := setupServices(t)
	env.config.data["backend.url"] = "http://localhost:8000"

	out, err := execute(t, "config", "unset", "backend.url")

	require.NoError(t, err)
	assert.Contains(t, out, "Unset backend.url")
	assert.NotContains(t, env.config.data, "backend.url")
}

func TestConfigSetSecret(t *testing.T) {
	t.Run("reads value", func(t *testing.T) {
		env := setupServices(t)
		withStdin(t, "GOCSPX-secret\n")

		out, err := execute(t, "config", "set-secret", "google.client_secret")

		require.NoError(t, err)
		assert.Equal(t, "GOCSPX-secret", env.config.data["google.client_secret"])
		assert.Contains(t, out, "Saved google.client_secret")
		assert.NotContains(t, out, "GOCSPX-secret")
	})

	t.Run("empty input", func(t *testing.T) {
		setupServices(t)
		withStdin(t, "\n")

		_, err := execute(t, "config", "set-secret", "google.client_secret")

		assert.Error(t, err)
	})
}

func TestConfigCmd_NotConfigured(t *testing.T) {
	setupServices(t)
	configStore = nil

	_, err := execute(t, "config", "list")

	assert.Error(t, err)
}
