package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()
	assert.NotNil(t, flags.Lookup("verbose"))
	assert.NotNil(t, flags.Lookup("config-dir"))
	assert.NotNil(t, flags.Lookup("ephemeral"))
}

func TestRootCmd_BootstrapReceivesOptions(t *testing.T) {
	env := setupServices(t)

	var got Options
	cleaned := false
	bootstrap = func(_ context.Context, opts Options) (*Services, func(), error) {
		got = opts
		return &Services{Dashboard: env.dashboard}, func() { cleaned = true }, nil
	}

	_, err := execute(t, "--config-dir", "/tmp/pe", "--ephemeral", "events", "summary")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/pe", got.ConfigDir)
	assert.True(t, got.Ephemeral)
	assert.False(t, got.Verbose)
	assert.Same(t, presenter, got.Presenter)
	assert.NotNil(t, got.Prompt)
	assert.True(t, cleaned)
}

func TestRootCmd_BootstrapError(t *testing.T) {
	setupServices(t)
	bootstrap = func(context.Context, Options) (*Services, func(), error) {
		return nil, nil, errors.New("database locked")
	}

	_, err := execute(t, "events", "summary")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database locked")
}

func TestRootCmd_VersionSkipsBootstrap(t *testing.T) {
	setupServices(t)
	called := false
	bootstrap = func(context.Context, Options) (*Services, func(), error) {
		called = true
		return &Services{}, nil, nil
	}

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, out, "proemail version")
}

func TestSetServices_Nil(t *testing.T) {
	env := setupServices(t)
	SetServices(nil)
	assert.Equal(t, env.dashboard, dashboard)
}

func TestRequireDashboard(t *testing.T) {
	old := dashboard
	dashboard = nil
	defer func() { dashboard = old }()

	assert.Error(t, requireDashboard())
}
