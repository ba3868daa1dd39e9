package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCmd(t *testing.T) {
	t.Run("requires path", func(t *testing.T) {
		setupServices(t)

		_, err := execute(t, "export")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--ics")
	})

	t.Run("writes file with extension", func(t *testing.T) {
		env := setupServices(t)
		target := filepath.Join(t.TempDir(), "events")

		out, err := execute(t, "export", "--ics", target)

		require.NoError(t, err)
		data, readErr := os.ReadFile(target + ".ics")
		require.NoError(t, readErr)
		assert.Equal(t, "BEGIN:VCALENDAR\n", string(data))
		assert.Contains(t, out, "Exported 3 events")
		require.NotNil(t, env.exporter.exported)
		assert.Len(t, env.exporter.exported.Events, 3)
	})

	t.Run("keeps explicit extension", func(t *testing.T) {
		setupServices(t)
		target := filepath.Join(t.TempDir(), "cal.ical")

		_, err := execute(t, "export", "--ics", target)

		require.NoError(t, err)
		assert.FileExists(t, target)
	})

	t.Run("stdout", func(t *testing.T) {
		setupServices(t)

		out, err := execute(t, "export", "--ics", "-")

		require.NoError(t, err)
		assert.Equal(t, "BEGIN:VCALENDAR\n", out)
	})

	t.Run("exporter missing", func(t *testing.T) {
		setupServices(t)
		exporter = nil

		_, err := execute(t, "export", "--ics", "-")

		assert.Error(t, err)
	})
}
