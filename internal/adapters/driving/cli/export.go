package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export events to an iCalendar file",
	Long: `Writes every visible event to an .ics file that calendar apps can
import. Deleted events are left out; completed events are marked with
X-PROEMAIL-STATUS. Use '-' to write to standard output.

Example:
  proemail export --ics events.ics`,
	RunE: runExport,
}

var exportPath string

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "ics", "o", "", "output file (required, '-' for stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if err := requireDashboard(); err != nil {
		return err
	}
	if exporter == nil {
		return errors.New("exporter not configured")
	}
	if exportPath == "" {
		return errors.New("--ics is required")
	}

	view, err := dashboard.View(commandContext(cmd), time.Now())
	if err != nil {
		return fmt.Errorf("failed to build view: %w", err)
	}

	if exportPath == "-" {
		return exporter.Export(cmd.OutOrStdout(), view)
	}

	path := exportPath
	if filepath.Ext(path) == "" {
		path += "." + exporter.Extension()
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := exporter.Export(f, view); err != nil {
		f.Close()
		return fmt.Errorf("failed to export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	cmd.Printf("Exported %d events to %s\n", len(view.Events), path)
	return nil
}
