package driven

import (
	"io"

	"github.com/custodia-labs/proemail-cli/internal/core/domain"
)

// EventExporter serialises a rendered view into a calendar file format.
type EventExporter interface {
	// Export writes view to w.
	Export(w io.Writer, view *domain.EventView) error

	// Extension returns the conventional file extension, without the dot.
	Extension() string
}
