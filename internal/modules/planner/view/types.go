package view

import (
	"strconv"

	"github.com/nfrund/instagrid/internal/domain"
)

// Data is the view model of the planner page. It carries the workspace
// snapshot plus the per-session presentation switches.
type Data struct {
	Snapshot domain.Snapshot

	// Clean hides interactive chrome in the preview (visitor mode).
	Clean bool

	// AIConfigured reports whether an API key is present. The button stays
	// usable without one so the user sees the configuration message.
	AIConfigured bool

	// ExportName pre-fills the download file name.
	ExportName string
}

// GridOptions tunes the grid projection.
type GridOptions struct {
	// Exporting omits remove buttons and AI badges.
	Exporting bool
}

// ResourceURL is where the browser fetches the bytes of a handle.
func ResourceURL(h domain.ResourceHandle) string {
	return "/resources/" + string(h)
}

func version(snap domain.Snapshot) string {
	return strconv.FormatUint(snap.Version, 10)
}
