// Package mockup holds the fixed chrome of the profile mockup shared by the
// HTML preview and the PNG rasteriser.
package mockup

// Export targets. A target names the region of the mockup to capture.
const (
	TargetComposite = "instagram-feed-preview"
	TargetGrid      = "inner-grid"
)

// Targets lists every known export target.
var Targets = []string{TargetComposite, TargetGrid}

// KnownTarget reports whether t names a capturable region.
func KnownTarget(t string) bool {
	return t == TargetComposite || t == TargetGrid
}

// Width is the mockup width in CSS pixels (Tailwind max-w-md).
const Width = 448

// ExportScale is the pixel density of exported images.
const ExportScale = 2

// Static copy rendered in the mockup.
var (
	StatLabels   = [3]string{"publications", "followers", "suivi(e)s"}
	ActionLabels = [3]string{"Suivi(e)", "Écrire", "Adresse e-mail"}
)

const (
	EmptyGridText = "No images uploaded yet."
	GridHint      = "Grid items set to 4:5 (1080x1350) aspect ratio."
	AIBadgeText   = "AI"
	ClearConfirm  = "Are you sure you want to clear the grid?"
)
