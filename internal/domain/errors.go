package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common business logic failures.
var (
	ErrNotFound             = errors.New("requested resource not found")
	ErrConfigurationMissing = errors.New("image model api key is not configured")
	ErrGenerationFailed     = errors.New("image generation failed")
	ErrGenerationInProgress = errors.New("an image generation is already running")
	ErrExportTargetMissing  = errors.New("export target not found")
)

// User-facing messages shown in the workspace error line.
const (
	MsgConfigurationMissing = "API key is missing. Please configure the environment."
	MsgGenerationFailed     = "Failed to generate image. Please try again."
	MsgExportTargetMissing  = "Nothing to export: the preview is not available."
)
