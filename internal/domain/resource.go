package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a package-level validator instance.
// Using a single instance is more efficient as it caches struct information.
var validatorInstance = validator.New()

func init() {
	// Register the safepath validator to prevent directory traversal attacks.
	_ = validatorInstance.RegisterValidation("safepath", validateSafePath)
}

// validateSafePath ensures the path doesn't contain any directory traversal attempts.
func validateSafePath(fl validator.FieldLevel) bool {
	path := fl.Field().String()

	if strings.Contains(path, "..") ||
		strings.Contains(path, "~") ||
		strings.HasPrefix(path, "/") ||
		strings.Contains(path, "\\") {
		return false
	}

	// Catches subtler forms like "resources/./../x".
	return path == filepath.Clean(path)
}

// Resource is the metadata kept for a live resource handle.
// The bytes live in the configured storage backend under StoragePath.
type Resource struct {
	Handle      ResourceHandle `json:"handle" validate:"required"`
	MIMEType    string         `json:"mime_type" validate:"required"`
	Size        int64          `json:"size" validate:"gte=0"`
	StoragePath string         `json:"storage_path" validate:"required,safepath"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Validate runs validation checks on the Resource using the defined tags.
func (r *Resource) Validate() error {
	return validatorInstance.Struct(r)
}
