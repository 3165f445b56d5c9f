package aifill

import (
	"fmt"
	"strings"
)

// DefaultStyle is used when the caller does not pick a style.
const DefaultStyle = "minimalist aesthetic"

// Prompt builds the image prompt for style.
func Prompt(style string) string {
	style = strings.TrimSpace(style)
	if style == "" {
		style = DefaultStyle
	}
	return fmt.Sprintf("A high-quality, professional, %s instagram photo. "+
		"Minimalist, clean composition, trending on social media. "+
		"Do not include text. Square aspect ratio.", style)
}
