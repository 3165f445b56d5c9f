package planner

import (
	"github.com/go-playground/validator/v10"
)

// requestValidator wraps the go-playground/validator library for the
// planner's request DTOs.
type requestValidator struct {
	validator *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (rv *requestValidator) Validate(i interface{}) error {
	return rv.validator.Struct(i)
}

// SpacingRequest selects a grid spacing preset.
type SpacingRequest struct {
	Spacing string `form:"spacing" validate:"required,oneof=none thin standard wide"`
}

// ProfileFieldRequest replaces one text field of the profile.
type ProfileFieldRequest struct {
	Field string `form:"field" validate:"required,oneof=handle displayName bio externalLink postsCount followersCount followingCount"`
	Value string `form:"value" validate:"max=2200"`
}

// HighlightRequest addresses one highlight slot.
type HighlightRequest struct {
	Index int `param:"index" validate:"min=0,max=4"`
}

// HighlightTitleRequest renames one highlight.
type HighlightTitleRequest struct {
	Index int    `param:"index" validate:"min=0,max=4"`
	Title string `form:"title" validate:"max=64"`
}

// AIFillRequest asks for one generated image.
type AIFillRequest struct {
	Style string `form:"style" validate:"max=200"`
}

// ModeRequest switches the visitor preview on or off.
type ModeRequest struct {
	Clean bool `form:"clean"`
}

// ExportRequest selects what to download and under which name.
type ExportRequest struct {
	Target string `query:"target" validate:"max=64"`
	Name   string `query:"name" validate:"max=128"`
}
