package view

import (
	"github.com/nfrund/instagrid/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SpacingLabel is the button caption of a spacing preset.
func SpacingLabel(s domain.GridSpacing) string {
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(string(s))
}

// fieldLabels are the captions of the profile editor inputs.
var fieldLabels = map[domain.ProfileField]string{
	domain.FieldHandle:         "Handle",
	domain.FieldDisplayName:    "Name",
	domain.FieldBio:            "Bio",
	domain.FieldExternalLink:   "Link",
	domain.FieldPostsCount:     "Posts",
	domain.FieldFollowersCount: "Followers",
	domain.FieldFollowingCount: "Following",
}
