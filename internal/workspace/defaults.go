package workspace

import "github.com/nfrund/instagrid/internal/domain"

// DefaultProfile is the account a fresh workspace starts with.
func DefaultProfile() domain.Profile {
	return domain.Profile{
		Handle:      "aavax_call",
		DisplayName: "AAVAX",
		Bio: "Entrepreneuriat\n" +
			"🎧 AAVAX CALL – Your new work place\n" +
			"💼 Formation + accompagnement + évolution\n" +
			"✨ Ambiance jeune & pro\n" +
			"📩 Postule ici 👉 : aavax.contact@gmail.com",
		ExternalLink:   "aavaxcallcenter.com/pages/recrutement",
		PostsCount:     "6",
		FollowersCount: "490",
		FollowingCount: "6",
		Highlights: []domain.Highlight{
			{ID: "1", Title: "Formation"},
			{ID: "2", Title: "Événements"},
			{ID: "3", Title: "Nos valeurs"},
			{ID: "4", Title: "FAQ"},
			{ID: "5", Title: "Success"},
		},
	}
}
