package stats

import "github.com/partydeck/playerlink/internal/model"

// badgeDef describes a badge and the threshold that earns it. The earned
// badge carries a denormalized copy of this definition.
type badgeDef struct {
	Key         model.BadgeKey
	Name        string
	Description string
	Icon        string

	// GameScoped badges record the slug of the game they were earned in
	GameScoped bool

	// Earned reports whether the profile (and the game row the current
	// update landed on) now satisfies the threshold
	Earned func(p *model.PlayerProfile, st *model.PlayerGameStats) bool
}

// SlugFor returns the game slug to stamp on the earned badge
func (d badgeDef) SlugFor(st *model.PlayerGameStats) model.GameSlug {
	if d.GameScoped {
		return st.GameSlug
	}
	return ""
}

var badgeDefs = []badgeDef{
	{
		Key:         "first-win",
		Name:        "First Win",
		Description: "Win your first game",
		Icon:        "trophy",
		Earned: func(p *model.PlayerProfile, _ *model.PlayerGameStats) bool {
			return p.TotalWins >= 1
		},
	},
	{
		Key:         "ten-wins",
		Name:        "Serial Winner",
		Description: "Win ten games",
		Icon:        "crown",
		Earned: func(p *model.PlayerProfile, _ *model.PlayerGameStats) bool {
			return p.TotalWins >= 10
		},
	},
	{
		Key:         "point-collector",
		Name:        "Point Collector",
		Description: "Earn 1000 points across all games",
		Icon:        "gem",
		Earned: func(p *model.PlayerProfile, _ *model.PlayerGameStats) bool {
			return p.TotalPointsEarned >= 1000
		},
	},
	{
		Key:         "flawless",
		Name:        "Flawless",
		Description: "Finish a perfect round",
		Icon:        "sparkles",
		GameScoped:  true,
		Earned: func(_ *model.PlayerProfile, st *model.PlayerGameStats) bool {
			return st.PerfectRounds >= 1
		},
	},
	{
		Key:         "master-deceiver",
		Name:        "Master Deceiver",
		Description: "Pull off five successful deceptions",
		Icon:        "mask",
		GameScoped:  true,
		Earned: func(_ *model.PlayerProfile, st *model.PlayerGameStats) bool {
			return st.SuccessfulDeceptions >= 5
		},
	},
}
