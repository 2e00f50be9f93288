package model

import "time"

// ProfileID uniquely identifies a player profile across the system
type ProfileID string

// GuestID is the server-issued token identifying an anonymous profile
// across sessions. It is distinct from the profile's own ID.
type GuestID string

// UserID identifies an authenticated account
type UserID string

// GameSlug identifies a game type (e.g. "trivia-board", "liars-dice")
type GameSlug string

// PlayerProfile is a player's identity and accumulated progress.
// Exactly one of GuestID/UserID is set: GuestID for anonymous profiles,
// UserID once the profile has been linked to an account.
type PlayerProfile struct {
	ID          ProfileID `json:"id"`
	GuestID     GuestID   `json:"guest_id,omitempty"`
	UserID      UserID    `json:"user_id,omitempty"`
	DisplayName string    `json:"display_name"`
	AvatarID    string    `json:"avatar_id,omitempty"`

	// Aggregate counters, monotonically non-decreasing.
	// Updated only by the stats service.
	TotalGamesPlayed  int `json:"total_games_played"`
	TotalPointsEarned int `json:"total_points_earned"`
	TotalWins         int `json:"total_wins"`

	// PersonalityScores is nil until the first scored event.
	PersonalityScores map[string]int `json:"personality_scores,omitempty"`
	// DominantTrait is derived from PersonalityScores and recomputed
	// whenever they change.
	DominantTrait string `json:"dominant_trait,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsGuest reports whether the profile is anonymous (not linked to an account)
func (p *PlayerProfile) IsGuest() bool {
	return p.UserID == ""
}

// DominantTrait derives the dominant personality label from trait scores:
// the highest score wins, ties break lexicographically. Returns "" for
// empty scores.
func DominantTrait(scores map[string]int) string {
	var best string
	bestScore := 0
	for trait, score := range scores {
		if best == "" || score > bestScore || (score == bestScore && trait < best) {
			best = trait
			bestScore = score
		}
	}
	return best
}

// Account holds authentication data for a registered user.
// Stored separately from the profile (password hash never travels with it).
type Account struct {
	UserID       UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullProfile is the aggregate view returned by the profile endpoints:
// base profile plus per-game stats, badges, and personality scores.
type FullProfile struct {
	Profile     PlayerProfile     `json:"profile"`
	Stats       []PlayerGameStats `json:"stats"`
	Badges      []PlayerBadge     `json:"badges"`
	Personality map[string]int    `json:"personality,omitempty"`
}
