package model

import "time"

// BadgeID uniquely identifies an earned badge instance
type BadgeID string

// BadgeKey identifies a badge definition (e.g. "first-win")
type BadgeKey string

// PlayerBadge is an earned badge. Immutable once earned; carries a
// denormalized copy of its definition so display survives catalog changes.
type PlayerBadge struct {
	ID        BadgeID   `json:"id"`
	ProfileID ProfileID `json:"profile_id"`
	Key       BadgeKey  `json:"key"`
	GameSlug  GameSlug  `json:"game_slug,omitempty"`

	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`

	EarnedAt time.Time `json:"earned_at"`
}
