package request

import "github.com/partydeck/playerlink/internal/model"

// CreateGuestRequest is the request body for provisioning a guest profile.
// The display name is a hint; the server generates a fallback when it is
// blank.
type CreateGuestRequest struct {
	DisplayName string `json:"displayName,omitempty"`
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateAppearanceRequest is the request body for changing display name
// and/or avatar. Blank fields are left unchanged.
type UpdateAppearanceRequest struct {
	DisplayName string `json:"display_name,omitempty"`
	AvatarID    string `json:"avatar_id,omitempty"`
}

// RecordStatsRequest is the request body for recording a gameplay outcome.
// The update fields are embedded so clients send a flat, partial payload.
// FallbackGuestID is an ownership token: when the profile id no longer
// resolves the update is attributed via the guest identity instead.
type RecordStatsRequest struct {
	ProfileID       model.ProfileID `json:"profile_id"`
	GameSlug        model.GameSlug  `json:"game_slug"`
	FallbackGuestID model.GuestID   `json:"fallbackGuestId,omitempty"`

	model.StatsUpdate
}
