package response

import (
	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/services/auth"
)

// GuestProvision is the response for guest provisioning. Field names are
// part of the client contract; serverGuestId is the canonical guest
// identity the client must persist alongside the profile id.
type GuestProvision struct {
	ID            string `json:"id"`
	ServerGuestID string `json:"serverGuestId"`
	DisplayName   string `json:"displayName"`
	SessionToken  string `json:"sessionToken"`
}

// GuestProvisionFromProfile builds the provisioning response
func GuestProvisionFromProfile(p *model.PlayerProfile, s *auth.Session) GuestProvision {
	return GuestProvision{
		ID:            string(p.ID),
		ServerGuestID: string(p.GuestID),
		DisplayName:   p.DisplayName,
		SessionToken:  s.Token,
	}
}

// Auth is the response for register/login endpoints
type Auth struct {
	UserID       string `json:"user_id"`
	SessionToken string `json:"session_token"`
}

// AuthFromSession creates an Auth response from a session
func AuthFromSession(s *auth.Session) Auth {
	return Auth{
		UserID:       string(s.UserID),
		SessionToken: s.Token,
	}
}

// Merge is the response for a successful merge. A merge with no guest
// identity to reconcile still succeeds so clients can retry safely.
type Merge struct {
	Merged bool `json:"merged"`
}

// Avatars is the avatar catalog response
type Avatars struct {
	Avatars []string `json:"avatars"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
