package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/partydeck/playerlink/internal/api/middleware"
	"github.com/partydeck/playerlink/internal/api/request"
	"github.com/partydeck/playerlink/internal/api/response"
	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/services/auth"
	"github.com/partydeck/playerlink/internal/services/avatar"
	"github.com/partydeck/playerlink/internal/services/profile"
)

// PlayerHandler handles player identity and profile endpoints
type PlayerHandler struct {
	authService    *auth.Service
	profileService *profile.Service
	avatarService  *avatar.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service, profileService *profile.Service, avatarService *avatar.Service) *PlayerHandler {
	return &PlayerHandler{
		authService:    authService,
		profileService: profileService,
		avatarService:  avatarService,
	}
}

// CreateGuest handles POST /api/player/guest.
// The body is optional; a blank display name gets a generated fallback.
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	p, err := h.profileService.ProvisionGuest(r.Context(), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	session := h.authService.CreateGuestSession(p.GuestID)

	response.JSON(w, http.StatusOK, response.GuestProvisionFromProfile(p, session))
}

// Register handles POST /api/player/register. When the request carries a
// guest session, its guest identity is preserved on the new authenticated
// session so a later merge can reconcile it.
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Register(r.Context(), req.Username, req.Password, observedGuest(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthFromSession(session))
}

// Login handles POST /api/player/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password, observedGuest(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthFromSession(session))
}

// GetMe handles GET /api/player/me. A 404 means the session has no profile
// yet, which authenticated clients treat as "nothing to show".
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	full, err := h.fullForSession(r, session)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, full)
}

// GetProfile handles GET /api/player/profile/{id}
func (h *PlayerHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := model.ProfileID(mux.Vars(r)["id"])

	full, err := h.profileService.GetFull(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, full)
}

// UpdateAppearance handles PATCH /api/player/me/appearance
func (h *PlayerHandler) UpdateAppearance(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.UpdateAppearanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	full, err := h.fullForSession(r, session)
	if err != nil {
		WriteError(w, err)
		return
	}

	updated, err := h.profileService.UpdateAppearance(r.Context(), full.Profile.ID, req.DisplayName, req.AvatarID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated)
}

// Merge handles POST /api/player/merge. The guest identity is resolved
// from the session, never from the request body; a session with no guest
// identity left to merge is a successful no-op.
func (h *PlayerHandler) Merge(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	if !session.IsAuthenticated() {
		WriteError(w, NewUnauthorizedError())
		return
	}

	if session.GuestID == "" {
		response.JSON(w, http.StatusOK, response.Merge{Merged: false})
		return
	}

	if err := h.profileService.Merge(r.Context(), session.UserID, session.GuestID); err != nil {
		WriteError(w, err)
		return
	}

	h.authService.ClearGuestIdentity(session.Token)

	response.JSON(w, http.StatusOK, response.Merge{Merged: true})
}

// Avatars handles GET /api/player/avatars
func (h *PlayerHandler) Avatars(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Avatars{Avatars: h.avatarService.Catalog()})
}

// fullForSession resolves the session's profile, by account for
// authenticated sessions and by guest identity otherwise
func (h *PlayerHandler) fullForSession(r *http.Request, session *auth.Session) (*model.FullProfile, error) {
	if session.IsAuthenticated() {
		return h.profileService.GetFullByUser(r.Context(), session.UserID)
	}
	if session.GuestID != "" {
		return h.profileService.GetFullByGuest(r.Context(), session.GuestID)
	}
	return nil, model.ErrProfileNotFound
}

// observedGuest returns the guest identity of the request's session, if any
func observedGuest(r *http.Request) model.GuestID {
	if session := middleware.GetSession(r.Context()); session != nil {
		return session.GuestID
	}
	return ""
}
