// Package profile resolves the player's profile on behalf of the client:
// an authenticated player's own profile, or a guest profile provisioned
// and cached on first use.
package profile

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/partydeck/playerlink/internal/api/response"
	"github.com/partydeck/playerlink/internal/client"
	"github.com/partydeck/playerlink/internal/client/identity"
	"github.com/partydeck/playerlink/internal/model"
)

// Resolver resolves the current player's profile. Guest provisioning is
// serialized: concurrent resolutions with an empty cache produce exactly
// one provisioned guest.
type Resolver struct {
	api *client.Client
	ids identity.Store

	// OnSession, when set, receives the session token issued by guest
	// provisioning so the caller can persist it
	OnSession func(token string)

	provisioning chan struct{}
}

// NewResolver creates a resolver over the given transport and identity
// store
func NewResolver(api *client.Client, ids identity.Store) *Resolver {
	r := &Resolver{
		api:          api,
		ids:          ids,
		provisioning: make(chan struct{}, 1),
	}
	r.provisioning <- struct{}{}
	return r
}

// Resolve returns the player's profile. For authenticated players a nil
// profile with nil error means the account has no profile yet. For guests
// the cached identity is used when it still resolves; a stale cache is
// cleared and a fresh guest provisioned.
func (r *Resolver) Resolve(ctx context.Context, authenticated bool, displayNameHint string) (*model.FullProfile, error) {
	if authenticated {
		var full model.FullProfile
		err := r.api.Get(ctx, "/api/player/me", &full)
		if client.IsNotFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("fetch own profile: %w", err)
		}
		return &full, nil
	}

	if id, ok := r.cachedProfileID(); ok {
		full, err := r.fetch(ctx, id)
		if err == nil {
			return full, nil
		}
		if !client.IsNotFound(err) {
			return nil, err
		}
		// The server no longer knows this profile. Both cached ids are
		// invalid together; clear them and start over.
		r.ids.ClearProfileID()
		r.ids.ClearGuestID()
	}

	return r.provision(ctx, displayNameHint)
}

// cachedProfileID returns the cached profile id only when the guest id is
// cached alongside it. A half-cached pair cannot be trusted; both slots
// are cleared so provisioning starts clean.
func (r *Resolver) cachedProfileID() (string, bool) {
	id, haveProfile := r.ids.ProfileID()
	_, haveGuest := r.ids.GuestID()
	if haveProfile && haveGuest {
		return id, true
	}
	if haveProfile || haveGuest {
		r.ids.ClearProfileID()
		r.ids.ClearGuestID()
	}
	return "", false
}

// provision creates a guest profile and caches its identity. The token
// channel serializes provisioning; a resolution that was waiting re-checks
// the cache before issuing its own request.
func (r *Resolver) provision(ctx context.Context, displayNameHint string) (*model.FullProfile, error) {
	select {
	case <-r.provisioning:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { r.provisioning <- struct{}{} }()

	if id, ok := r.cachedProfileID(); ok {
		full, err := r.fetch(ctx, id)
		if err == nil {
			return full, nil
		}
		if !client.IsNotFound(err) {
			return nil, err
		}
		r.ids.ClearProfileID()
		r.ids.ClearGuestID()
	}

	name := displayNameHint
	if name == "" {
		name = FallbackDisplayName()
	}

	var resp response.GuestProvision
	err := r.api.Post(ctx, "/api/player/guest", map[string]string{"displayName": name}, &resp)
	if err != nil {
		return nil, fmt.Errorf("provision guest: %w", err)
	}

	r.ids.SetGuestID(resp.ServerGuestID)
	r.ids.SetProfileID(resp.ID)

	r.api.SetToken(resp.SessionToken)
	if r.OnSession != nil {
		r.OnSession(resp.SessionToken)
	}

	// Fetch the provisioned profile by id. Unlike the cached-id path, a
	// failure here is a hard error: we just created this profile.
	full, err := r.fetch(ctx, resp.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch provisioned profile: %w", err)
	}
	return full, nil
}

func (r *Resolver) fetch(ctx context.Context, id string) (*model.FullProfile, error) {
	var full model.FullProfile
	if err := r.api.Get(ctx, "/api/player/profile/"+id, &full); err != nil {
		return nil, err
	}
	return &full, nil
}

// FallbackDisplayName generates a display name for guests who never chose
// one
func FallbackDisplayName() string {
	return "Player_" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
