// Package stats submits gameplay outcomes from the client.
package stats

import (
	"context"
	"fmt"

	"github.com/partydeck/playerlink/internal/api/request"
	"github.com/partydeck/playerlink/internal/client"
	"github.com/partydeck/playerlink/internal/client/identity"
	"github.com/partydeck/playerlink/internal/client/invalidation"
	"github.com/partydeck/playerlink/internal/model"
)

// Recorder submits partial stats payloads. The cached guest id rides
// along as an ownership token so the server can attribute the outcome
// even when the session's profile association is lost. There is no
// speculative local mutation and no retry; errors go back to the caller.
type Recorder struct {
	api *client.Client
	ids identity.Store
	bus *invalidation.Bus
}

// NewRecorder creates a stats recorder
func NewRecorder(api *client.Client, ids identity.Store, bus *invalidation.Bus) *Recorder {
	return &Recorder{
		api: api,
		ids: ids,
		bus: bus,
	}
}

// Record submits a gameplay outcome. Only the fields set in update are
// sent; on success the profile resource is invalidated so views refetch.
func (r *Recorder) Record(ctx context.Context, authenticated bool, profileID, slug string, update model.StatsUpdate) error {
	payload := request.RecordStatsRequest{
		ProfileID:   model.ProfileID(profileID),
		GameSlug:    model.GameSlug(slug),
		StatsUpdate: update,
	}
	if guestID, ok := r.ids.GuestID(); ok {
		payload.FallbackGuestID = model.GuestID(guestID)
	}

	if err := r.api.Post(ctx, "/api/player/stats", payload, nil); err != nil {
		return fmt.Errorf("record stats: %w", err)
	}

	if authenticated {
		r.bus.Invalidate(invalidation.KeyMe)
	} else {
		r.bus.Invalidate(invalidation.KeyGuest)
	}

	return nil
}
