// Package merge reconciles a cached guest identity into the player's
// account exactly once.
package merge

import (
	"context"
	"fmt"
	"sync"

	"github.com/partydeck/playerlink/internal/client"
	"github.com/partydeck/playerlink/internal/client/identity"
	"github.com/partydeck/playerlink/internal/client/invalidation"
)

// State is the coordinator's merge lifecycle state
type State int

const (
	StateIdle State = iota
	StateMerging
	StateMerged
	StateFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMerging:
		return "merging"
	case StateMerged:
		return "merged"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Coordinator drives the one-shot guest merge. Evaluate may be called on
// every auth-state change or render tick; it issues at most one merge
// request per identity. The persisted merged flag makes the merged state
// terminal across restarts, and an in-process guard keeps concurrent
// evaluations from racing.
type Coordinator struct {
	api *client.Client
	ids identity.Store
	bus *invalidation.Bus

	mu        sync.Mutex
	state     State
	succeeded bool
}

// NewCoordinator creates a merge coordinator
func NewCoordinator(api *client.Client, ids identity.Store, bus *invalidation.Bus) *Coordinator {
	return &Coordinator{
		api: api,
		ids: ids,
		bus: bus,
	}
}

// State returns the coordinator's current state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Evaluate issues a merge request when all preconditions hold: the
// persisted merged flag is unset, the player is authenticated, a guest
// identity is cached, no merge is in flight and none has succeeded this
// run. It returns whether a merge completed. The identity store is
// consulted fresh on every call, so state persisted by other components
// (or earlier runs) is honored.
func (c *Coordinator) Evaluate(ctx context.Context, authenticated bool) (bool, error) {
	c.mu.Lock()
	if c.state == StateMerging || c.succeeded || c.state == StateMerged {
		c.mu.Unlock()
		return false, nil
	}
	if c.ids.Merged() {
		c.state = StateMerged
		c.mu.Unlock()
		return false, nil
	}
	guestID, ok := c.ids.GuestID()
	if !authenticated || !ok || guestID == "" {
		c.mu.Unlock()
		return false, nil
	}
	c.state = StateMerging
	c.mu.Unlock()

	err := c.api.Post(ctx, "/api/player/merge", nil, nil)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Identifiers stay intact so the next Evaluate can retry
		c.state = StateFailed
		return false, fmt.Errorf("merge request: %w", err)
	}

	c.ids.SetMerged()
	c.ids.ClearGuestID()
	c.ids.ClearProfileID()

	c.bus.Invalidate(invalidation.KeyMe)
	c.bus.Invalidate(invalidation.KeyGuest)

	c.state = StateMerged
	c.succeeded = true
	return true, nil
}
