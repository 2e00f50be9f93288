package merge

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/playerlink/internal/client"
	"github.com/partydeck/playerlink/internal/client/identity"
	"github.com/partydeck/playerlink/internal/client/invalidation"
)

// mergeServer counts merge requests and can be told to fail
type mergeServer struct {
	*httptest.Server
	requests atomic.Int64
	failing  atomic.Bool
	delay    time.Duration
}

func newMergeServer(t *testing.T) *mergeServer {
	t.Helper()

	ms := &mergeServer{}
	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/player/merge" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		ms.requests.Add(1)
		if ms.delay > 0 {
			time.Sleep(ms.delay)
		}
		if ms.failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"merged":true}`))
	}))
	t.Cleanup(ms.Close)
	return ms
}

func cachedGuestStore() *identity.MemoryStore {
	ids := identity.NewMemoryStore()
	ids.SetGuestID("g_abc")
	ids.SetProfileID("p_abc")
	return ids
}

func TestEvaluateMerges(t *testing.T) {
	ms := newMergeServer(t)
	ids := cachedGuestStore()
	bus := invalidation.NewBus()

	me := bus.Subscribe(invalidation.KeyMe)
	guest := bus.Subscribe(invalidation.KeyGuest)

	c := NewCoordinator(client.New(ms.URL, "sess_auth"), ids, bus)

	merged, err := c.Evaluate(t.Context(), true)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, StateMerged, c.State())

	// The guest identity is gone, the merged flag persists, and both
	// resources were invalidated
	_, ok := ids.GuestID()
	assert.False(t, ok)
	_, ok = ids.ProfileID()
	assert.False(t, ok)
	assert.True(t, ids.Merged())

	select {
	case <-me:
	default:
		t.Fatal("expected invalidation of \"me\"")
	}
	select {
	case <-guest:
	default:
		t.Fatal("expected invalidation of \"guest\"")
	}
}

func TestEvaluateNoopWhenAlreadyMerged(t *testing.T) {
	ms := newMergeServer(t)
	ids := cachedGuestStore()
	ids.SetMerged()

	c := NewCoordinator(client.New(ms.URL, "sess_auth"), ids, invalidation.NewBus())

	merged, err := c.Evaluate(t.Context(), true)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, int64(0), ms.requests.Load())
}

func TestEvaluateRequiresAuthentication(t *testing.T) {
	ms := newMergeServer(t)
	c := NewCoordinator(client.New(ms.URL, ""), cachedGuestStore(), invalidation.NewBus())

	merged, err := c.Evaluate(t.Context(), false)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, int64(0), ms.requests.Load())
	assert.Equal(t, StateIdle, c.State())
}

func TestEvaluateRequiresGuestIdentity(t *testing.T) {
	ms := newMergeServer(t)
	c := NewCoordinator(client.New(ms.URL, "sess_auth"), identity.NewMemoryStore(), invalidation.NewBus())

	merged, err := c.Evaluate(t.Context(), true)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, int64(0), ms.requests.Load())
}

func TestEvaluateFailureKeepsIdentifiersAndRetries(t *testing.T) {
	ms := newMergeServer(t)
	ms.failing.Store(true)
	ids := cachedGuestStore()

	c := NewCoordinator(client.New(ms.URL, "sess_auth"), ids, invalidation.NewBus())

	merged, err := c.Evaluate(t.Context(), true)
	require.Error(t, err)
	assert.False(t, merged)
	assert.Equal(t, StateFailed, c.State())

	// Identifiers survive the failure
	_, ok := ids.GuestID()
	assert.True(t, ok)
	assert.False(t, ids.Merged())

	// The next evaluation retries and succeeds
	ms.failing.Store(false)
	merged, err = c.Evaluate(t.Context(), true)
	require.NoError(t, err)
	assert.True(t, merged)
	assert.Equal(t, int64(2), ms.requests.Load())
}

func TestConcurrentEvaluationsIssueOneRequest(t *testing.T) {
	ms := newMergeServer(t)
	ms.delay = 50 * time.Millisecond

	c := NewCoordinator(client.New(ms.URL, "sess_auth"), cachedGuestStore(), invalidation.NewBus())

	var wg sync.WaitGroup
	var mergedCount atomic.Int64
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			merged, err := c.Evaluate(t.Context(), true)
			assert.NoError(t, err)
			if merged {
				mergedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), ms.requests.Load())
	assert.Equal(t, int64(1), mergedCount.Load())
}

func TestMergedFlagIsTerminalAcrossRestarts(t *testing.T) {
	ms := newMergeServer(t)
	ids := cachedGuestStore()

	first := NewCoordinator(client.New(ms.URL, "sess_auth"), ids, invalidation.NewBus())
	merged, err := first.Evaluate(t.Context(), true)
	require.NoError(t, err)
	require.True(t, merged)

	// A new coordinator over the same persisted store never merges again,
	// even if a stray guest id reappears
	ids.SetGuestID("g_stray")
	second := NewCoordinator(client.New(ms.URL, "sess_auth"), ids, invalidation.NewBus())

	merged, err = second.Evaluate(t.Context(), true)
	require.NoError(t, err)
	assert.False(t, merged)
	assert.Equal(t, int64(1), ms.requests.Load())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "merging", StateMerging.String())
	assert.Equal(t, "merged", StateMerged.String())
	assert.Equal(t, "failed", StateFailed.String())
}
