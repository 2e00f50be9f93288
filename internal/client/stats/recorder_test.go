package stats

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partydeck/playerlink/internal/client"
	"github.com/partydeck/playerlink/internal/client/identity"
	"github.com/partydeck/playerlink/internal/client/invalidation"
	"github.com/partydeck/playerlink/internal/model"
)

// captureServer records the raw JSON bodies of stats submissions
type captureServer struct {
	*httptest.Server

	mu      sync.Mutex
	bodies  []map[string]any
	failing bool
}

func newCaptureServer(t *testing.T) *captureServer {
	t.Helper()

	cs := &captureServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)

		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))

		cs.mu.Lock()
		cs.bodies = append(cs.bodies, body)
		failing := cs.failing
		cs.mu.Unlock()

		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *captureServer) lastBody(t *testing.T) map[string]any {
	t.Helper()
	cs.mu.Lock()
	defer cs.mu.Unlock()
	require.NotEmpty(t, cs.bodies)
	return cs.bodies[len(cs.bodies)-1]
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestRecordSendsOnlySuppliedFields(t *testing.T) {
	cs := newCaptureServer(t)
	r := NewRecorder(client.New(cs.URL, "sess"), identity.NewMemoryStore(), invalidation.NewBus())

	err := r.Record(t.Context(), true, "p_abc", "trivia-board", model.StatsUpdate{
		PointsEarned: intPtr(25),
	})
	require.NoError(t, err)

	body := cs.lastBody(t)
	assert.Equal(t, "p_abc", body["profile_id"])
	assert.Equal(t, "trivia-board", body["game_slug"])
	assert.Equal(t, float64(25), body["points_earned"])

	// Absent fields are absent, not zero-valued
	assert.NotContains(t, body, "won")
	assert.NotContains(t, body, "correct_answers")
	assert.NotContains(t, body, "response_time_ms")
}

func TestRecordAttachesFallbackGuestID(t *testing.T) {
	cs := newCaptureServer(t)
	ids := identity.NewMemoryStore()
	ids.SetGuestID("g_abc")

	r := NewRecorder(client.New(cs.URL, ""), ids, invalidation.NewBus())

	// Even unauthenticated submissions carry the ownership token
	err := r.Record(t.Context(), false, "p_abc", "trivia-board", model.StatsUpdate{
		Won: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "g_abc", cs.lastBody(t)["fallbackGuestId"])
}

func TestRecordOmitsFallbackWithoutGuestID(t *testing.T) {
	cs := newCaptureServer(t)
	r := NewRecorder(client.New(cs.URL, "sess"), identity.NewMemoryStore(), invalidation.NewBus())

	err := r.Record(t.Context(), true, "p_abc", "trivia-board", model.StatsUpdate{
		Won: boolPtr(true),
	})
	require.NoError(t, err)

	assert.NotContains(t, cs.lastBody(t), "fallbackGuestId")
}

func TestRecordInvalidatesPerAuthState(t *testing.T) {
	cs := newCaptureServer(t)
	bus := invalidation.NewBus()
	me := bus.Subscribe(invalidation.KeyMe)
	guest := bus.Subscribe(invalidation.KeyGuest)

	r := NewRecorder(client.New(cs.URL, "sess"), identity.NewMemoryStore(), bus)

	require.NoError(t, r.Record(t.Context(), true, "p_abc", "trivia-board", model.StatsUpdate{Won: boolPtr(true)}))

	select {
	case <-me:
	default:
		t.Fatal("expected invalidation of \"me\"")
	}
	select {
	case <-guest:
		t.Fatal("unexpected invalidation of \"guest\"")
	default:
	}

	require.NoError(t, r.Record(t.Context(), false, "p_abc", "trivia-board", model.StatsUpdate{Won: boolPtr(true)}))

	select {
	case <-guest:
	default:
		t.Fatal("expected invalidation of \"guest\"")
	}
}

func TestRecordErrorSurfacesWithoutInvalidation(t *testing.T) {
	cs := newCaptureServer(t)
	cs.failing = true

	bus := invalidation.NewBus()
	me := bus.Subscribe(invalidation.KeyMe)

	r := NewRecorder(client.New(cs.URL, "sess"), identity.NewMemoryStore(), bus)

	err := r.Record(t.Context(), true, "p_abc", "trivia-board", model.StatsUpdate{Won: boolPtr(true)})
	require.Error(t, err)

	select {
	case <-me:
		t.Fatal("failed submission must not invalidate")
	default:
	}
}
