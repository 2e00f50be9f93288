package factory

import (
	"time"

	"github.com/partydeck/playerlink/internal/dependencies/mocks"
	"github.com/partydeck/playerlink/internal/services/auth"
	"github.com/partydeck/playerlink/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, auth.DefaultConfig())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}
