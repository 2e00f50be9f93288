package clock

import "time"

// Clock provides time operations that can be mocked for testing.
// Services take a Clock rather than calling time.Now directly so tests
// can control session expiry and timestamp fields.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system clock
type SystemClock struct{}

// New creates a new SystemClock
func New() *SystemClock {
	return &SystemClock{}
}

// Now returns the current time
func (c *SystemClock) Now() time.Time {
	return time.Now()
}
