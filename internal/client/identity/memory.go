package identity

import "sync"

// MemoryStore is an in-memory identity store for tests and ephemeral
// sessions
type MemoryStore struct {
	mu        sync.Mutex
	guestID   string
	profileID string
	merged    bool
}

// NewMemoryStore creates an empty in-memory identity store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) GuestID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guestID, s.guestID != ""
}

func (s *MemoryStore) SetGuestID(id string) {
	s.mu.Lock()
	s.guestID = id
	s.mu.Unlock()
}

func (s *MemoryStore) ClearGuestID() {
	s.mu.Lock()
	s.guestID = ""
	s.mu.Unlock()
}

func (s *MemoryStore) ProfileID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileID, s.profileID != ""
}

func (s *MemoryStore) SetProfileID(id string) {
	s.mu.Lock()
	s.profileID = id
	s.mu.Unlock()
}

func (s *MemoryStore) ClearProfileID() {
	s.mu.Lock()
	s.profileID = ""
	s.mu.Unlock()
}

func (s *MemoryStore) Merged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.merged
}

func (s *MemoryStore) SetMerged() {
	s.mu.Lock()
	s.merged = true
	s.mu.Unlock()
}

func (s *MemoryStore) ClearMerged() {
	s.mu.Lock()
	s.merged = false
	s.mu.Unlock()
}

// UnavailableStore models a backing store that cannot be reached: reads
// report absent and writes vanish. Tests use it to check the degraded
// path stays functional.
type UnavailableStore struct{}

func (UnavailableStore) GuestID() (string, bool)   { return "", false }
func (UnavailableStore) SetGuestID(string)         {}
func (UnavailableStore) ClearGuestID()             {}
func (UnavailableStore) ProfileID() (string, bool) { return "", false }
func (UnavailableStore) SetProfileID(string)       {}
func (UnavailableStore) ClearProfileID()           {}
func (UnavailableStore) Merged() bool              { return false }
func (UnavailableStore) SetMerged()                {}
func (UnavailableStore) ClearMerged()              {}
