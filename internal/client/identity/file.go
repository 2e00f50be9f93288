package identity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// fileState is the on-disk layout
type fileState struct {
	GuestID   string `json:"guest_id,omitempty"`
	ProfileID string `json:"profile_id,omitempty"`
	Merged    bool   `json:"merged,omitempty"`
}

// FileStore persists identity slots to a JSON file. Every accessor reads
// the file fresh so coordinators always observe the persisted state, not
// a stale in-process copy. I/O errors are swallowed per the Store
// contract.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a file-backed identity store at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the conventional identity file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".playerlink", "identity.json")
	}
	return filepath.Join(home, ".playerlink", "identity.json")
}

func (s *FileStore) GuestID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.read()
	return st.GuestID, st.GuestID != ""
}

func (s *FileStore) SetGuestID(id string) {
	s.update(func(st *fileState) { st.GuestID = id })
}

func (s *FileStore) ClearGuestID() {
	s.update(func(st *fileState) { st.GuestID = "" })
}

func (s *FileStore) ProfileID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.read()
	return st.ProfileID, st.ProfileID != ""
}

func (s *FileStore) SetProfileID(id string) {
	s.update(func(st *fileState) { st.ProfileID = id })
}

func (s *FileStore) ClearProfileID() {
	s.update(func(st *fileState) { st.ProfileID = "" })
}

func (s *FileStore) Merged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read().Merged
}

func (s *FileStore) SetMerged() {
	s.update(func(st *fileState) { st.Merged = true })
}

func (s *FileStore) ClearMerged() {
	s.update(func(st *fileState) { st.Merged = false })
}

// read loads the current state, returning the zero state on any error
func (s *FileStore) read() fileState {
	var st fileState
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fileState{}
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return fileState{}
	}
	return st
}

// update applies a mutation read-modify-write under the lock, dropping
// the write on any error
func (s *FileStore) update(fn func(*fileState)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.read()
	fn(&st)

	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0600)
}
