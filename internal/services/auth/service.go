package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/partydeck/playerlink/internal/dependencies/clock"
	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Session represents a client session. Guest sessions carry only a GuestID;
// authenticated sessions carry a UserID. A session created by logging in
// from a guest session keeps the observed GuestID so a merge can resolve
// the guest identity server-side instead of trusting a client-supplied value.
type Session struct {
	Token     string
	UserID    model.UserID
	GuestID   model.GuestID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsAuthenticated reports whether the session belongs to a registered account
func (s *Session) IsAuthenticated() bool {
	return s.UserID != ""
}

// Service handles authentication and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 30 * 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// CreateGuestSession creates a session bound to an anonymous guest identity
func (s *Service) CreateGuestSession(guestID model.GuestID) *Session {
	return s.createSession("", guestID)
}

// Register creates a registered account and an authenticated session.
// observedGuest is the guest identity of the session the registration came
// from, if any; it is preserved on the new session for a later merge.
func (s *Service) Register(ctx context.Context, username, password string, observedGuest model.GuestID) (*Session, error) {
	// Check if username exists
	_, err := s.storage.GetAccountByUsername(ctx, username)
	if err == nil {
		return nil, model.ErrUsernameExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, err
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID := model.UserID(generateID("u_"))
	now := s.clock.Now()

	account := &model.Account{
		UserID:       userID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	return s.createSession(userID, observedGuest), nil
}

// Login authenticates a registered account and creates a session.
// observedGuest carries over the guest identity for merge resolution.
func (s *Service) Login(ctx context.Context, username, password string, observedGuest model.GuestID) (*Session, error) {
	account, err := s.storage.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(account.UserID, observedGuest), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// ClearGuestIdentity drops the observed guest identity from a session
// (called after a successful merge so repeated merges resolve to nothing)
func (s *Service) ClearGuestIdentity(token string) {
	s.mu.Lock()
	if session, ok := s.sessions[token]; ok {
		session.GuestID = ""
	}
	s.mu.Unlock()
}

// createSession creates a new session
func (s *Service) createSession(userID model.UserID, guestID model.GuestID) *Session {
	token := generateID("sess_")
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		UserID:    userID,
		GuestID:   guestID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// generateID generates a random ID with a prefix
func generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
