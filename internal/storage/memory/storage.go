package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	profiles      map[model.ProfileID]*model.PlayerProfile
	guestIndex    map[model.GuestID]model.ProfileID
	userIndex     map[model.UserID]model.ProfileID
	accounts      map[model.UserID]*model.Account
	usernameIndex map[string]model.UserID
	gameStats     map[statsKey]*model.PlayerGameStats
	badges        map[model.ProfileID][]*model.PlayerBadge
	avatarCatalog []string
}

type statsKey struct {
	profileID model.ProfileID
	slug      model.GameSlug
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles:      make(map[model.ProfileID]*model.PlayerProfile),
		guestIndex:    make(map[model.GuestID]model.ProfileID),
		userIndex:     make(map[model.UserID]model.ProfileID),
		accounts:      make(map[model.UserID]*model.Account),
		usernameIndex: make(map[string]model.UserID),
		gameStats:     make(map[statsKey]*model.PlayerGameStats),
		badges:        make(map[model.ProfileID][]*model.PlayerBadge),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// The maps hold private copies: values are copied on save and on return so
// callers never share a pointer with the store or with each other.

func copyProfile(p *model.PlayerProfile) *model.PlayerProfile {
	c := *p
	c.PersonalityScores = maps.Clone(p.PersonalityScores)
	return &c
}

func copyGameStats(st *model.PlayerGameStats) *model.PlayerGameStats {
	c := *st
	return &c
}

func copyAccount(a *model.Account) *model.Account {
	c := *a
	return &c
}

func copyBadge(b *model.PlayerBadge) *model.PlayerBadge {
	c := *b
	return &c
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.PlayerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop a stale guest index entry if the profile's guest id changed
	if prev, ok := s.profiles[profile.ID]; ok && prev.GuestID != "" && prev.GuestID != profile.GuestID {
		delete(s.guestIndex, prev.GuestID)
	}

	s.profiles[profile.ID] = copyProfile(profile)
	if profile.GuestID != "" {
		s.guestIndex[profile.GuestID] = profile.ID
	}
	if profile.UserID != "" {
		s.userIndex[profile.UserID] = profile.ID
	}
	return nil
}

func (s *Storage) GetProfile(ctx context.Context, id model.ProfileID) (*model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return copyProfile(profile), nil
}

func (s *Storage) GetProfileByGuestID(ctx context.Context, guestID model.GuestID) (*model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.guestIndex[guestID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return copyProfile(profile), nil
}

func (s *Storage) GetProfileByUserID(ctx context.Context, userID model.UserID) (*model.PlayerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.userIndex[userID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	profile, ok := s.profiles[id]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	return copyProfile(profile), nil
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile, ok := s.profiles[id]; ok {
		if profile.GuestID != "" {
			delete(s.guestIndex, profile.GuestID)
		}
		if profile.UserID != "" {
			delete(s.userIndex, profile.UserID)
		}
	}
	delete(s.profiles, id)
	return nil
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.UserID] = copyAccount(account)
	s.usernameIndex[account.Username] = account.UserID
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[userID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	account, ok := s.accounts[userID]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

// Game stats operations

func (s *Storage) SaveGameStats(ctx context.Context, stats *model.PlayerGameStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := statsKey{profileID: stats.ProfileID, slug: stats.GameSlug}
	s.gameStats[key] = copyGameStats(stats)
	return nil
}

func (s *Storage) GetGameStats(ctx context.Context, profileID model.ProfileID, slug model.GameSlug) (*model.PlayerGameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := statsKey{profileID: profileID, slug: slug}
	stats, ok := s.gameStats[key]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	return copyGameStats(stats), nil
}

func (s *Storage) ListGameStatsForProfile(ctx context.Context, profileID model.ProfileID) ([]*model.PlayerGameStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.PlayerGameStats
	for key, stats := range s.gameStats {
		if key.profileID == profileID {
			result = append(result, copyGameStats(stats))
		}
	}
	return result, nil
}

func (s *Storage) DeleteGameStatsForProfile(ctx context.Context, profileID model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.gameStats {
		if key.profileID == profileID {
			delete(s.gameStats, key)
		}
	}
	return nil
}

// Badge operations

func (s *Storage) SaveBadge(ctx context.Context, badge *model.PlayerBadge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badges[badge.ProfileID] = append(s.badges[badge.ProfileID], copyBadge(badge))
	return nil
}

func (s *Storage) ListBadgesForProfile(ctx context.Context, profileID model.ProfileID) ([]*model.PlayerBadge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	badges := s.badges[profileID]
	result := make([]*model.PlayerBadge, 0, len(badges))
	for _, b := range badges {
		result = append(result, copyBadge(b))
	}
	return result, nil
}

func (s *Storage) DeleteBadgesForProfile(ctx context.Context, profileID model.ProfileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.badges, profileID)
	return nil
}

// Avatar catalog operations

func (s *Storage) GetAvatarCatalog(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]string, len(s.avatarCatalog))
	copy(result, s.avatarCatalog)
	return result, nil
}

func (s *Storage) SaveAvatarCatalog(ctx context.Context, avatars []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.avatarCatalog = make([]string, len(avatars))
	copy(s.avatarCatalog, avatars)
	return nil
}
