package profile

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/partydeck/playerlink/internal/dependencies/clock"
	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/services/avatar"
	"github.com/partydeck/playerlink/internal/storage"
)

// Service manages player profiles: guest provisioning, lookup, appearance,
// and the one-time merge of guest progress onto an account profile.
type Service struct {
	storage storage.Storage
	avatars *avatar.Service
	clock   clock.Clock
}

// New creates a new profile service
func New(storage storage.Storage, avatars *avatar.Service, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		avatars: avatars,
		clock:   clock,
	}
}

// FallbackDisplayName generates a display name for a guest that supplied
// none, e.g. "Player_m1xkq3"
func (s *Service) FallbackDisplayName() string {
	return "Player_" + strconv.FormatInt(s.clock.Now().UnixMilli(), 36)
}

// ProvisionGuest creates a fresh anonymous profile with a server-issued
// guest identity. A blank display name gets a generated fallback.
func (s *Service) ProvisionGuest(ctx context.Context, displayName string) (*model.PlayerProfile, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = s.FallbackDisplayName()
	}

	now := s.clock.Now()
	profile := &model.PlayerProfile{
		ID:          model.ProfileID(generateID("p_")),
		GuestID:     model.GuestID(generateID("g_")),
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save guest profile: %w", err)
	}

	return profile, nil
}

// GetFull returns the aggregate profile view by profile id
func (s *Service) GetFull(ctx context.Context, id model.ProfileID) (*model.FullProfile, error) {
	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.assembleFull(ctx, profile)
}

// GetFullByUser returns the aggregate profile view for an authenticated user.
// ErrProfileNotFound means the user has no profile yet, which is not an
// error condition for callers.
func (s *Service) GetFullByUser(ctx context.Context, userID model.UserID) (*model.FullProfile, error) {
	profile, err := s.storage.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.assembleFull(ctx, profile)
}

// GetFullByGuest returns the aggregate profile view for a guest identity
func (s *Service) GetFullByGuest(ctx context.Context, guestID model.GuestID) (*model.FullProfile, error) {
	profile, err := s.storage.GetProfileByGuestID(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return s.assembleFull(ctx, profile)
}

func (s *Service) assembleFull(ctx context.Context, profile *model.PlayerProfile) (*model.FullProfile, error) {
	stats, err := s.storage.ListGameStatsForProfile(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list game stats: %w", err)
	}

	badges, err := s.storage.ListBadgesForProfile(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}

	full := &model.FullProfile{
		Profile:     *profile,
		Stats:       make([]model.PlayerGameStats, len(stats)),
		Badges:      make([]model.PlayerBadge, len(badges)),
		Personality: profile.PersonalityScores,
	}
	for i, st := range stats {
		full.Stats[i] = *st
	}
	for i, b := range badges {
		full.Badges[i] = *b
	}
	return full, nil
}

// UpdateAppearance changes a profile's display name and/or avatar.
// Blank arguments leave the corresponding field unchanged; avatar keys
// are validated against the catalog.
func (s *Service) UpdateAppearance(ctx context.Context, id model.ProfileID, displayName, avatarID string) (*model.PlayerProfile, error) {
	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if displayName = strings.TrimSpace(displayName); displayName != "" {
		profile.DisplayName = displayName
	}
	if avatarID != "" {
		if err := s.avatars.Validate(avatarID); err != nil {
			return nil, err
		}
		profile.AvatarID = avatarID
	}
	profile.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Merge transfers guest-accumulated progress onto the user's profile.
// It is idempotent: an unknown or already-merged guest id is a no-op
// success, so a client retrying after a partial failure is safe.
//
// When the user has no profile yet, the guest profile is adopted wholesale:
// it is relinked to the user rather than copied, preserving its id.
func (s *Service) Merge(ctx context.Context, userID model.UserID, guestID model.GuestID) error {
	if guestID == "" {
		return model.ErrGuestNotFound
	}

	guestProfile, err := s.storage.GetProfileByGuestID(ctx, guestID)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			// Already merged or expired; nothing to do
			return nil
		}
		return err
	}

	now := s.clock.Now()

	target, err := s.storage.GetProfileByUserID(ctx, userID)
	if errors.Is(err, model.ErrProfileNotFound) {
		// Adopt: the guest profile becomes the account profile
		guestProfile.UserID = userID
		guestProfile.GuestID = ""
		guestProfile.UpdatedAt = now
		return s.storage.SaveProfile(ctx, guestProfile)
	}
	if err != nil {
		return err
	}

	// Fold aggregate counters
	target.TotalGamesPlayed += guestProfile.TotalGamesPlayed
	target.TotalPointsEarned += guestProfile.TotalPointsEarned
	target.TotalWins += guestProfile.TotalWins

	// Fold personality scores and recompute the derived trait
	if len(guestProfile.PersonalityScores) > 0 {
		if target.PersonalityScores == nil {
			target.PersonalityScores = make(map[string]int, len(guestProfile.PersonalityScores))
		}
		for trait, score := range guestProfile.PersonalityScores {
			target.PersonalityScores[trait] += score
		}
		target.DominantTrait = model.DominantTrait(target.PersonalityScores)
	}
	target.UpdatedAt = now

	if err := s.mergeGameStats(ctx, guestProfile.ID, target.ID, now); err != nil {
		return err
	}
	if err := s.mergeBadges(ctx, guestProfile.ID, target.ID); err != nil {
		return err
	}

	if err := s.storage.SaveProfile(ctx, target); err != nil {
		return err
	}

	// Remove the guest profile last so a crash mid-merge leaves it
	// mergeable again rather than orphaned
	if err := s.storage.DeleteGameStatsForProfile(ctx, guestProfile.ID); err != nil {
		return err
	}
	if err := s.storage.DeleteBadgesForProfile(ctx, guestProfile.ID); err != nil {
		return err
	}
	return s.storage.DeleteProfile(ctx, guestProfile.ID)
}

// mergeGameStats folds each of the guest's per-game rows into the target's
// row for the same slug, creating target rows as needed
func (s *Service) mergeGameStats(ctx context.Context, from, to model.ProfileID, now time.Time) error {
	guestStats, err := s.storage.ListGameStatsForProfile(ctx, from)
	if err != nil {
		return fmt.Errorf("list guest stats: %w", err)
	}

	for _, gs := range guestStats {
		target, err := s.storage.GetGameStats(ctx, to, gs.GameSlug)
		if errors.Is(err, model.ErrStatsNotFound) {
			target = &model.PlayerGameStats{
				ProfileID: to,
				GameSlug:  gs.GameSlug,
				CreatedAt: now,
			}
		} else if err != nil {
			return err
		}

		target.Fold(gs)
		target.UpdatedAt = now

		if err := s.storage.SaveGameStats(ctx, target); err != nil {
			return err
		}
	}
	return nil
}

// mergeBadges reassigns the guest's badges to the target profile, skipping
// any badge the target already holds for the same key and game slug
func (s *Service) mergeBadges(ctx context.Context, from, to model.ProfileID) error {
	guestBadges, err := s.storage.ListBadgesForProfile(ctx, from)
	if err != nil {
		return fmt.Errorf("list guest badges: %w", err)
	}
	if len(guestBadges) == 0 {
		return nil
	}

	targetBadges, err := s.storage.ListBadgesForProfile(ctx, to)
	if err != nil {
		return err
	}

	type badgeIdentity struct {
		key  model.BadgeKey
		slug model.GameSlug
	}
	held := make(map[badgeIdentity]struct{}, len(targetBadges))
	for _, b := range targetBadges {
		held[badgeIdentity{b.Key, b.GameSlug}] = struct{}{}
	}

	for _, b := range guestBadges {
		if _, ok := held[badgeIdentity{b.Key, b.GameSlug}]; ok {
			continue
		}
		reassigned := *b
		reassigned.ProfileID = to
		if err := s.storage.SaveBadge(ctx, &reassigned); err != nil {
			return err
		}
	}
	return nil
}

// generateID generates a random ID with a prefix
func generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
