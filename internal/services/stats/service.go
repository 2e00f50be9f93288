package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/partydeck/playerlink/internal/dependencies/clock"
	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/storage"
)

// Service applies gameplay outcomes to profiles. Updates are additive
// and commutative, so delivery order does not affect totals.
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	// Application is serialized per profile: the read-modify-write of the
	// aggregate rows must not interleave for the same profile.
	mu    sync.Mutex
	locks map[model.ProfileID]*sync.Mutex
}

// New creates a new stats service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		locks:   make(map[model.ProfileID]*sync.Mutex),
	}
}

// lockProfile acquires the per-profile application lock and returns its
// release function
func (s *Service) lockProfile(id model.ProfileID) func() {
	s.mu.Lock()
	m, ok := s.locks[id]
	if !ok {
		m = &sync.Mutex{}
		s.locks[id] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// ApplyUpdate records a gameplay outcome against a profile. The profile is
// resolved by id; when that fails and a fallback guest id is supplied, the
// update is attributed via the guest identity instead (covers a server-side
// session expiring mid-game). Nil fields in the update leave their counters
// untouched.
func (s *Service) ApplyUpdate(
	ctx context.Context,
	profileID model.ProfileID,
	fallbackGuest model.GuestID,
	slug model.GameSlug,
	update *model.StatsUpdate,
) (*model.PlayerGameStats, error) {
	if update == nil || update.IsZero() {
		return nil, model.ErrEmptyStatsUpdate
	}

	profile, err := s.resolveProfile(ctx, profileID, fallbackGuest)
	if err != nil {
		return nil, err
	}

	unlock := s.lockProfile(profile.ID)
	defer unlock()

	// Re-read under the lock so this application folds into the latest
	// committed aggregates
	profile, err = s.storage.GetProfile(ctx, profile.ID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	gameStats, err := s.storage.GetGameStats(ctx, profile.ID, slug)
	if errors.Is(err, model.ErrStatsNotFound) {
		gameStats = &model.PlayerGameStats{
			ProfileID: profile.ID,
			GameSlug:  slug,
			CreatedAt: now,
		}
	} else if err != nil {
		return nil, err
	}

	applyToGameStats(gameStats, update)
	gameStats.UpdatedAt = now

	applyToProfile(profile, update)
	profile.UpdatedAt = now

	if err := s.storage.SaveGameStats(ctx, gameStats); err != nil {
		return nil, fmt.Errorf("save game stats: %w", err)
	}
	if err := s.storage.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	if err := s.awardBadges(ctx, profile, gameStats, now); err != nil {
		return nil, err
	}

	return gameStats, nil
}

// resolveProfile finds the owning profile, preferring the explicit id and
// falling back to the guest identity
func (s *Service) resolveProfile(ctx context.Context, profileID model.ProfileID, fallbackGuest model.GuestID) (*model.PlayerProfile, error) {
	if profileID != "" {
		profile, err := s.storage.GetProfile(ctx, profileID)
		if err == nil {
			return profile, nil
		}
		if !errors.Is(err, model.ErrProfileNotFound) {
			return nil, err
		}
	}

	if fallbackGuest != "" {
		return s.storage.GetProfileByGuestID(ctx, fallbackGuest)
	}

	return nil, model.ErrProfileNotFound
}

// applyToGameStats folds an update into a per-game row
func applyToGameStats(st *model.PlayerGameStats, u *model.StatsUpdate) {
	st.GamesPlayed++
	if u.PointsEarned != nil {
		st.PointsEarned += *u.PointsEarned
	}
	if u.Won != nil && *u.Won {
		st.GamesWon++
	}
	if u.CorrectAnswers != nil {
		st.CorrectAnswers += *u.CorrectAnswers
	}
	if u.IncorrectAnswers != nil {
		st.IncorrectAnswers += *u.IncorrectAnswers
	}
	if u.ResponseTimeMs != nil {
		st.TotalResponseTimeMs += *u.ResponseTimeMs
		if st.BestResponseTimeMs == 0 || *u.ResponseTimeMs < st.BestResponseTimeMs {
			st.BestResponseTimeMs = *u.ResponseTimeMs
		}
	}
	if u.PerfectRound != nil && *u.PerfectRound {
		st.PerfectRounds++
	}
	if u.SuccessfulDeception != nil && *u.SuccessfulDeception {
		st.SuccessfulDeceptions++
	}
	if u.CaughtLiar != nil && *u.CaughtLiar {
		st.LiarsCaught++
	}
	if u.VotesReceived != nil {
		st.VotesReceived += *u.VotesReceived
	}
	if u.CorrectWinnerPick != nil && *u.CorrectWinnerPick {
		st.CorrectWinnerPicks++
	}
}

// applyToProfile bumps the profile-level aggregates and personality scores
func applyToProfile(p *model.PlayerProfile, u *model.StatsUpdate) {
	p.TotalGamesPlayed++
	if u.PointsEarned != nil {
		p.TotalPointsEarned += *u.PointsEarned
	}
	if u.Won != nil && *u.Won {
		p.TotalWins++
	}
	if len(u.PersonalityDeltas) > 0 {
		if p.PersonalityScores == nil {
			p.PersonalityScores = make(map[string]int, len(u.PersonalityDeltas))
		}
		for trait, delta := range u.PersonalityDeltas {
			p.PersonalityScores[trait] += delta
		}
		p.DominantTrait = model.DominantTrait(p.PersonalityScores)
	}
}

// awardBadges grants any badge whose threshold the profile just crossed
func (s *Service) awardBadges(ctx context.Context, p *model.PlayerProfile, st *model.PlayerGameStats, now time.Time) error {
	earned, err := s.storage.ListBadgesForProfile(ctx, p.ID)
	if err != nil {
		return err
	}

	held := make(map[model.BadgeKey]struct{}, len(earned))
	for _, b := range earned {
		held[b.Key] = struct{}{}
	}

	for _, def := range badgeDefs {
		if _, ok := held[def.Key]; ok {
			continue
		}
		if !def.Earned(p, st) {
			continue
		}

		badge := &model.PlayerBadge{
			ID:          model.BadgeID(uuid.NewString()),
			ProfileID:   p.ID,
			Key:         def.Key,
			GameSlug:    def.SlugFor(st),
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			EarnedAt:    now,
		}
		if err := s.storage.SaveBadge(ctx, badge); err != nil {
			return fmt.Errorf("save badge %s: %w", def.Key, err)
		}
	}
	return nil
}
