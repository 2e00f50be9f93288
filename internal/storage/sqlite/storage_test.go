package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/partydeck/playerlink/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	store, err := Open(filepath.Join(s.T().TempDir(), "playerlink.db"))
	s.Require().NoError(err)
	s.storage = store
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

// Profile tests

func (s *StorageSuite) TestSaveAndGetProfile() {
	now := time.Now().UTC().Truncate(time.Second)
	profile := &model.PlayerProfile{
		ID:          "profile-1",
		GuestID:     "guest-1",
		DisplayName: "Alice",
		AvatarID:    "fox",
		PersonalityScores: map[string]int{
			"strategist": 3,
			"socialite":  1,
		},
		DominantTrait: "strategist",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.storage.SaveProfile(s.ctx, profile)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Equal(profile.DisplayName, retrieved.DisplayName)
	s.Equal(profile.PersonalityScores, retrieved.PersonalityScores)
	s.Equal("strategist", retrieved.DominantTrait)
	s.True(now.Equal(retrieved.CreatedAt))
}

func (s *StorageSuite) TestGetProfileNotFound() {
	_, err := s.storage.GetProfile(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestSaveProfileUpserts() {
	profile := &model.PlayerProfile{ID: "profile-1", GuestID: "guest-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	profile.DisplayName = "Alicia"
	profile.TotalWins = 2
	err := s.storage.SaveProfile(s.ctx, profile)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Equal("Alicia", retrieved.DisplayName)
	s.Equal(2, retrieved.TotalWins)
}

func (s *StorageSuite) TestGetProfileByGuestID() {
	profile := &model.PlayerProfile{ID: "profile-1", GuestID: "guest-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	retrieved, err := s.storage.GetProfileByGuestID(s.ctx, "guest-1")
	s.Require().NoError(err)
	s.Equal(model.ProfileID("profile-1"), retrieved.ID)

	// Empty guest id must never match rows with empty guest_id columns
	_, err = s.storage.GetProfileByGuestID(s.ctx, "")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestGetProfileByUserID() {
	profile := &model.PlayerProfile{ID: "profile-1", UserID: "user-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	retrieved, err := s.storage.GetProfileByUserID(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(model.ProfileID("profile-1"), retrieved.ID)
}

func (s *StorageSuite) TestDeleteProfile() {
	profile := &model.PlayerProfile{ID: "profile-1", GuestID: "guest-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	err := s.storage.DeleteProfile(s.ctx, "profile-1")
	s.Require().NoError(err)

	_, err = s.storage.GetProfile(s.ctx, "profile-1")
	s.ErrorIs(err, model.ErrProfileNotFound)
	_, err = s.storage.GetProfileByGuestID(s.ctx, "guest-1")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	now := time.Now().UTC()
	account := &model.Account{
		UserID:       "user-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.storage.SaveAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(account.UserID, retrieved.UserID)
	s.Equal(account.PasswordHash, retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccount(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// Game stats tests

func (s *StorageSuite) TestSaveAndGetGameStats() {
	stats := &model.PlayerGameStats{
		ProfileID:            "profile-1",
		GameSlug:             "trivia-board",
		GamesPlayed:          5,
		GamesWon:             2,
		PointsEarned:         310,
		CorrectAnswers:       40,
		BestResponseTimeMs:   850,
		SuccessfulDeceptions: 1,
	}

	err := s.storage.SaveGameStats(s.ctx, stats)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGameStats(s.ctx, "profile-1", "trivia-board")
	s.Require().NoError(err)
	s.Equal(5, retrieved.GamesPlayed)
	s.Equal(310, retrieved.PointsEarned)
	s.Equal(int64(850), retrieved.BestResponseTimeMs)
}

func (s *StorageSuite) TestGetGameStatsNotFound() {
	_, err := s.storage.GetGameStats(s.ctx, "profile-1", "trivia-board")
	s.ErrorIs(err, model.ErrStatsNotFound)
}

func (s *StorageSuite) TestListGameStatsForProfile() {
	_ = s.storage.SaveGameStats(s.ctx, &model.PlayerGameStats{ProfileID: "profile-1", GameSlug: "trivia-board"})
	_ = s.storage.SaveGameStats(s.ctx, &model.PlayerGameStats{ProfileID: "profile-1", GameSlug: "liars-dice"})
	_ = s.storage.SaveGameStats(s.ctx, &model.PlayerGameStats{ProfileID: "profile-2", GameSlug: "trivia-board"})

	stats, err := s.storage.ListGameStatsForProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Require().Len(stats, 2)
	// Ordered by slug
	s.Equal(model.GameSlug("liars-dice"), stats[0].GameSlug)
	s.Equal(model.GameSlug("trivia-board"), stats[1].GameSlug)
}

func (s *StorageSuite) TestDeleteGameStatsForProfile() {
	_ = s.storage.SaveGameStats(s.ctx, &model.PlayerGameStats{ProfileID: "profile-1", GameSlug: "trivia-board"})

	err := s.storage.DeleteGameStatsForProfile(s.ctx, "profile-1")
	s.Require().NoError(err)

	stats, err := s.storage.ListGameStatsForProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Empty(stats)
}

// Badge tests

func (s *StorageSuite) TestSaveAndListBadges() {
	badge := &model.PlayerBadge{
		ID:        "badge-1",
		ProfileID: "profile-1",
		Key:       "first-win",
		GameSlug:  "trivia-board",
		Name:      "First Win",
		EarnedAt:  time.Now().UTC(),
	}

	err := s.storage.SaveBadge(s.ctx, badge)
	s.Require().NoError(err)

	badges, err := s.storage.ListBadgesForProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Require().Len(badges, 1)
	s.Equal(model.BadgeKey("first-win"), badges[0].Key)
	s.Equal(model.GameSlug("trivia-board"), badges[0].GameSlug)
}

func (s *StorageSuite) TestDeleteBadgesForProfile() {
	_ = s.storage.SaveBadge(s.ctx, &model.PlayerBadge{ID: "badge-1", ProfileID: "profile-1", Key: "first-win"})

	err := s.storage.DeleteBadgesForProfile(s.ctx, "profile-1")
	s.Require().NoError(err)

	badges, _ := s.storage.ListBadgesForProfile(s.ctx, "profile-1")
	s.Empty(badges)
}

// Avatar catalog tests

func (s *StorageSuite) TestSaveAndGetAvatarCatalog() {
	err := s.storage.SaveAvatarCatalog(s.ctx, []string{"fox", "owl", "panda"})
	s.Require().NoError(err)

	avatars, err := s.storage.GetAvatarCatalog(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"fox", "owl", "panda"}, avatars)
}

func (s *StorageSuite) TestSaveAvatarCatalogReplaces() {
	_ = s.storage.SaveAvatarCatalog(s.ctx, []string{"fox", "owl"})
	err := s.storage.SaveAvatarCatalog(s.ctx, []string{"panda"})
	s.Require().NoError(err)

	avatars, err := s.storage.GetAvatarCatalog(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"panda"}, avatars)
}
