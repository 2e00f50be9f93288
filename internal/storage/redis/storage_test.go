package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/partydeck/playerlink/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestProfileTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Profile tests

func (s *StorageSuite) TestSaveAndGetProfile() {
	profile := &model.PlayerProfile{
		ID:          "profile-1",
		GuestID:     "guest-1",
		DisplayName: "Alice",
		CreatedAt:   time.Now(),
	}

	err := s.storage.SaveProfile(s.ctx, profile)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Equal(profile.ID, retrieved.ID)
	s.Equal(profile.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetProfileNotFound() {
	_, err := s.storage.GetProfile(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestGuestProfileExpires() {
	profile := &model.PlayerProfile{ID: "profile-1", GuestID: "guest-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetProfile(s.ctx, "profile-1")
	s.ErrorIs(err, model.ErrProfileNotFound)
	_, err = s.storage.GetProfileByGuestID(s.ctx, "guest-1")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestLinkedProfileDoesNotExpire() {
	profile := &model.PlayerProfile{ID: "profile-1", UserID: "user-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	s.mini.FastForward(2 * time.Hour)

	retrieved, err := s.storage.GetProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), retrieved.UserID)
}

func (s *StorageSuite) TestGetProfileByGuestID() {
	profile := &model.PlayerProfile{ID: "profile-1", GuestID: "guest-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	retrieved, err := s.storage.GetProfileByGuestID(s.ctx, "guest-1")
	s.Require().NoError(err)
	s.Equal(model.ProfileID("profile-1"), retrieved.ID)
}

func (s *StorageSuite) TestGetProfileByUserID() {
	profile := &model.PlayerProfile{ID: "profile-1", UserID: "user-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	retrieved, err := s.storage.GetProfileByUserID(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(model.ProfileID("profile-1"), retrieved.ID)
}

func (s *StorageSuite) TestDeleteProfileClearsIndexes() {
	profile := &model.PlayerProfile{ID: "profile-1", GuestID: "guest-1", DisplayName: "Alice"}
	_ = s.storage.SaveProfile(s.ctx, profile)

	err := s.storage.DeleteProfile(s.ctx, "profile-1")
	s.Require().NoError(err)

	_, err = s.storage.GetProfile(s.ctx, "profile-1")
	s.ErrorIs(err, model.ErrProfileNotFound)
	_, err = s.storage.GetProfileByGuestID(s.ctx, "guest-1")
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *StorageSuite) TestDeleteMissingProfileIsNoop() {
	err := s.storage.DeleteProfile(s.ctx, "nonexistent")
	s.NoError(err)
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	account := &model.Account{
		UserID:       "user-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveAccount(s.ctx, account)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetAccountByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(account.UserID, retrieved.UserID)
	s.Equal(account.PasswordHash, retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetAccountNotFound() {
	_, err := s.storage.GetAccountByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

// Game stats tests

func (s *StorageSuite) TestSaveAndGetGameStats() {
	stats := &model.PlayerGameStats{
		ProfileID:    "profile-1",
		GameSlug:     "trivia-board",
		GamesPlayed:  2,
		PointsEarned: 40,
	}

	err := s.storage.SaveGameStats(s.ctx, stats)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGameStats(s.ctx, "profile-1", "trivia-board")
	s.Require().NoError(err)
	s.Equal(2, retrieved.GamesPlayed)
	s.Equal(40, retrieved.PointsEarned)
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
	s.Len(stats, 2)
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
		Name:      "First Win",
		EarnedAt:  time.Now(),
	}

	err := s.storage.SaveBadge(s.ctx, badge)
	s.Require().NoError(err)

	badges, err := s.storage.ListBadgesForProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Require().Len(badges, 1)
	s.Equal(model.BadgeKey("first-win"), badges[0].Key)
}

func (s *StorageSuite) TestBadgesPreserveOrder() {
	_ = s.storage.SaveBadge(s.ctx, &model.PlayerBadge{ID: "badge-1", ProfileID: "profile-1", Key: "first-win"})
	_ = s.storage.SaveBadge(s.ctx, &model.PlayerBadge{ID: "badge-2", ProfileID: "profile-1", Key: "ten-wins"})

	badges, err := s.storage.ListBadgesForProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Require().Len(badges, 2)
	s.Equal(model.BadgeKey("first-win"), badges[0].Key)
	s.Equal(model.BadgeKey("ten-wins"), badges[1].Key)
}

// Avatar catalog tests

func (s *StorageSuite) TestSaveAndGetAvatarCatalog() {
	err := s.storage.SaveAvatarCatalog(s.ctx, []string{"fox", "owl", "panda"})
	s.Require().NoError(err)

	avatars, err := s.storage.GetAvatarCatalog(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"fox", "owl", "panda"}, avatars)
}

func (s *StorageSuite) TestGetAvatarCatalogEmpty() {
	avatars, err := s.storage.GetAvatarCatalog(s.ctx)
	s.Require().NoError(err)
	s.Empty(avatars)
}
