package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/partydeck/playerlink/internal/dependencies/mocks"
	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/storage/memory"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
	profile *model.PlayerProfile
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock)
	s.ctx = context.Background()

	s.profile = &model.PlayerProfile{
		ID:          "profile-1",
		GuestID:     "guest-1",
		DisplayName: "Alice",
	}
	s.Require().NoError(s.storage.SaveProfile(s.ctx, s.profile))
}

func (s *ServiceSuite) TestApplyUpdateCreatesRowLazily() {
	st, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		PointsEarned: intPtr(10),
	})
	s.Require().NoError(err)

	s.Equal(1, st.GamesPlayed)
	s.Equal(10, st.PointsEarned)
}

func (s *ServiceSuite) TestApplyUpdateIsAdditive() {
	_, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		PointsEarned: intPtr(10),
	})
	s.Require().NoError(err)

	st, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		PointsEarned: intPtr(15),
	})
	s.Require().NoError(err)

	s.Equal(25, st.PointsEarned)
	s.Equal(2, st.GamesPlayed)
}

func (s *ServiceSuite) TestApplyUpdateOnlyTouchesSuppliedFields() {
	st, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		Won: boolPtr(true),
	})
	s.Require().NoError(err)

	s.Equal(1, st.GamesWon)
	s.Zero(st.PointsEarned)
	s.Zero(st.CorrectAnswers)
	s.Zero(st.TotalResponseTimeMs)
}

func (s *ServiceSuite) TestApplyUpdateBumpsProfileAggregates() {
	_, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		PointsEarned: intPtr(30),
		Won:          boolPtr(true),
	})
	s.Require().NoError(err)

	profile, _ := s.storage.GetProfile(s.ctx, "profile-1")
	s.Equal(1, profile.TotalGamesPlayed)
	s.Equal(30, profile.TotalPointsEarned)
	s.Equal(1, profile.TotalWins)
}

func (s *ServiceSuite) TestApplyUpdateTracksBestResponseTime() {
	_, _ = s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		ResponseTimeMs: int64Ptr(900),
	})
	st, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		ResponseTimeMs: int64Ptr(700),
	})
	s.Require().NoError(err)

	s.Equal(int64(1600), st.TotalResponseTimeMs)
	s.Equal(int64(700), st.BestResponseTimeMs)
}

func (s *ServiceSuite) TestApplyUpdateSocialDeductionCounters() {
	st, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "liars-dice", &model.StatsUpdate{
		SuccessfulDeception: boolPtr(true),
		CaughtLiar:          boolPtr(true),
		VotesReceived:       intPtr(3),
		CorrectWinnerPick:   boolPtr(true),
	})
	s.Require().NoError(err)

	s.Equal(1, st.SuccessfulDeceptions)
	s.Equal(1, st.LiarsCaught)
	s.Equal(3, st.VotesReceived)
	s.Equal(1, st.CorrectWinnerPicks)
}

func (s *ServiceSuite) TestApplyUpdateAccumulatesPersonality() {
	_, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		PersonalityDeltas: map[string]int{"strategist": 2, "socialite": 1},
	})
	s.Require().NoError(err)
	_, err = s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		PersonalityDeltas: map[string]int{"socialite": 3},
	})
	s.Require().NoError(err)

	profile, _ := s.storage.GetProfile(s.ctx, "profile-1")
	s.Equal(map[string]int{"strategist": 2, "socialite": 4}, profile.PersonalityScores)
	s.Equal("socialite", profile.DominantTrait)
}

func (s *ServiceSuite) TestApplyUpdateRejectsEmptyUpdate() {
	_, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{})
	s.ErrorIs(err, model.ErrEmptyStatsUpdate)

	_, err = s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", nil)
	s.ErrorIs(err, model.ErrEmptyStatsUpdate)
}

func (s *ServiceSuite) TestApplyUpdateUnknownProfile() {
	_, err := s.service.ApplyUpdate(s.ctx, "nonexistent", "", "trivia-board", &model.StatsUpdate{
		PointsEarned: intPtr(10),
	})
	s.ErrorIs(err, model.ErrProfileNotFound)
}

func (s *ServiceSuite) TestApplyUpdateFallsBackToGuestIdentity() {
	// Stale profile id plus a valid fallback guest id still attributes
	// the update (session-loss resilience)
	st, err := s.service.ApplyUpdate(s.ctx, "stale-id", "guest-1", "trivia-board", &model.StatsUpdate{
		PointsEarned: intPtr(10),
	})
	s.Require().NoError(err)
	s.Equal(model.ProfileID("profile-1"), st.ProfileID)
}

// Badge tests

func (s *ServiceSuite) TestFirstWinBadgeAwarded() {
	_, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		Won: boolPtr(true),
	})
	s.Require().NoError(err)

	badges, _ := s.storage.ListBadgesForProfile(s.ctx, "profile-1")
	s.Require().Len(badges, 1)
	s.Equal(model.BadgeKey("first-win"), badges[0].Key)
	s.NotEmpty(badges[0].ID)
}

func (s *ServiceSuite) TestBadgeNotAwardedTwice() {
	_, _ = s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{Won: boolPtr(true)})
	_, _ = s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{Won: boolPtr(true)})

	badges, _ := s.storage.ListBadgesForProfile(s.ctx, "profile-1")
	s.Len(badges, 1)
}

func (s *ServiceSuite) TestGameScopedBadgeCarriesSlug() {
	_, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
		PerfectRound: boolPtr(true),
	})
	s.Require().NoError(err)

	badges, _ := s.storage.ListBadgesForProfile(s.ctx, "profile-1")
	s.Require().Len(badges, 1)
	s.Equal(model.BadgeKey("flawless"), badges[0].Key)
	s.Equal(model.GameSlug("trivia-board"), badges[0].GameSlug)
}

func (s *ServiceSuite) TestConcurrentUpdatesLoseNothing() {
	const n = 50

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.ApplyUpdate(s.ctx, "profile-1", "", "trivia-board", &model.StatsUpdate{
				PointsEarned: intPtr(10),
				Won:          boolPtr(true),
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	st, err := s.storage.GetGameStats(s.ctx, "profile-1", "trivia-board")
	s.Require().NoError(err)
	s.Equal(n, st.GamesPlayed)
	s.Equal(n*10, st.PointsEarned)
	s.Equal(n, st.GamesWon)

	profile, err := s.storage.GetProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	s.Equal(n, profile.TotalGamesPlayed)
	s.Equal(n*10, profile.TotalPointsEarned)
	s.Equal(n, profile.TotalWins)

	badges, err := s.storage.ListBadgesForProfile(s.ctx, "profile-1")
	s.Require().NoError(err)
	keys := make(map[model.BadgeKey]int)
	for _, b := range badges {
		keys[b.Key]++
	}
	s.Equal(1, keys["first-win"])
	s.Equal(1, keys["ten-wins"])
}
