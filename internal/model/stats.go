package model

import "time"

// PlayerGameStats is the per-(profile, game) aggregate row.
// Created lazily on the first update for a game slug, updated additively.
type PlayerGameStats struct {
	ProfileID ProfileID `json:"profile_id"`
	GameSlug  GameSlug  `json:"game_slug"`

	GamesPlayed  int `json:"games_played"`
	GamesWon     int `json:"games_won"`
	PointsEarned int `json:"points_earned"`

	CorrectAnswers   int `json:"correct_answers"`
	IncorrectAnswers int `json:"incorrect_answers"`
	PerfectRounds    int `json:"perfect_rounds"`

	// Response times in milliseconds
	TotalResponseTimeMs int64 `json:"total_response_time_ms"`
	BestResponseTimeMs  int64 `json:"best_response_time_ms,omitempty"`

	// Social deduction counters
	SuccessfulDeceptions int `json:"successful_deceptions"`
	LiarsCaught          int `json:"liars_caught"`
	VotesReceived        int `json:"votes_received"`
	CorrectWinnerPicks   int `json:"correct_winner_picks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fold adds other's counters into st. Used when merging guest progress
// onto an account profile; all fields are additive except best response
// time, which keeps the faster of the two.
func (st *PlayerGameStats) Fold(other *PlayerGameStats) {
	st.GamesPlayed += other.GamesPlayed
	st.GamesWon += other.GamesWon
	st.PointsEarned += other.PointsEarned
	st.CorrectAnswers += other.CorrectAnswers
	st.IncorrectAnswers += other.IncorrectAnswers
	st.PerfectRounds += other.PerfectRounds
	st.TotalResponseTimeMs += other.TotalResponseTimeMs
	if other.BestResponseTimeMs > 0 &&
		(st.BestResponseTimeMs == 0 || other.BestResponseTimeMs < st.BestResponseTimeMs) {
		st.BestResponseTimeMs = other.BestResponseTimeMs
	}
	st.SuccessfulDeceptions += other.SuccessfulDeceptions
	st.LiarsCaught += other.LiarsCaught
	st.VotesReceived += other.VotesReceived
	st.CorrectWinnerPicks += other.CorrectWinnerPicks
}

// StatsUpdate is a partial gameplay outcome. Nil fields are not modified
// server-side; the aggregation is commutative so out-of-order delivery
// cannot corrupt totals.
type StatsUpdate struct {
	PointsEarned     *int   `json:"points_earned,omitempty"`
	Won              *bool  `json:"won,omitempty"`
	CorrectAnswers   *int   `json:"correct_answers,omitempty"`
	IncorrectAnswers *int   `json:"incorrect_answers,omitempty"`
	ResponseTimeMs   *int64 `json:"response_time_ms,omitempty"`
	PerfectRound     *bool  `json:"perfect_round,omitempty"`

	SuccessfulDeception *bool `json:"successful_deception,omitempty"`
	CaughtLiar          *bool `json:"caught_liar,omitempty"`
	VotesReceived       *int  `json:"votes_received,omitempty"`
	CorrectWinnerPick   *bool `json:"correct_winner_pick,omitempty"`

	// Personality deltas accumulated onto the profile's trait scores
	PersonalityDeltas map[string]int `json:"personality_deltas,omitempty"`
}

// IsZero reports whether the update carries no recognized field
func (u *StatsUpdate) IsZero() bool {
	return u.PointsEarned == nil &&
		u.Won == nil &&
		u.CorrectAnswers == nil &&
		u.IncorrectAnswers == nil &&
		u.ResponseTimeMs == nil &&
		u.PerfectRound == nil &&
		u.SuccessfulDeception == nil &&
		u.CaughtLiar == nil &&
		u.VotesReceived == nil &&
		u.CorrectWinnerPick == nil &&
		len(u.PersonalityDeltas) == 0
}
