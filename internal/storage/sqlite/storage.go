package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database at the given path and applies
// the schema. Use ":memory:" for an ephemeral database.
func Open(path string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent access
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeScores(scores map[string]int) (string, error) {
	if scores == nil {
		return "", nil
	}
	data, err := json.Marshal(scores)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeScores(v string) (map[string]int, error) {
	if v == "" {
		return nil, nil
	}
	var scores map[string]int
	if err := json.Unmarshal([]byte(v), &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.PlayerProfile) error {
	scores, err := encodeScores(profile.PersonalityScores)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (
			id, guest_id, user_id, display_name, avatar_id,
			total_games_played, total_points_earned, total_wins,
			personality_scores, dominant_trait, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			guest_id = excluded.guest_id,
			user_id = excluded.user_id,
			display_name = excluded.display_name,
			avatar_id = excluded.avatar_id,
			total_games_played = excluded.total_games_played,
			total_points_earned = excluded.total_points_earned,
			total_wins = excluded.total_wins,
			personality_scores = excluded.personality_scores,
			dominant_trait = excluded.dominant_trait,
			updated_at = excluded.updated_at`,
		string(profile.ID), string(profile.GuestID), string(profile.UserID),
		profile.DisplayName, profile.AvatarID,
		profile.TotalGamesPlayed, profile.TotalPointsEarned, profile.TotalWins,
		scores, profile.DominantTrait,
		encodeTime(profile.CreatedAt), encodeTime(profile.UpdatedAt),
	)
	return err
}

const profileColumns = `id, guest_id, user_id, display_name, avatar_id,
	total_games_played, total_points_earned, total_wins,
	personality_scores, dominant_trait, created_at, updated_at`

func (s *Storage) scanProfile(row *sql.Row) (*model.PlayerProfile, error) {
	var p model.PlayerProfile
	var scores, createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.GuestID, &p.UserID, &p.DisplayName, &p.AvatarID,
		&p.TotalGamesPlayed, &p.TotalPointsEarned, &p.TotalWins,
		&scores, &p.DominantTrait, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	p.PersonalityScores, err = decodeScores(scores)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = decodeTime(createdAt)
	p.UpdatedAt = decodeTime(updatedAt)
	return &p, nil
}

func (s *Storage) GetProfile(ctx context.Context, id model.ProfileID) (*model.PlayerProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, string(id))
	return s.scanProfile(row)
}

func (s *Storage) GetProfileByGuestID(ctx context.Context, guestID model.GuestID) (*model.PlayerProfile, error) {
	if guestID == "" {
		return nil, model.ErrProfileNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE guest_id = ?`, string(guestID))
	return s.scanProfile(row)
}

func (s *Storage) GetProfileByUserID(ctx context.Context, userID model.UserID) (*model.PlayerProfile, error) {
	if userID == "" {
		return nil, model.ErrProfileNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, string(userID))
	return s.scanProfile(row)
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, string(id))
	return err
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (user_id, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at`,
		string(account.UserID), account.Username, account.PasswordHash,
		encodeTime(account.CreatedAt), encodeTime(account.UpdatedAt),
	)
	return err
}

func (s *Storage) scanAccount(row *sql.Row) (*model.Account, error) {
	var a model.Account
	var createdAt, updatedAt string

	err := row.Scan(&a.UserID, &a.Username, &a.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	a.CreatedAt = decodeTime(createdAt)
	a.UpdatedAt = decodeTime(updatedAt)
	return &a, nil
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, password_hash, created_at, updated_at
		 FROM accounts WHERE user_id = ?`, string(userID))
	return s.scanAccount(row)
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, username, password_hash, created_at, updated_at
		 FROM accounts WHERE username = ?`, username)
	return s.scanAccount(row)
}

// Game stats operations

func (s *Storage) SaveGameStats(ctx context.Context, stats *model.PlayerGameStats) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_stats (
			profile_id, game_slug, games_played, games_won, points_earned,
			correct_answers, incorrect_answers, perfect_rounds,
			total_response_time_ms, best_response_time_ms,
			successful_deceptions, liars_caught, votes_received, correct_winner_picks,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(profile_id, game_slug) DO UPDATE SET
			games_played = excluded.games_played,
			games_won = excluded.games_won,
			points_earned = excluded.points_earned,
			correct_answers = excluded.correct_answers,
			incorrect_answers = excluded.incorrect_answers,
			perfect_rounds = excluded.perfect_rounds,
			total_response_time_ms = excluded.total_response_time_ms,
			best_response_time_ms = excluded.best_response_time_ms,
			successful_deceptions = excluded.successful_deceptions,
			liars_caught = excluded.liars_caught,
			votes_received = excluded.votes_received,
			correct_winner_picks = excluded.correct_winner_picks,
			updated_at = excluded.updated_at`,
		string(stats.ProfileID), string(stats.GameSlug),
		stats.GamesPlayed, stats.GamesWon, stats.PointsEarned,
		stats.CorrectAnswers, stats.IncorrectAnswers, stats.PerfectRounds,
		stats.TotalResponseTimeMs, stats.BestResponseTimeMs,
		stats.SuccessfulDeceptions, stats.LiarsCaught,
		stats.VotesReceived, stats.CorrectWinnerPicks,
		encodeTime(stats.CreatedAt), encodeTime(stats.UpdatedAt),
	)
	return err
}

const statsColumns = `profile_id, game_slug, games_played, games_won, points_earned,
	correct_answers, incorrect_answers, perfect_rounds,
	total_response_time_ms, best_response_time_ms,
	successful_deceptions, liars_caught, votes_received, correct_winner_picks,
	created_at, updated_at`

type statsScanner interface {
	Scan(dest ...any) error
}

func scanGameStats(row statsScanner) (*model.PlayerGameStats, error) {
	var st model.PlayerGameStats
	var createdAt, updatedAt string

	err := row.Scan(
		&st.ProfileID, &st.GameSlug, &st.GamesPlayed, &st.GamesWon, &st.PointsEarned,
		&st.CorrectAnswers, &st.IncorrectAnswers, &st.PerfectRounds,
		&st.TotalResponseTimeMs, &st.BestResponseTimeMs,
		&st.SuccessfulDeceptions, &st.LiarsCaught,
		&st.VotesReceived, &st.CorrectWinnerPicks,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	st.CreatedAt = decodeTime(createdAt)
	st.UpdatedAt = decodeTime(updatedAt)
	return &st, nil
}

func (s *Storage) GetGameStats(ctx context.Context, profileID model.ProfileID, slug model.GameSlug) (*model.PlayerGameStats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+statsColumns+` FROM game_stats WHERE profile_id = ? AND game_slug = ?`,
		string(profileID), string(slug))

	stats, err := scanGameStats(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}
	return stats, nil
}

func (s *Storage) ListGameStatsForProfile(ctx context.Context, profileID model.ProfileID) ([]*model.PlayerGameStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+statsColumns+` FROM game_stats WHERE profile_id = ? ORDER BY game_slug`,
		string(profileID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.PlayerGameStats
	for rows.Next() {
		stats, err := scanGameStats(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, stats)
	}
	return result, rows.Err()
}

func (s *Storage) DeleteGameStatsForProfile(ctx context.Context, profileID model.ProfileID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM game_stats WHERE profile_id = ?`, string(profileID))
	return err
}

// Badge operations

func (s *Storage) SaveBadge(ctx context.Context, badge *model.PlayerBadge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO badges (id, profile_id, badge_key, game_slug, name, description, icon, earned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(badge.ID), string(badge.ProfileID), string(badge.Key),
		string(badge.GameSlug), badge.Name, badge.Description, badge.Icon,
		encodeTime(badge.EarnedAt),
	)
	return err
}

func (s *Storage) ListBadgesForProfile(ctx context.Context, profileID model.ProfileID) ([]*model.PlayerBadge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, badge_key, game_slug, name, description, icon, earned_at
		FROM badges WHERE profile_id = ? ORDER BY earned_at, id`,
		string(profileID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*model.PlayerBadge
	for rows.Next() {
		var b model.PlayerBadge
		var earnedAt string
		if err := rows.Scan(&b.ID, &b.ProfileID, &b.Key, &b.GameSlug,
			&b.Name, &b.Description, &b.Icon, &earnedAt); err != nil {
			return nil, err
		}
		b.EarnedAt = decodeTime(earnedAt)
		result = append(result, &b)
	}
	return result, rows.Err()
}

func (s *Storage) DeleteBadgesForProfile(ctx context.Context, profileID model.ProfileID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM badges WHERE profile_id = ?`, string(profileID))
	return err
}

// Avatar catalog operations

func (s *Storage) GetAvatarCatalog(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT avatar_id FROM avatar_catalog ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	avatars := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		avatars = append(avatars, id)
	}
	return avatars, rows.Err()
}

func (s *Storage) SaveAvatarCatalog(ctx context.Context, avatars []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM avatar_catalog`); err != nil {
		return err
	}
	for i, id := range avatars {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO avatar_catalog (position, avatar_id) VALUES (?, ?)`, i, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
