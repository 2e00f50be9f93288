package sqlite

// Schema applied on open. Text timestamps are RFC3339; personality scores
// and badge definitions are stored as JSON text.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id                  TEXT PRIMARY KEY,
	guest_id            TEXT NOT NULL DEFAULT '',
	user_id             TEXT NOT NULL DEFAULT '',
	display_name        TEXT NOT NULL,
	avatar_id           TEXT NOT NULL DEFAULT '',
	total_games_played  INTEGER NOT NULL DEFAULT 0,
	total_points_earned INTEGER NOT NULL DEFAULT 0,
	total_wins          INTEGER NOT NULL DEFAULT 0,
	personality_scores  TEXT NOT NULL DEFAULT '',
	dominant_trait      TEXT NOT NULL DEFAULT '',
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_profiles_guest_id ON profiles(guest_id) WHERE guest_id != '';
CREATE INDEX IF NOT EXISTS idx_profiles_user_id ON profiles(user_id) WHERE user_id != '';

CREATE TABLE IF NOT EXISTS accounts (
	user_id       TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS game_stats (
	profile_id             TEXT NOT NULL,
	game_slug              TEXT NOT NULL,
	games_played           INTEGER NOT NULL DEFAULT 0,
	games_won              INTEGER NOT NULL DEFAULT 0,
	points_earned          INTEGER NOT NULL DEFAULT 0,
	correct_answers        INTEGER NOT NULL DEFAULT 0,
	incorrect_answers      INTEGER NOT NULL DEFAULT 0,
	perfect_rounds         INTEGER NOT NULL DEFAULT 0,
	total_response_time_ms INTEGER NOT NULL DEFAULT 0,
	best_response_time_ms  INTEGER NOT NULL DEFAULT 0,
	successful_deceptions  INTEGER NOT NULL DEFAULT 0,
	liars_caught           INTEGER NOT NULL DEFAULT 0,
	votes_received         INTEGER NOT NULL DEFAULT 0,
	correct_winner_picks   INTEGER NOT NULL DEFAULT 0,
	created_at             TEXT NOT NULL,
	updated_at             TEXT NOT NULL,
	PRIMARY KEY (profile_id, game_slug)
);

CREATE TABLE IF NOT EXISTS badges (
	id          TEXT PRIMARY KEY,
	profile_id  TEXT NOT NULL,
	badge_key   TEXT NOT NULL,
	game_slug   TEXT NOT NULL DEFAULT '',
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	icon        TEXT NOT NULL DEFAULT '',
	earned_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_badges_profile_id ON badges(profile_id);

CREATE TABLE IF NOT EXISTS avatar_catalog (
	position  INTEGER PRIMARY KEY,
	avatar_id TEXT NOT NULL
);
`
