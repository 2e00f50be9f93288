package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/partydeck/playerlink/internal/model"
	"github.com/partydeck/playerlink/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Profile operations

func (s *Storage) SaveProfile(ctx context.Context, profile *model.PlayerProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	// Unclaimed guest profiles expire; linked profiles persist
	var ttl time.Duration
	if profile.IsGuest() {
		ttl = s.cfg.GuestProfileTTL
	}

	// Pipeline the value write with its index updates
	pipe := s.client.Pipeline()
	pipe.Set(ctx, profileKey(profile.ID), data, ttl)
	if profile.GuestID != "" {
		pipe.Set(ctx, guestIndexKey(profile.GuestID), string(profile.ID), ttl)
	}
	if profile.UserID != "" {
		pipe.Set(ctx, userIndexKey(profile.UserID), string(profile.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetProfile(ctx context.Context, id model.ProfileID) (*model.PlayerProfile, error) {
	data, err := s.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	var profile model.PlayerProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *Storage) GetProfileByGuestID(ctx context.Context, guestID model.GuestID) (*model.PlayerProfile, error) {
	profileID, err := s.client.Get(ctx, guestIndexKey(guestID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	return s.GetProfile(ctx, model.ProfileID(profileID))
}

func (s *Storage) GetProfileByUserID(ctx context.Context, userID model.UserID) (*model.PlayerProfile, error) {
	profileID, err := s.client.Get(ctx, userIndexKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}

	return s.GetProfile(ctx, model.ProfileID(profileID))
}

func (s *Storage) DeleteProfile(ctx context.Context, id model.ProfileID) error {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, profileKey(id))
	if profile.GuestID != "" {
		pipe.Del(ctx, guestIndexKey(profile.GuestID))
	}
	if profile.UserID != "" {
		pipe.Del(ctx, userIndexKey(profile.UserID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, accountKey(account.UserID), data, 0) // No TTL
	pipe.Set(ctx, usernameIndexKey(account.Username), string(account.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*model.Account, error) {
	userID, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.UserID(userID))
}

// Game stats operations

func (s *Storage) SaveGameStats(ctx context.Context, stats *model.PlayerGameStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	key := gameStatsKey(stats.ProfileID, stats.GameSlug)
	indexKey := statsForProfileIndexKey(stats.ProfileID)

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, indexKey, key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGameStats(ctx context.Context, profileID model.ProfileID, slug model.GameSlug) (*model.PlayerGameStats, error) {
	data, err := s.client.Get(ctx, gameStatsKey(profileID, slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var stats model.PlayerGameStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Storage) ListGameStatsForProfile(ctx context.Context, profileID model.ProfileID) ([]*model.PlayerGameStats, error) {
	indexKey := statsForProfileIndexKey(profileID)

	statsKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(statsKeys) == 0 {
		return []*model.PlayerGameStats{}, nil
	}

	values, err := s.client.MGet(ctx, statsKeys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.PlayerGameStats, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var stats model.PlayerGameStats
		if err := json.Unmarshal([]byte(val.(string)), &stats); err != nil {
			continue // Skip invalid data
		}
		result = append(result, &stats)
	}

	return result, nil
}

func (s *Storage) DeleteGameStatsForProfile(ctx context.Context, profileID model.ProfileID) error {
	indexKey := statsForProfileIndexKey(profileID)

	statsKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	for _, key := range statsKeys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, indexKey)
	_, err = pipe.Exec(ctx)
	return err
}

// Badge operations

func (s *Storage) SaveBadge(ctx context.Context, badge *model.PlayerBadge) error {
	data, err := json.Marshal(badge)
	if err != nil {
		return err
	}

	return s.client.RPush(ctx, badgesForProfileKey(badge.ProfileID), data).Err()
}

func (s *Storage) ListBadgesForProfile(ctx context.Context, profileID model.ProfileID) ([]*model.PlayerBadge, error) {
	values, err := s.client.LRange(ctx, badgesForProfileKey(profileID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	badges := make([]*model.PlayerBadge, 0, len(values))
	for _, val := range values {
		var badge model.PlayerBadge
		if err := json.Unmarshal([]byte(val), &badge); err != nil {
			continue // Skip invalid data
		}
		badges = append(badges, &badge)
	}

	return badges, nil
}

func (s *Storage) DeleteBadgesForProfile(ctx context.Context, profileID model.ProfileID) error {
	return s.client.Del(ctx, badgesForProfileKey(profileID)).Err()
}

// Avatar catalog operations

func (s *Storage) GetAvatarCatalog(ctx context.Context) ([]string, error) {
	data, err := s.client.Get(ctx, avatarCatalogKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, err
	}

	var avatars []string
	if err := json.Unmarshal(data, &avatars); err != nil {
		return nil, err
	}
	return avatars, nil
}

func (s *Storage) SaveAvatarCatalog(ctx context.Context, avatars []string) error {
	data, err := json.Marshal(avatars)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, avatarCatalogKey(), data, 0).Err()
}
