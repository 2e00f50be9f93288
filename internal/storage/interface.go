package storage

import (
	"context"

	"github.com/partydeck/playerlink/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Profile operations
	SaveProfile(ctx context.Context, profile *model.PlayerProfile) error
	GetProfile(ctx context.Context, id model.ProfileID) (*model.PlayerProfile, error)
	GetProfileByGuestID(ctx context.Context, guestID model.GuestID) (*model.PlayerProfile, error)
	GetProfileByUserID(ctx context.Context, userID model.UserID) (*model.PlayerProfile, error)
	DeleteProfile(ctx context.Context, id model.ProfileID) error

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, userID model.UserID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// Game stats operations
	SaveGameStats(ctx context.Context, stats *model.PlayerGameStats) error
	GetGameStats(ctx context.Context, profileID model.ProfileID, slug model.GameSlug) (*model.PlayerGameStats, error)
	ListGameStatsForProfile(ctx context.Context, profileID model.ProfileID) ([]*model.PlayerGameStats, error)
	DeleteGameStatsForProfile(ctx context.Context, profileID model.ProfileID) error

	// Badge operations
	SaveBadge(ctx context.Context, badge *model.PlayerBadge) error
	ListBadgesForProfile(ctx context.Context, profileID model.ProfileID) ([]*model.PlayerBadge, error)
	DeleteBadgesForProfile(ctx context.Context, profileID model.ProfileID) error

	// Avatar catalog operations
	GetAvatarCatalog(ctx context.Context) ([]string, error)
	SaveAvatarCatalog(ctx context.Context, avatars []string) error
}
