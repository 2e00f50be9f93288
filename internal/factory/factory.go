package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/partydeck/playerlink/internal/dependencies/clock"
	"github.com/partydeck/playerlink/internal/services/auth"
	"github.com/partydeck/playerlink/internal/services/avatar"
	"github.com/partydeck/playerlink/internal/services/profile"
	"github.com/partydeck/playerlink/internal/services/stats"
	"github.com/partydeck/playerlink/internal/storage"
	"github.com/partydeck/playerlink/internal/storage/memory"
	redisstorage "github.com/partydeck/playerlink/internal/storage/redis"
	sqlitestorage "github.com/partydeck/playerlink/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService    *auth.Service
	AvatarService  *avatar.Service
	ProfileService *profile.Service
	StatsService   *stats.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AvatarCatalogPath is a file of avatar keys, one per line (optional)
	// If empty, the built-in catalog is used
	AvatarCatalogPath string
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file path (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	clk := clock.New()

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, clk, authCfg)

	if cfg.AvatarCatalogPath != "" {
		// Catalog file wins and is persisted for the next boot
		if err := app.AvatarService.LoadFromFile(context.Background(), cfg.AvatarCatalogPath); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, authCfg auth.Config) *App {
	avatarService := avatar.New(store)
	avatarService.LoadDefault()

	profileService := profile.New(store, avatarService, clk)
	statsService := stats.New(store, clk)
	authService := auth.New(store, clk, authCfg)

	return &App{
		Storage:        store,
		Clock:          clk,
		AuthService:    authService,
		AvatarService:  avatarService,
		ProfileService: profileService,
		StatsService:   statsService,
	}
}
