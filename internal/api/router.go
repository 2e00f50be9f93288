package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/partydeck/playerlink/internal/api/handler"
	"github.com/partydeck/playerlink/internal/api/middleware"
	rootmw "github.com/partydeck/playerlink/internal/middleware"
	"github.com/partydeck/playerlink/internal/services/auth"
	"github.com/partydeck/playerlink/internal/services/avatar"
	"github.com/partydeck/playerlink/internal/services/profile"
	"github.com/partydeck/playerlink/internal/services/stats"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	ProfileService *profile.Service
	StatsService   *stats.Service
	AvatarService  *avatar.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.AuthService, cfg.ProfileService, cfg.AvatarService)
	statsHandler := handler.NewStatsHandler(cfg.StatsService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	metricsMiddleware := middleware.Metrics()

	// Metrics endpoint sits outside the API middleware chain; only panic
	// recovery applies, with a plain-text error shape
	metricsRecovery := rootmw.Recovery(cfg.Logger, rootmw.DefaultPanicHandler)
	r.Handle("/metrics", metricsRecovery(promhttp.Handler())).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(metricsMiddleware)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	player := api.PathPrefix("/player").Subrouter()

	// Identity bootstrap routes. Register and login take optional auth so
	// a guest session's identity carries over to the new session.
	player.HandleFunc("/guest", playerHandler.CreateGuest).Methods(http.MethodPost)

	bootstrap := player.NewRoute().Subrouter()
	bootstrap.Use(optionalAuthMiddleware)
	bootstrap.HandleFunc("/register", playerHandler.Register).Methods(http.MethodPost)
	bootstrap.HandleFunc("/login", playerHandler.Login).Methods(http.MethodPost)

	// Public profile lookup (clients hold the id from provisioning)
	player.HandleFunc("/profile/{id}", playerHandler.GetProfile).Methods(http.MethodGet)
	player.HandleFunc("/avatars", playerHandler.Avatars).Methods(http.MethodGet)

	// Session-bound routes (guest or authenticated)
	protected := player.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)
	protected.HandleFunc("/me/appearance", playerHandler.UpdateAppearance).Methods(http.MethodPatch)
	protected.HandleFunc("/merge", playerHandler.Merge).Methods(http.MethodPost)
	protected.HandleFunc("/stats", statsHandler.Record).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
