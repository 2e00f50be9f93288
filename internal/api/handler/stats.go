package handler

import (
	"encoding/json"
	"net/http"

	"github.com/partydeck/playerlink/internal/api/request"
	"github.com/partydeck/playerlink/internal/api/response"
	"github.com/partydeck/playerlink/internal/services/stats"
)

// StatsHandler handles gameplay stats endpoints
type StatsHandler struct {
	statsService *stats.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Record handles POST /api/player/stats. The payload is partial; only the
// fields present are applied. fallbackGuestId lets a client whose session
// lost its profile still attribute the outcome to its guest identity.
func (h *StatsHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req request.RecordStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GameSlug == "" {
		WriteError(w, NewInvalidRequestError("game_slug is required"))
		return
	}

	gameStats, err := h.statsService.ApplyUpdate(r.Context(), req.ProfileID, req.FallbackGuestID, req.GameSlug, &req.StatsUpdate)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, gameStats)
}
