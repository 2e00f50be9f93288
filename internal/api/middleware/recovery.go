package middleware

import (
	"log/slog"
	"net/http"

	"github.com/partydeck/playerlink/internal/api/apierr"
	"github.com/partydeck/playerlink/internal/middleware"
)

// Recovery recovers handler panics on the /api surface and answers with
// the INTERNAL_ERROR envelope instead of a bare 500
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
