package handler

import (
	"context"
	"net/http"
	"time"

	"batik-store/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler serves the dashboard summary.
type AdminHandler struct {
	stats  service.StatsService
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(stats service.StatsService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		stats:  stats,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

// Stats handles GET /api/admin/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health returns GET /health, pinging the database when db is set.
func Health(db Pinger, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				logger.Error().Err(err).Msg("health check: database unreachable")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "database": "down"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}
