package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/rs/zerolog/log"
)

// HealthHandler reports whether the service can reach its database.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles the health probe.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		common.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
