package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/services"
	"github.com/rs/zerolog/log"
)

// EventHandler handles HTTP requests related to the audit trail.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetRecent handles the request to get recent events.
func (h *EventHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = 20 // Default limit
	}
	if limit > 200 {
		limit = 200
	}

	events, err := h.service.GetRecentEvents(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve events")
		common.RespondWithFailure(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, events)
}
