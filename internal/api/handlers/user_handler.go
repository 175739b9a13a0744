package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/models"
	"github.com/isdelr/bookshelf-be/internal/services"
	"github.com/isdelr/bookshelf-be/internal/validate"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// RolePayload defines the structure for role change requests.
type RolePayload struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN user admin"`
}

// GetAll handles listing every registered user.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve users")
		common.RespondWithFailure(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		common.RespondWithFailure(w, err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("Failed to get user by ID")
		common.RespondWithFailure(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

// SetRole handles promoting or demoting a user.
func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		common.RespondWithFailure(w, err)
		return
	}

	var payload RolePayload
	if err := validate.DecodeJSON(r.Body, &payload); err != nil {
		common.RespondWithFailure(w, err)
		return
	}
	role, err := models.ParseRole(payload.Role)
	if err != nil {
		common.RespondWithFailure(w, common.NewValidationError("role", err.Error()))
		return
	}

	user, err := h.service.SetRole(r.Context(), id, role)
	if err != nil {
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to change role")
		common.RespondWithFailure(w, err)
		return
	}

	log.Info().Int64("user_id", id).Str("role", role.String()).Msg("User role changed")
	common.RespondWithJSON(w, http.StatusOK, user)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}
