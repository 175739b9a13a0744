package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/bookshelf-be/internal/auth"
	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/config"
	"github.com/isdelr/bookshelf-be/internal/models"
	"github.com/isdelr/bookshelf-be/internal/services"
	"github.com/isdelr/bookshelf-be/internal/validate"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	users    services.UserServiceProvider
	issuer   *auth.TokenIssuer
	cfg      *config.Config
	recorder auth.FailureRecorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, issuer *auth.TokenIssuer, cfg *config.Config, recorder auth.FailureRecorder) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, cfg: cfg, recorder: recorder}
}

// CredentialsPayload defines the structure for registration and login requests.
type CredentialsPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5,max=72"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := validate.DecodeJSON(r.Body, &payload); err != nil {
		common.RespondWithFailure(w, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		common.RespondWithFailure(w, err)
		return
	}

	log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Registration successful",
		"user":    user,
	})
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := validate.DecodeJSON(r.Body, &payload); err != nil {
		common.RespondWithFailure(w, err)
		return
	}

	user, err := h.users.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		if h.recorder != nil {
			h.recorder.RecordAuthFailure(err)
		}
		common.RespondWithFailure(w, err)
		return
	}

	token, expiresAt, err := h.issuer.Issue(user.ID, user.Role, h.cfg.TokenTTL)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to generate token")
		common.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if h.cfg.AuthTransport == config.TransportCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cfg.CookieName,
			Value:    token,
			Expires:  expiresAt,
			HttpOnly: true,
			Secure:   h.cfg.CookieSecure,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
		})
	}

	common.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.UTC(),
		User:      user,
	})
}

// Logout clears the session cookie. Issued tokens stay valid until they
// expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AuthTransport == config.TransportCookie {
		http.SetCookie(w, &http.Cookie{
			Name:     h.cfg.CookieName,
			Value:    "",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cfg.CookieSecure,
			SameSite: http.SameSiteStrictMode,
			Path:     "/",
		})
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the currently authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user from context")
		common.RespondWithFailure(w, common.ErrUnauthenticated)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}
