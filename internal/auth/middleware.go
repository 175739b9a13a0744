package auth

import (
	"context"
	"net/http"

	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/models"
	"github.com/rs/zerolog/log"
)

type contextKey string

// UserCtxKey is the context key for the resolved user.
const UserCtxKey = contextKey("user")

// FailureRecorder is notified of every rejected request. It may be nil.
type FailureRecorder interface {
	RecordAuthFailure(err error)
}

// Authenticate creates a middleware that resolves the caller and stores the
// user on the request context.
func Authenticate(resolver *Resolver, recorder FailureRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.Resolve(r.Context(), r)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
				if recorder != nil {
					recorder.RecordAuthFailure(err)
				}
				common.RespondWithFailure(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserCtxKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole runs the role gate for the user placed on the context by
// Authenticate.
func RequireRole(required models.Role, recorder FailureRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error().Str("path", r.URL.Path).Msg("Role gate reached without an authenticated user")
				common.RespondWithFailure(w, common.ErrUnauthenticated)
				return
			}
			if _, err := Authorize(user, required); err != nil {
				log.Warn().Err(err).Int64("user_id", user.ID).Str("path", r.URL.Path).Msg("Rejected underprivileged request")
				if recorder != nil {
					recorder.RecordAuthFailure(err)
				}
				common.RespondWithFailure(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the user stored by Authenticate.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(models.User)
	return user, ok
}
