package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/config"
	"github.com/isdelr/bookshelf-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct{ failures []error }

func (c *countingRecorder) RecordAuthFailure(err error) { c.failures = append(c.failures, err) }

func TestMiddlewareChain(t *testing.T) {
	users := fakeUsers{
		1: {ID: 1, Email: "a@x.com", Role: models.RoleUser},
		2: {ID: 2, Email: "root@x.com", Role: models.RoleAdmin},
	}
	res, issuer := newResolver(t, config.TransportBearer, users)
	rec := &countingRecorder{}

	var seen models.User
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	adminOnly := Authenticate(res, rec)(RequireRole(models.RoleAdmin, rec)(final))

	userTok, _, err := issuer.Issue(1, models.RoleUser, time.Hour)
	require.NoError(t, err)
	adminTok, _, err := issuer.Issue(2, models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	adminOnly.ServeHTTP(rr, bearerRequest(adminTok))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, int64(2), seen.ID)

	rr = httptest.NewRecorder()
	adminOnly.ServeHTTP(rr, bearerRequest(userTok))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	adminOnly.ServeHTTP(rr, bearerRequest(""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	require.Len(t, rec.failures, 2)
	assert.ErrorIs(t, rec.failures[0], common.ErrInsufficientRole)
	assert.ErrorIs(t, rec.failures[1], common.ErrUnauthenticated)
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	h := RequireRole(models.RoleUser, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
