package auth

import (
	"context"
	"errors"
	"fmt"
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

type fakeUsers map[int64]models.User

func (f fakeUsers) GetUserByID(_ context.Context, id int64) (models.User, error) {
	u, ok := f[id]
	if !ok {
		return models.User{}, fmt.Errorf("user with ID %d: %w", id, common.ErrNotFound)
	}
	return u, nil
}

type brokenUsers struct{}

func (brokenUsers) GetUserByID(context.Context, int64) (models.User, error) {
	return models.User{}, errors.New("database is locked")
}

func newResolver(t *testing.T, transport string, users UserLookup) (*Resolver, *TokenIssuer) {
	t.Helper()
	issuer := newIssuer(t, "resolver-secret")
	res, err := NewResolver(issuer, users, transport, "token")
	require.NoError(t, err)
	return res, issuer
}

func bearerRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestNewResolver_UnknownTransport(t *testing.T) {
	_, err := NewResolver(newIssuer(t, "k"), fakeUsers{}, "header+cookie", "token")
	assert.Error(t, err)
}

func TestResolve_Bearer(t *testing.T) {
	alice := models.User{ID: 1, Email: "a@x.com", Role: models.RoleUser}
	res, issuer := newResolver(t, config.TransportBearer, fakeUsers{1: alice})
	ctx := context.Background()

	tok, _, err := issuer.Issue(1, models.RoleUser, time.Hour)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		user, err := res.Resolve(ctx, bearerRequest(tok))
		require.NoError(t, err)
		assert.Equal(t, alice, user)
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "bearer "+tok)
		_, err := res.Resolve(ctx, r)
		assert.NoError(t, err)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := res.Resolve(ctx, bearerRequest(""))
		assert.ErrorIs(t, err, common.ErrUnauthenticated)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic YTpi")
		_, err := res.Resolve(ctx, r)
		assert.ErrorIs(t, err, common.ErrUnauthenticated)
	})

	t.Run("cookie is ignored", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "token", Value: tok})
		_, err := res.Resolve(ctx, r)
		assert.ErrorIs(t, err, common.ErrUnauthenticated)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := res.Resolve(ctx, bearerRequest("garbage"))
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})
}

func TestResolve_Cookie(t *testing.T) {
	bob := models.User{ID: 2, Email: "b@x.com", Role: models.RoleAdmin}
	res, issuer := newResolver(t, config.TransportCookie, fakeUsers{2: bob})
	ctx := context.Background()

	tok, _, err := issuer.Issue(2, models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: tok})
	user, err := res.Resolve(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, bob, user)

	_, err = res.Resolve(ctx, bearerRequest(tok))
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestResolve_DeletedUser(t *testing.T) {
	res, issuer := newResolver(t, config.TransportBearer, fakeUsers{})

	tok, _, err := issuer.Issue(99, models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = res.Resolve(context.Background(), bearerRequest(tok))
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

func TestResolve_StorageFailure(t *testing.T) {
	res, issuer := newResolver(t, config.TransportBearer, brokenUsers{})

	tok, _, err := issuer.Issue(1, models.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = res.Resolve(context.Background(), bearerRequest(tok))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrUserNotFound)
	assert.Equal(t, http.StatusInternalServerError, common.HTTPStatusFromError(err))
}
