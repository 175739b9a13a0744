package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/config"
	"github.com/isdelr/bookshelf-be/internal/models"
)

// UserLookup is the storage read the resolver needs.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// Resolver maps a presented credential to a stored user. Each resolver reads
// from exactly one transport: the Authorization header or a cookie.
type Resolver struct {
	issuer     *TokenIssuer
	users      UserLookup
	transport  string
	cookieName string
}

// NewResolver creates a Resolver for the given transport.
func NewResolver(issuer *TokenIssuer, users UserLookup, transport, cookieName string) (*Resolver, error) {
	if transport != config.TransportBearer && transport != config.TransportCookie {
		return nil, fmt.Errorf("unknown credential transport %q", transport)
	}
	return &Resolver{issuer: issuer, users: users, transport: transport, cookieName: cookieName}, nil
}

// Transport returns the credential transport this resolver reads.
func (res *Resolver) Transport() string { return res.transport }

// Resolve extracts the credential from r, verifies it and loads the user it
// names. A cryptographically valid token for a user that no longer exists is
// rejected with common.ErrUserNotFound.
func (res *Resolver) Resolve(ctx context.Context, r *http.Request) (models.User, error) {
	tokenStr := res.credential(r)
	if tokenStr == "" {
		return models.User{}, common.ErrUnauthenticated
	}

	claims, err := res.issuer.Verify(tokenStr)
	if err != nil {
		return models.User{}, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return models.User{}, err
	}

	user, err := res.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.User{}, fmt.Errorf("%w: id %d", common.ErrUserNotFound, userID)
		}
		return models.User{}, err
	}
	return user, nil
}

func (res *Resolver) credential(r *http.Request) string {
	if res.transport == config.TransportCookie {
		cookie, err := r.Cookie(res.cookieName)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(cookie.Value)
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
