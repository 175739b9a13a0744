package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/isdelr/bookshelf-be/internal/common"
	"github.com/isdelr/bookshelf-be/internal/models"
)

// Verification outcomes. All of them wrap common.ErrInvalidToken.
var (
	ErrTokenInvalidSignature = fmt.Errorf("%w: signature mismatch", common.ErrInvalidToken)
	ErrTokenExpired          = fmt.Errorf("%w: token expired", common.ErrInvalidToken)
	ErrTokenMalformed        = fmt.Errorf("%w: malformed token", common.ErrInvalidToken)
)

// Claims defines the JWT claims structure. The user id travels in the
// standard subject claim.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the numeric user id carried in the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrTokenMalformed
	}
	return id, nil
}

// TokenIssuer mints and verifies signed, time-limited identity tokens.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewTokenIssuer creates an issuer for one of HS256, HS384 or HS512.
func NewTokenIssuer(secret []byte, algorithm string) (*TokenIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenIssuer{secret: secret, method: method, now: time.Now}, nil
}

// Issue creates a token for the given user that expires after ttl. The
// returned time is the token's exp claim.
func (i *TokenIssuer) Issue(userID int64, role models.Role, ttl time.Duration) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	// exp is encoded with second precision.
	return signed, claims.ExpiresAt.Time, nil
}

// Verify parses and validates a token string.
func (i *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}
