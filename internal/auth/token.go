package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"toystore/internal/domain"
)

// TokenTTL is the fixed validity window of every issued token. There is no
// server-side session and no revocation list; a token stops working only by
// expiring.
const TokenTTL = 24 * time.Hour

// ErrMissingSecret is returned when a TokenService is constructed without a
// signing secret. Running with a guessable default would let anyone forge
// admin tokens, so construction fails instead.
var ErrMissingSecret = errors.New("auth: signing secret is required")

// ErrInvalidToken covers malformed, tampered and expired tokens alike.
var ErrInvalidToken = errors.New("auth: invalid token")

// Claims is the payload embedded in issued tokens. Role is omitted for users
// without one; a missing role never grants elevated access.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the claims carry the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

// TokenService issues and verifies signed tokens. The secret is injected once
// at construction and never re-read; it is immutable for the process
// lifetime.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService builds a TokenService around the given signing secret.
// An empty secret is a configuration error and fails closed.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &TokenService{
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

// Issue signs a token for the given user, valid for TokenTTL from now.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Any failure is reported as ErrInvalidToken; callers must not distinguish
// tampering from expiry in responses.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{},
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
