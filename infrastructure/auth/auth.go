// Package auth issues and verifies bearer tokens and decides admin access.
// The admin decision is recomputed from the configured allow-list on every
// request; it is never cached as a trust flag.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sevabook/infrastructure/config"
)

var (
	ErrNoToken      = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Identity is the verified caller extracted from a bearer token.
type Identity struct {
	UserID int64
	Email  string
	Name   string
}

// Claims is the JWT payload carried by issued tokens.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Service signs and verifies tokens against the configured secret and
// evaluates the admin allow-list.
type Service struct {
	secret  []byte
	ttl     time.Duration
	authCfg config.AuthConfig
}

// New creates an auth service. An empty secret is tolerated outside
// production (config.Load enforces it there) but still signs consistently.
func New(cfg config.AuthConfig) *Service {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "sevabook-dev-secret"
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl, authCfg: cfg}
}

// Issue signs a token for the given user.
func (s *Service) Issue(userID int64, email, name string, now time.Time) (string, error) {
	claims := Claims{
		Email: strings.ToLower(strings.TrimSpace(email)),
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    "sevabook",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a compact token and returns the caller
// identity.
func (s *Service) Verify(tokenString string) (Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Identity{}, ErrNoToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil || userID <= 0 {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: userID, Email: claims.Email, Name: claims.Name}, nil
}

// IsAdmin reports whether the identity's email is on the allow-list.
func (s *Service) IsAdmin(id Identity) bool {
	return s.authCfg.IsAdminEmail(id.Email)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

type contextKey struct{}

// NewContextWithIdentity attaches the verified identity to ctx.
func NewContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the verified identity attached by the
// authentication middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
