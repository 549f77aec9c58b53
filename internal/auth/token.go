// Package auth implements the token service: stateless credential issuance
// and verification backed by HS256-signed JWTs, plus a bounded verification
// cache so hot tokens do not hammer the credential store on every request.
//
// The package deliberately resolves verified tokens back through the
// credential store rather than trusting the decoded payload, so callers
// always see the current user record even when profile data changed after
// the token was minted.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// ErrInvalidToken is returned by Verify for any token that cannot be
// accepted: malformed payload, bad signature, past expiry, or a subject that
// no longer resolves to a user. Callers that treat credentials as advisory
// (the gateway middleware) swallow this error and proceed anonymously.
var ErrInvalidToken = errors.New("invalid token")

// CredentialStore is the subset of the user store the token service needs to
// resolve a verified token back to a live user record.
type CredentialStore interface {
	// FindByID returns the current user record for id, or an error when the
	// user does not exist.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Claims is the signed token payload: the user identity plus the registered
// expiry/issued-at fields.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed tokens. The signing secret and the
// validity windows are injected at construction; nothing is read from
// ambient global state.
//
// The service is safe for concurrent use.
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
	cacheTTL time.Duration
	store    CredentialStore
	cache    Cache

	// now is a clock seam for tests.
	now func() time.Time
}

// NewTokenService constructs a TokenService. When cache is nil an in-memory
// cache is used. tokenTTL is the validity window of issued tokens (the
// upstream default is 60 days); cacheTTL bounds how long a verification
// result may be served without a fresh store lookup.
func NewTokenService(secret string, tokenTTL, cacheTTL time.Duration, store CredentialStore, cache Cache) *TokenService {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &TokenService{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		cacheTTL: cacheTTL,
		store:    store,
		cache:    cache,
		now:      time.Now,
	}
}

// Issue builds and signs a token for user. The payload carries the user id
// (subject), username, and an expiry of now + tokenTTL. Signing is CPU-bound;
// there are no side effects.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify decodes raw, checks signature and expiry, and resolves the embedded
// subject against the credential store, returning the current user record.
// Any failure along the way yields ErrInvalidToken.
//
// Results are cached per raw token string for at most cacheTTL, capped by the
// remaining token lifetime so a cache entry never outlives the token it was
// derived from. The cache is consulted before the store; concurrent misses on
// the same token each perform their own lookup (accepted: the store lookup is
// a single indexed read).
func (s *TokenService) Verify(ctx context.Context, raw string) (*domain.User, error) {
	if user, ok := s.cache.Get(ctx, raw); ok {
		return user, nil
	}

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil || user == nil {
		return nil, ErrInvalidToken
	}

	ttl := s.cacheTTL
	if claims.ExpiresAt != nil {
		if remaining := claims.ExpiresAt.Sub(s.now()); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl > 0 {
		s.cache.Set(ctx, raw, user, ttl)
	}
	return user, nil
}
