// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the gateway side of authentication: bearer-token
// extraction, advisory identity resolution, and the per-action authorization
// gate. Resolution and authorization are deliberately two separate steps:
//
//   - Authenticate() runs on every request. It extracts the bearer token (if
//     any), asks the token service to resolve it, and attaches the resulting
//     Identity to the request context. Every resolution failure (missing
//     header, malformed token, expired token, store error) is swallowed and
//     the request simply proceeds anonymously, because a bad credential must
//     not break actions that permit anonymous access.
//   - RequireAuth() is installed only on non-public routes. It rejects the
//     request with 401 before any handler or service code runs when no
//     identity was resolved.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// identityKey is the Gin context key under which the resolved Identity is
// stored.
const identityKey = "identity"

// Identity carries the credentials resolved for a single request. It is
// created at request start, owned exclusively by that request, and discarded
// when the request ends.
type Identity struct {
	// User is the current user record resolved from the token, not the
	// decoded token payload.
	User *domain.User
	// Token is the raw bearer token the identity was resolved from.
	Token string
}

// TokenResolver resolves a raw bearer token to the current user record.
// Satisfied by *auth.TokenService.
type TokenResolver interface {
	Verify(ctx context.Context, raw string) (*domain.User, error)
}

// Authenticate returns the advisory identity-resolution middleware.
//
// Behavior:
//   - No Authorization header: the request proceeds anonymously; not an error.
//   - A present token that fails to resolve (invalid, expired, store error):
//     also anonymous; the failure is swallowed here because authorization is
//     decided per action by RequireAuth.
//   - A token that resolves: the Identity is attached to the context, the
//     user id is exposed under "userID" for the access logger and rate
//     limiter, and an informational log entry is emitted (best-effort).
func Authenticate(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw != "" {
			if user, err := resolver.Verify(c.Request.Context(), raw); err == nil && user != nil {
				c.Set(identityKey, &Identity{User: user, Token: raw})
				c.Set("userID", user.ID)
				LoggerFrom(c).Info().
					Str("username", user.Username).
					Msg("authenticated via JWT")
			}
		}
		c.Next()
	}
}

// RequireAuth returns the authorization gate for routes that are not public.
// Requests without a resolved identity are rejected with 401 before reaching
// the handler; everything else passes through untouched.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the Identity resolved for this request, or nil when
// the request is anonymous.
func IdentityFrom(c *gin.Context) *Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme match is case-insensitive; anything else yields
// the empty string.
func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
