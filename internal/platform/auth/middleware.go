package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/response"
	"github.com/medrec/api/internal/platform/store"
)

const bearerPrefix = "Bearer "

// Profile is the account data the guard loads for a verified token.
type Profile struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// IdentityLookup loads the account behind a token subject. It returns
// store.ErrNotFound when the account no longer exists.
type IdentityLookup interface {
	LookupIdentity(ctx context.Context, id int64) (*Profile, error)
}

type TokenVerifier interface {
	Verify(raw string) (*Claims, error)
}

type GuardConfig struct {
	Tokens TokenVerifier
	Users  IdentityLookup
	// Skipper returns true for requests that need no credentials.
	Skipper func(c echo.Context) bool
}

// Authenticate verifies the bearer token, loads the caller and attaches it to
// the request context. Every failure is returned as an error and next is not
// called.
func Authenticate(cfg GuardConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper != nil && cfg.Skipper(c) {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return response.Unauthorized("missing or invalid authentication token")
			}
			raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			if raw == "" {
				return response.Unauthorized("empty token")
			}

			claims, err := cfg.Tokens.Verify(raw)
			switch {
			case errors.Is(err, ErrTokenExpired):
				return response.Unauthorized("expired token")
			case errors.Is(err, ErrTokenInvalid):
				return response.Unauthorized("invalid token")
			case err != nil:
				return response.Internalf(err, "authentication failed")
			}

			userID, err := claims.UserID()
			if err != nil {
				return response.Unauthorized("invalid token")
			}

			ctx := c.Request().Context()
			profile, err := cfg.Users.LookupIdentity(ctx, userID)
			if errors.Is(err, store.ErrNotFound) {
				return response.Unauthorized("user not found")
			}
			if err != nil {
				return response.Internalf(err, "authentication failed")
			}

			identity := &Identity{ID: profile.ID, Email: profile.Email, Role: profile.Role}
			c.SetRequest(c.Request().WithContext(WithIdentity(ctx, identity)))
			c.Set("user_id", identity.ID)

			return next(c)
		}
	}
}
