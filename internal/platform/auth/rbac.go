package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/response"
)

// RequireRole returns middleware that lets the request through only when the
// caller's role is one of roles. There is no implicit admin pass.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := Caller(c)
			if !ok {
				return response.Unauthorized("authentication required")
			}
			if !identity.HasRole(roles...) {
				return response.Forbidden("insufficient role")
			}
			return next(c)
		}
	}
}
