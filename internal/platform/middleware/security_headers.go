package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// SecurityConfig controls the headers SecurityHeaders sets.
type SecurityConfig struct {
	// HSTSMaxAge is sent in Strict-Transport-Security. Zero omits the
	// header, which is what a plain-HTTP development server wants.
	HSTSMaxAge time.Duration
}

// SecurityHeaders sets response headers suited to a JSON API that serves
// medical records.
func SecurityHeaders(cfg SecurityConfig) echo.MiddlewareFunc {
	fixed := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"X-XSS-Protection":        "0",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
		"Referrer-Policy":         "no-referrer",
		"Permissions-Policy":      "camera=(), microphone=(), geolocation=()",
		// Responses may contain patient data.
		"Cache-Control": "no-store",
	}
	if secs := int64(cfg.HSTSMaxAge / time.Second); secs > 0 {
		fixed["Strict-Transport-Security"] = "max-age=" + strconv.FormatInt(secs, 10) + "; includeSubDomains"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			for k, v := range fixed {
				h.Set(k, v)
			}
			return next(c)
		}
	}
}
