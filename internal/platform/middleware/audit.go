package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrec/api/internal/platform/auth"
)

// AuditEntry describes one access to clinical data.
type AuditEntry struct {
	Timestamp  time.Time
	RequestID  string
	UserID     int64
	Role       auth.Role
	Resource   string
	ResourceID string
	Action     string // read, create, update, delete
	Method     string
	Route      string
	IPAddress  string
	StatusCode int
}

// auditedResources are the first path segments under /api/v1 that hold
// patient data.
var auditedResources = map[string]bool{
	"patients":        true,
	"appointments":    true,
	"prescriptions":   true,
	"medical-records": true,
}

// Audit logs an access event for every request touching patient data,
// after the handler has run so the final status is known. Register it
// outside the authentication guard.
func Audit(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			resource := auditedResource(c.Path())
			if resource == "" {
				return next(c)
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Resource:   resource,
				ResourceID: c.Param("id"),
				Action:     methodAction(c.Request().Method),
				Method:     c.Request().Method,
				Route:      c.Path(),
				IPAddress:  c.RealIP(),
				StatusCode: c.Response().Status,
			}
			entry.RequestID, _ = c.Get("request_id").(string)
			if caller, ok := auth.Caller(c); ok {
				entry.UserID = caller.ID
				entry.Role = caller.Role
			}

			logger.Info().
				Str("type", "access_audit").
				Time("at", entry.Timestamp).
				Str("request_id", entry.RequestID).
				Int64("user_id", entry.UserID).
				Str("role", string(entry.Role)).
				Str("resource", entry.Resource).
				Str("resource_id", entry.ResourceID).
				Str("action", entry.Action).
				Str("route", entry.Route).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("data_access")
			return nil
		}
	}
}

// auditedResource returns the audited resource a route belongs to, or "".
func auditedResource(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/v1/")
	if !ok {
		return ""
	}
	segment, _, _ := strings.Cut(rest, "/")
	if auditedResources[segment] {
		return segment
	}
	return ""
}

func methodAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
