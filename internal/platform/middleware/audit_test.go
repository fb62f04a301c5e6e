package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/response"
)

// auditServer routes through Audit with a fixed caller attached.
func auditServer(buf *bytes.Buffer, caller *auth.Identity) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = response.ErrorHandler(zerolog.Nop())
	e.Use(Audit(zerolog.New(buf)))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if caller != nil {
				c.SetRequest(c.Request().WithContext(auth.WithIdentity(c.Request().Context(), caller)))
			}
			return next(c)
		}
	})
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/api/v1/patients/:id", ok)
	e.PUT("/api/v1/medical-records/:id", func(c echo.Context) error {
		return response.Forbidden("insufficient role")
	})
	e.GET("/api/v1/diseases", ok)
	e.GET("/health", ok)
	return e
}

func TestAudit_LogsPatientDataAccess(t *testing.T) {
	var buf bytes.Buffer
	e := auditServer(&buf, &auth.Identity{ID: 7, Role: auth.RoleDoctor})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients/42", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON audit line, got %q: %v", buf.String(), err)
	}
	want := map[string]any{
		"type":        "access_audit",
		"user_id":     float64(7),
		"role":        "DOCTOR",
		"resource":    "patients",
		"resource_id": "42",
		"action":      "read",
		"route":       "/api/v1/patients/:id",
		"status":      float64(200),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
}

func TestAudit_RecordsDeniedAccess(t *testing.T) {
	var buf bytes.Buffer
	e := auditServer(&buf, &auth.Identity{ID: 3, Role: auth.RolePatient})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/medical-records/5", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode audit line: %v", err)
	}
	if entry["action"] != "update" || entry["status"] != float64(403) || entry["resource"] != "medical-records" {
		t.Errorf("unexpected audit entry: %v", entry)
	}
}

func TestAudit_SkipsReferenceData(t *testing.T) {
	var buf bytes.Buffer
	e := auditServer(&buf, nil)

	for _, path := range []string{"/api/v1/diseases", "/health"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("expected no audit output, got %q", buf.String())
	}
}

func TestAuditedResource(t *testing.T) {
	tests := map[string]string{
		"/api/v1/patients":                  "patients",
		"/api/v1/patients/:id/appointments": "patients",
		"/api/v1/appointments/:id/status":   "appointments",
		"/api/v1/prescriptions/:id":         "prescriptions",
		"/api/v1/medical-records":           "medical-records",
		"/api/v1/doctors/:id":               "",
		"/api/v1/auth/login":                "",
		"/metrics":                          "",
		"":                                  "",
	}
	for route, want := range tests {
		if got := auditedResource(route); got != want {
			t.Errorf("auditedResource(%q) = %q, want %q", route, got, want)
		}
	}
}
