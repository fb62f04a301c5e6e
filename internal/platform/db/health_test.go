package db

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/response"
)

func TestHealthHandler_Healthy(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/db", nil), rec)

	h := healthHandler(
		func(context.Context) error { return nil },
		func() *PoolStats { return &PoolStats{TotalConns: 3, MaxConns: 20} },
	)
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Status string    `json:"status"`
			Pool   PoolStats `json:"pool"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.Status != "healthy" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if body.Data.Pool.TotalConns != 3 || body.Data.Pool.MaxConns != 20 {
		t.Errorf("pool stats not reported: %+v", body.Data.Pool)
	}
}

func TestHealthHandler_Unavailable(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/db", nil), httptest.NewRecorder())

	statsCalled := false
	h := healthHandler(
		func(context.Context) error { return errors.New("connection refused") },
		func() *PoolStats { statsCalled = true; return &PoolStats{} },
	)

	err := h(c)
	var apiErr *response.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *response.Error, got %T", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", apiErr.Status)
	}
	if statsCalled {
		t.Error("stats should not be read when the ping fails")
	}
}
