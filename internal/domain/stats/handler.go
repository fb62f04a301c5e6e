package stats

import (
	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/stats", h.Overview, auth.RequireRole(auth.RoleAdmin))
}

// Overview returns the system overview. ?fresh=true bypasses the cache.
func (h *Handler) Overview(c echo.Context) error {
	load := h.svc.Overview
	if c.QueryParam("fresh") == "true" {
		load = h.svc.Refresh
	}

	o, err := load(c.Request().Context())
	if err != nil {
		return response.Internalf(err, "could not compute statistics")
	}
	return response.OK(c, o)
}
