package medicine

import (
	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/crud"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/validation"
)

type Handler struct {
	ctl *crud.Controller[Medicine]
}

func NewHandler(repo store.Repository[Medicine]) *Handler {
	return &Handler{ctl: crud.New[Medicine](repo, "Medicine")}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := auth.RequireRole(auth.RoleAdmin)

	api.GET("/medicines", h.ctl.List)
	api.POST("/medicines", h.ctl.Create, admin, validation.Request(CreateSchema))
	api.GET("/medicines/:id", h.ctl.Get)
	api.PUT("/medicines/:id", h.ctl.Update, admin, validation.Request(UpdateSchema))
	api.DELETE("/medicines/:id", h.ctl.Delete, admin)
}
