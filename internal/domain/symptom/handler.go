package symptom

import (
	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/crud"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/validation"
)

type Handler struct {
	ctl *crud.Controller[Symptom]
}

func NewHandler(repo store.Repository[Symptom]) *Handler {
	return &Handler{ctl: crud.New[Symptom](repo, "Symptom")}
}

// RegisterRoutes mounts the symptom catalogue. Clinicians curate it; anyone
// signed in may read it.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinician := auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor)

	api.GET("/symptoms", h.ctl.List)
	api.POST("/symptoms", h.ctl.Create, clinician, validation.Request(CreateSchema))
	api.GET("/symptoms/:id", h.ctl.Get)
	api.PUT("/symptoms/:id", h.ctl.Update, clinician, validation.Request(UpdateSchema))
	api.DELETE("/symptoms/:id", h.ctl.Delete, auth.RequireRole(auth.RoleAdmin))
}
