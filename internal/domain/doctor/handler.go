package doctor

import (
	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/crud"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/validation"
)

type Handler struct {
	ctl    *crud.Controller[Doctor]
	owners auth.OwnershipStore
}

func NewHandler(repo store.Repository[Doctor], owners auth.OwnershipStore) *Handler {
	ctl := crud.New[Doctor](repo, "Doctor", "user")
	ctl.Prepare = keepOwner
	return &Handler{ctl: ctl, owners: owners}
}

// RegisterRoutes mounts the doctor directory. Any signed-in user may browse
// it; a doctor may edit only their own profile.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := auth.RequireRole(auth.RoleAdmin)

	api.GET("/doctors", h.ctl.List)
	api.POST("/doctors", h.ctl.Create, admin, validation.Request(CreateSchema))
	api.GET("/doctors/:id", h.ctl.Get)
	api.PUT("/doctors/:id", h.ctl.Update, auth.RequireOwnership(auth.ResourceDoctor, h.owners), validation.Request(UpdateSchema))
	api.DELETE("/doctors/:id", h.ctl.Delete, admin)
}

// keepOwner stops doctors from reassigning their profile or its licence.
func keepOwner(c echo.Context, data map[string]any) error {
	if caller, ok := auth.Caller(c); ok && caller.HasRole(auth.RoleAdmin) {
		return nil
	}
	delete(data, "userId")
	delete(data, "licenseNumber")
	return nil
}
