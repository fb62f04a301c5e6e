package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/crud"
	"github.com/medrec/api/internal/platform/response"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/validation"
)

type Handler struct {
	ctl    *crud.Controller[Patient]
	owners auth.OwnershipStore
}

func NewHandler(repo store.Repository[Patient], owners auth.OwnershipStore) *Handler {
	ctl := crud.New[Patient](repo, "Patient", "user")
	ctl.Prepare = pinOwner
	return &Handler{ctl: ctl, owners: owners}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	owner := auth.RequireOwnership(auth.ResourcePatient, h.owners)

	api.GET("/patients", h.ctl.List, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	api.POST("/patients", h.ctl.Create, auth.RequireRole(auth.RoleAdmin, auth.RolePatient), validation.Request(CreateSchema))
	api.GET("/patients/:id", h.ctl.Get, owner)
	api.PUT("/patients/:id", h.ctl.Update, owner, validation.Request(UpdateSchema))
	api.DELETE("/patients/:id", h.ctl.Delete, auth.RequireRole(auth.RoleAdmin))
}

// pinOwner ties a profile to the calling account unless an admin is
// acting. Non-admins can never move a profile to another account.
func pinOwner(c echo.Context, data map[string]any) error {
	caller, ok := auth.Caller(c)
	if !ok {
		return response.Unauthorized("authentication required")
	}
	creating := c.Request().Method == http.MethodPost

	if caller.HasRole(auth.RoleAdmin) {
		if creating && data["userId"] == nil {
			return validation.Errors{{Field: "userId", Message: "userId is required"}}
		}
		return nil
	}
	if creating {
		data["userId"] = caller.ID
	} else {
		delete(data, "userId")
	}
	return nil
}
