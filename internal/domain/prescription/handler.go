package prescription

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
	ctl    *crud.Controller[Prescription]
	owners auth.OwnershipStore
}

func NewHandler(repo store.Repository[Prescription], owners auth.OwnershipStore) *Handler {
	h := &Handler{owners: owners}
	h.ctl = crud.New[Prescription](repo, "Prescription", "patient", "doctor", "medicine", "pharmacy")
	h.ctl.Prepare = h.pinPrescriber
	return h
}

// RegisterRoutes mounts prescriptions for clinicians, plus the per-patient
// and per-doctor listings that the profile owners may also read.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinician := auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor)

	api.GET("/prescriptions", h.ctl.List, clinician)
	api.POST("/prescriptions", h.ctl.Create, clinician, validation.Request(CreateSchema))
	api.GET("/prescriptions/:id", h.ctl.Get, clinician)
	api.PUT("/prescriptions/:id", h.ctl.Update, clinician, validation.Request(UpdateSchema))
	api.DELETE("/prescriptions/:id", h.ctl.Delete, auth.RequireRole(auth.RoleAdmin))

	api.GET("/patients/:id/prescriptions", h.ctl.ListBy("id", "patientId"),
		auth.RequireOwnership(auth.ResourcePatient, h.owners))
	api.GET("/doctors/:id/prescriptions", h.ctl.ListBy("id", "doctorId"),
		auth.RequireOwnership(auth.ResourceDoctor, h.owners))
}

// pinPrescriber records the calling doctor as prescriber. Admins name the
// doctor explicitly; nobody but an admin may change it later.
func (h *Handler) pinPrescriber(c echo.Context, data map[string]any) error {
	caller, ok := auth.Caller(c)
	if !ok {
		return response.Unauthorized("authentication required")
	}
	creating := c.Request().Method == http.MethodPost

	if caller.HasRole(auth.RoleAdmin) {
		if creating && data["doctorId"] == nil {
			return validation.Errors{{Field: "doctorId", Message: "doctorId is required"}}
		}
		return nil
	}
	if !creating {
		delete(data, "doctorId")
		return nil
	}

	_, doctorID, err := h.owners.ProfileIDs(c.Request().Context(), caller.ID)
	if err != nil {
		return response.Internal(err)
	}
	if doctorID == 0 {
		return response.Forbidden("a doctor profile is required to prescribe")
	}
	data["doctorId"] = doctorID
	return nil
}
