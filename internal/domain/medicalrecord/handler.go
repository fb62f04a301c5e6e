package medicalrecord

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
	ctl    *crud.Controller[MedicalRecord]
	owners auth.OwnershipStore
}

func NewHandler(repo store.Repository[MedicalRecord], owners auth.OwnershipStore) *Handler {
	h := &Handler{owners: owners}
	h.ctl = crud.New[MedicalRecord](repo, "Medical record", "patient", "doctor", "disease")
	h.ctl.Prepare = h.pinAuthor
	return h
}

// RegisterRoutes mounts medical records. Clinicians manage them; a patient
// may read their own history through the patient sub-route.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinician := auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor)

	api.GET("/medical-records", h.ctl.List, clinician)
	api.POST("/medical-records", h.ctl.Create, clinician, validation.Request(CreateSchema))
	api.GET("/medical-records/:id", h.ctl.Get, clinician)
	api.PUT("/medical-records/:id", h.ctl.Update, clinician, validation.Request(UpdateSchema))
	api.DELETE("/medical-records/:id", h.ctl.Delete, auth.RequireRole(auth.RoleAdmin))

	api.GET("/patients/:id/medical-records", h.ctl.ListBy("id", "patientId"),
		auth.RequireOwnership(auth.ResourcePatient, h.owners))
}

// pinAuthor attributes a record to the doctor writing it.
func (h *Handler) pinAuthor(c echo.Context, data map[string]any) error {
	caller, ok := auth.Caller(c)
	if !ok {
		return response.Unauthorized("authentication required")
	}
	creating := c.Request().Method == http.MethodPost

	switch {
	case caller.HasRole(auth.RoleAdmin):
		if creating && data["doctorId"] == nil {
			return validation.Errors{{Field: "doctorId", Message: "doctorId is required"}}
		}
		return nil
	case !creating:
		delete(data, "doctorId")
		return nil
	}

	_, doctorID, err := h.owners.ProfileIDs(c.Request().Context(), caller.ID)
	if err != nil {
		return response.Internal(err)
	}
	if doctorID == 0 {
		return response.Forbidden("a doctor profile is required to write medical records")
	}
	data["doctorId"] = doctorID
	return nil
}
