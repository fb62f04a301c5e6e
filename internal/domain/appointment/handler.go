package appointment

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
	ctl    *crud.Controller[Appointment]
	repo   store.Repository[Appointment]
	owners auth.OwnershipStore
}

func NewHandler(repo store.Repository[Appointment], owners auth.OwnershipStore) *Handler {
	h := &Handler{repo: repo, owners: owners}
	h.ctl = crud.New[Appointment](repo, "Appointment", "patient", "doctor")
	h.ctl.Prepare = h.pinParties
	return h
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	owner := auth.RequireOwnership(auth.ResourceAppointment, h.owners)
	anyRole := auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor, auth.RolePatient)

	api.GET("/appointments", h.ctl.List, auth.RequireRole(auth.RoleAdmin))
	api.POST("/appointments", h.ctl.Create, anyRole, validation.Request(CreateSchema))
	api.GET("/appointments/:id", h.ctl.Get, owner)
	api.PUT("/appointments/:id", h.ctl.Update, owner, validation.Request(UpdateSchema))
	api.PATCH("/appointments/:id/status", h.UpdateStatus, owner, validation.Request(StatusSchema))
	api.DELETE("/appointments/:id", h.ctl.Delete, auth.RequireRole(auth.RoleAdmin))

	api.GET("/patients/:id/appointments", h.ctl.ListBy("id", "patientId"),
		auth.RequireOwnership(auth.ResourcePatient, h.owners))
	api.GET("/doctors/:id/appointments", h.ctl.ListBy("id", "doctorId"),
		auth.RequireOwnership(auth.ResourceDoctor, h.owners))
}

// UpdateStatus changes only the status of an appointment.
func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	body, err := crud.DecodeBody(c)
	if err != nil {
		return err
	}

	a, err := h.repo.Update(c.Request().Context(), store.ByID(id), map[string]any{"status": body["status"]})
	if err != nil {
		return crud.StoreError(err, "Appointment")
	}
	return response.Updated(c, a, "Appointment status updated successfully")
}

// pinParties fills the caller's own profile into a new appointment so that
// patients book for themselves and doctors for their own calendar. Only
// admins may set or move both parties freely.
func (h *Handler) pinParties(c echo.Context, data map[string]any) error {
	caller, ok := auth.Caller(c)
	if !ok {
		return response.Unauthorized("authentication required")
	}
	creating := c.Request().Method == http.MethodPost
	admin := caller.HasRole(auth.RoleAdmin)

	switch {
	case admin && !creating:
		return nil
	case !creating:
		delete(data, "patientId")
		delete(data, "doctorId")
		return nil
	case admin:
		return requireFields(data, "patientId", "doctorId")
	}

	patientID, doctorID, err := h.owners.ProfileIDs(c.Request().Context(), caller.ID)
	if err != nil {
		return response.Internal(err)
	}
	if caller.HasRole(auth.RoleDoctor) {
		if doctorID == 0 {
			return response.Forbidden("a doctor profile is required to book appointments")
		}
		data["doctorId"] = doctorID
	} else {
		if patientID == 0 {
			return response.Forbidden("a patient profile is required to book appointments")
		}
		data["patientId"] = patientID
	}
	return requireFields(data, "patientId", "doctorId")
}

func requireFields(data map[string]any, fields ...string) error {
	var errs validation.Errors
	for _, f := range fields {
		if data[f] == nil {
			errs = append(errs, validation.Error{Field: f, Message: f + " is required"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
