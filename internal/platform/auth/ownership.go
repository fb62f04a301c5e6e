package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/response"
	"github.com/medrec/api/internal/platform/store"
)

// ResourceKind names a resource whose access depends on who owns it.
type ResourceKind string

const (
	ResourcePatient     ResourceKind = "patient"
	ResourceDoctor      ResourceKind = "doctor"
	ResourceAppointment ResourceKind = "appointment"
)

// OwnershipStore resolves the accounts behind profiles and appointments.
// Lookups of missing rows return store.ErrNotFound.
type OwnershipStore interface {
	// PatientOwner returns the user id of a patient profile.
	PatientOwner(ctx context.Context, patientID int64) (int64, error)
	// DoctorOwner returns the user id of a doctor profile.
	DoctorOwner(ctx context.Context, doctorID int64) (int64, error)
	// AppointmentParties returns the patient and doctor profile ids of an
	// appointment.
	AppointmentParties(ctx context.Context, appointmentID int64) (patientID, doctorID int64, err error)
	// ProfileIDs returns the caller's own patient and doctor profile ids;
	// zero means the account has no such profile.
	ProfileIDs(ctx context.Context, userID int64) (patientID, doctorID int64, err error)
}

// bypass lists the roles that may act on a kind without owning it.
var bypass = map[ResourceKind][]Role{
	ResourcePatient:     {RoleAdmin, RoleDoctor},
	ResourceDoctor:      {RoleAdmin},
	ResourceAppointment: {RoleAdmin},
}

// RequireOwnership returns middleware that admits the caller only when it
// owns the resource named by the :id path parameter, or holds a role that
// bypasses ownership for kind.
func RequireOwnership(kind ResourceKind, owners OwnershipStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := Caller(c)
			if !ok {
				return response.Unauthorized("authentication required")
			}

			roles, supported := bypass[kind]
			if !supported {
				return response.BadRequest(fmt.Sprintf("unsupported resource type: %s", kind))
			}

			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil || id <= 0 {
				return response.BadRequest(fmt.Sprintf("invalid %s id", kind))
			}

			if identity.HasRole(roles...) {
				return next(c)
			}

			owned, err := owns(c.Request().Context(), owners, kind, id, identity)
			if errors.Is(err, store.ErrNotFound) {
				return response.NotFound(fmt.Sprintf("%s not found", kind))
			}
			if err != nil {
				return response.Internalf(err, "could not verify access to %s", kind)
			}
			if !owned {
				return response.Forbidden("unauthorized access to this resource")
			}
			return next(c)
		}
	}
}

func owns(ctx context.Context, owners OwnershipStore, kind ResourceKind, id int64, identity *Identity) (bool, error) {
	switch kind {
	case ResourcePatient:
		userID, err := owners.PatientOwner(ctx, id)
		if err != nil {
			return false, err
		}
		return userID == identity.ID, nil

	case ResourceDoctor:
		userID, err := owners.DoctorOwner(ctx, id)
		if err != nil {
			return false, err
		}
		return userID == identity.ID, nil

	case ResourceAppointment:
		patientID, doctorID, err := owners.AppointmentParties(ctx, id)
		if err != nil {
			return false, err
		}
		myPatient, myDoctor, err := owners.ProfileIDs(ctx, identity.ID)
		if err != nil {
			return false, err
		}
		return (myPatient != 0 && myPatient == patientID) || (myDoctor != 0 && myDoctor == doctorID), nil
	}
	return false, fmt.Errorf("unsupported resource type: %s", kind)
}
