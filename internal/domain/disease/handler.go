package disease

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/crud"
	"github.com/medrec/api/internal/platform/response"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/validation"
)

type Handler struct {
	ctl   *crud.Controller[Disease]
	links LinkStore
}

func NewHandler(repo store.Repository[Disease], links LinkStore) *Handler {
	return &Handler{ctl: crud.New[Disease](repo, "Disease"), links: links}
}

// RegisterRoutes mounts the disease catalogue and its symptom links,
// including the reverse lookup under /symptoms.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinician := auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor)

	api.GET("/diseases", h.ctl.List)
	api.POST("/diseases", h.ctl.Create, clinician, validation.Request(CreateSchema))
	api.GET("/diseases/:id", h.ctl.Get)
	api.PUT("/diseases/:id", h.ctl.Update, clinician, validation.Request(UpdateSchema))
	api.DELETE("/diseases/:id", h.ctl.Delete, auth.RequireRole(auth.RoleAdmin))

	api.GET("/diseases/:id/symptoms", h.ListSymptoms)
	api.POST("/diseases/:id/symptoms/:symptomId", h.LinkSymptom, clinician)
	api.DELETE("/diseases/:id/symptoms/:symptomId", h.UnlinkSymptom, clinician)
	api.GET("/symptoms/:id/diseases", h.ListDiseases)
}

func (h *Handler) ListSymptoms(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	symptoms, err := h.links.Symptoms(c.Request().Context(), id)
	if err != nil {
		return crud.StoreError(err, "Disease")
	}
	return response.OK(c, nonNil(symptoms))
}

func (h *Handler) ListDiseases(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	diseases, err := h.links.Diseases(c.Request().Context(), id)
	if err != nil {
		return crud.StoreError(err, "Symptom")
	}
	return response.OK(c, nonNil(diseases))
}

func (h *Handler) LinkSymptom(c echo.Context) error {
	diseaseID, symptomID, err := linkIDs(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.links.Link(ctx, diseaseID, symptomID); err != nil {
		return linkError(err)
	}
	symptoms, err := h.links.Symptoms(ctx, diseaseID)
	if err != nil {
		return crud.StoreError(err, "Disease")
	}
	return response.Created(c, nonNil(symptoms), "Symptom linked to disease successfully")
}

func (h *Handler) UnlinkSymptom(c echo.Context) error {
	diseaseID, symptomID, err := linkIDs(c)
	if err != nil {
		return err
	}
	if err := h.links.Unlink(c.Request().Context(), diseaseID, symptomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return response.NotFound("Symptom is not linked to this disease")
		}
		return response.Internal(err)
	}
	return response.Message(c, "Symptom unlinked from disease successfully")
}

func linkIDs(c echo.Context) (int64, int64, error) {
	diseaseID, err := crud.ParseID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	symptomID, err := crud.ParseID(c, "symptomId")
	if err != nil {
		return 0, 0, err
	}
	return diseaseID, symptomID, nil
}

func linkError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return response.NotFound("Disease or symptom not found")
	}
	return response.Internal(err)
}

func nonNil[T any](items []*T) []*T {
	if items == nil {
		return []*T{}
	}
	return items
}
