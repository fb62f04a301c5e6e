package pharmacy

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
	ctl       *crud.Controller[Pharmacy]
	inventory InventoryStore
}

func NewHandler(repo store.Repository[Pharmacy], inventory InventoryStore) *Handler {
	return &Handler{ctl: crud.New[Pharmacy](repo, "Pharmacy"), inventory: inventory}
}

// RegisterRoutes mounts pharmacies, their stock, and the reverse lookup of
// where a medicine is stocked.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	admin := auth.RequireRole(auth.RoleAdmin)

	api.GET("/pharmacies", h.ctl.List)
	api.POST("/pharmacies", h.ctl.Create, admin, validation.Request(CreateSchema))
	api.GET("/pharmacies/:id", h.ctl.Get)
	api.PUT("/pharmacies/:id", h.ctl.Update, admin, validation.Request(UpdateSchema))
	api.DELETE("/pharmacies/:id", h.ctl.Delete, admin)

	api.GET("/pharmacies/:id/medicines", h.ListMedicines)
	api.PUT("/pharmacies/:id/medicines/:medicineId", h.SetStock, admin, validation.Request(StockSchema))
	api.DELETE("/pharmacies/:id/medicines/:medicineId", h.RemoveStock, admin)
	api.GET("/medicines/:id/pharmacies", h.ListPharmacies)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.inventory.Medicines(c.Request().Context(), id)
	if err != nil {
		return crud.StoreError(err, "Pharmacy")
	}
	if items == nil {
		items = []*StockedMedicine{}
	}
	return response.OK(c, items)
}

func (h *Handler) ListPharmacies(c echo.Context) error {
	id, err := crud.ParseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.inventory.Pharmacies(c.Request().Context(), id)
	if err != nil {
		return crud.StoreError(err, "Medicine")
	}
	if items == nil {
		items = []*Stockist{}
	}
	return response.OK(c, items)
}

func (h *Handler) SetStock(c echo.Context) error {
	pharmacyID, medicineID, err := stockIDs(c)
	if err != nil {
		return err
	}
	body, err := crud.DecodeBody(c)
	if err != nil {
		return err
	}
	qty, _ := body["quantity"].(float64)

	st, err := h.inventory.SetStock(c.Request().Context(), pharmacyID, medicineID, int32(qty))
	if errors.Is(err, store.ErrNotFound) {
		return response.NotFound("Pharmacy or medicine not found")
	}
	if err != nil {
		return crud.StoreError(err, "Stock")
	}
	return response.Updated(c, st, "Stock updated successfully")
}

func (h *Handler) RemoveStock(c echo.Context) error {
	pharmacyID, medicineID, err := stockIDs(c)
	if err != nil {
		return err
	}
	err = h.inventory.RemoveStock(c.Request().Context(), pharmacyID, medicineID)
	if errors.Is(err, store.ErrNotFound) {
		return response.NotFound("Medicine is not stocked by this pharmacy")
	}
	if err != nil {
		return response.Internal(err)
	}
	return response.Message(c, "Stock removed successfully")
}

func stockIDs(c echo.Context) (int64, int64, error) {
	pharmacyID, err := crud.ParseID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	medicineID, err := crud.ParseID(c, "medicineId")
	if err != nil {
		return 0, 0, err
	}
	return pharmacyID, medicineID, nil
}
