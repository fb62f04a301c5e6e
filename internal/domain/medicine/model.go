package medicine

import (
	"time"

	"github.com/medrec/api/internal/platform/store"
)

type Medicine struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	Manufacturer *string   `db:"manufacturer" json:"manufacturer,omitempty"`
	DosageForm   *string   `db:"dosage_form" json:"dosageForm,omitempty"`
	Strength     *string   `db:"strength" json:"strength,omitempty"`
	Price        *float64  `db:"price" json:"price,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

var Table = store.Table{
	Name: "medicines",
	Columns: []store.Column{
		{Name: "id", Field: "id", Kind: store.Int},
		{Name: "name", Field: "name", Kind: store.Text, Writable: true},
		{Name: "description", Field: "description", Kind: store.Text, Writable: true},
		{Name: "manufacturer", Field: "manufacturer", Kind: store.Text, Writable: true},
		{Name: "dosage_form", Field: "dosageForm", Kind: store.Text, Writable: true},
		{Name: "strength", Field: "strength", Kind: store.Text, Writable: true},
		{Name: "price", Field: "price", Kind: store.Float, Writable: true},
		{Name: "created_at", Field: "createdAt", Kind: store.Time},
		{Name: "updated_at", Field: "updatedAt", Kind: store.Time},
	},
	OrderBy: "name, id",
}

func NewRepository(q store.Querier) *store.PG[Medicine] {
	return store.NewPG[Medicine](q, Table)
}
