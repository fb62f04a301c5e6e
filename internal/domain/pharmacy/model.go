package pharmacy

import (
	"time"

	"github.com/medrec/api/internal/domain/medicine"
	"github.com/medrec/api/internal/platform/store"
)

type Pharmacy struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

var Table = store.Table{
	Name: "pharmacies",
	Columns: []store.Column{
		{Name: "id", Field: "id", Kind: store.Int},
		{Name: "name", Field: "name", Kind: store.Text, Writable: true},
		{Name: "address", Field: "address", Kind: store.Text, Writable: true},
		{Name: "phone", Field: "phone", Kind: store.Text, Writable: true},
		{Name: "email", Field: "email", Kind: store.Text, Writable: true},
		{Name: "created_at", Field: "createdAt", Kind: store.Time},
		{Name: "updated_at", Field: "updatedAt", Kind: store.Time},
	},
	OrderBy: "name, id",
}

func NewRepository(q store.Querier) *store.PG[Pharmacy] {
	return store.NewPG[Pharmacy](q, Table)
}

// StockedMedicine is a medicine as carried by one pharmacy.
type StockedMedicine struct {
	medicine.Medicine
	Quantity int32 `db:"quantity" json:"quantity"`
}

// Stockist is a pharmacy carrying one medicine.
type Stockist struct {
	Pharmacy
	Quantity int32 `db:"quantity" json:"quantity"`
}

// Stock is one pharmacy_medicines row.
type Stock struct {
	PharmacyID int64     `json:"pharmacyId"`
	MedicineID int64     `json:"medicineId"`
	Quantity   int32     `json:"quantity"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
