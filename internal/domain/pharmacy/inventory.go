package pharmacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medrec/api/internal/domain/medicine"
	"github.com/medrec/api/internal/platform/store"
)

// InventoryStore tracks which medicines each pharmacy stocks and how many.
// Missing pharmacies or medicines are reported as store.ErrNotFound.
type InventoryStore interface {
	Medicines(ctx context.Context, pharmacyID int64) ([]*StockedMedicine, error)
	Pharmacies(ctx context.Context, medicineID int64) ([]*Stockist, error)
	// SetStock creates or replaces the quantity held.
	SetStock(ctx context.Context, pharmacyID, medicineID int64, quantity int32) (*Stock, error)
	RemoveStock(ctx context.Context, pharmacyID, medicineID int64) error
}

var _ InventoryStore = (*PGInventory)(nil)

// PGInventory is the pharmacy_medicines table.
type PGInventory struct {
	q store.Querier
}

func NewInventoryStore(q store.Querier) *PGInventory {
	return &PGInventory{q: q}
}

func (s *PGInventory) Medicines(ctx context.Context, pharmacyID int64) ([]*StockedMedicine, error) {
	if err := s.exists(ctx, Table.Name, pharmacyID); err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, fmt.Sprintf(`SELECT %s, pm.quantity FROM medicines m
    JOIN pharmacy_medicines pm ON pm.medicine_id = m.id
    WHERE pm.pharmacy_id = $1
    ORDER BY m.name, m.id`, medicine.Table.SelectList("m")), pharmacyID)
	if err != nil {
		return nil, store.Translate(err)
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[StockedMedicine])
}

func (s *PGInventory) Pharmacies(ctx context.Context, medicineID int64) ([]*Stockist, error) {
	if err := s.exists(ctx, medicine.Table.Name, medicineID); err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, fmt.Sprintf(`SELECT %s, pm.quantity FROM pharmacies p
    JOIN pharmacy_medicines pm ON pm.pharmacy_id = p.id
    WHERE pm.medicine_id = $1
    ORDER BY p.name, p.id`, Table.SelectList("p")), medicineID)
	if err != nil {
		return nil, store.Translate(err)
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Stockist])
}

func (s *PGInventory) SetStock(ctx context.Context, pharmacyID, medicineID int64, quantity int32) (*Stock, error) {
	st := Stock{PharmacyID: pharmacyID, MedicineID: medicineID}
	err := s.q.QueryRow(ctx, `INSERT INTO pharmacy_medicines (pharmacy_id, medicine_id, quantity)
    VALUES ($1, $2, $3)
    ON CONFLICT (pharmacy_id, medicine_id)
    DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()
    RETURNING quantity, updated_at`, pharmacyID, medicineID, quantity,
	).Scan(&st.Quantity, &st.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, store.ErrNotFound
		}
		return nil, store.Translate(err)
	}
	return &st, nil
}

func (s *PGInventory) RemoveStock(ctx context.Context, pharmacyID, medicineID int64) error {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM pharmacy_medicines WHERE pharmacy_id = $1 AND medicine_id = $2`, pharmacyID, medicineID)
	if err != nil {
		return store.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PGInventory) exists(ctx context.Context, table string, id int64) error {
	var ok bool
	err := s.q.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table), id).Scan(&ok)
	if err != nil {
		return store.Translate(err)
	}
	if !ok {
		return store.ErrNotFound
	}
	return nil
}
