package disease

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medrec/api/internal/domain/symptom"
	"github.com/medrec/api/internal/platform/store"
)

// LinkStore maintains the many-to-many relation between diseases and their
// symptoms. Missing diseases or symptoms are reported as store.ErrNotFound.
type LinkStore interface {
	Symptoms(ctx context.Context, diseaseID int64) ([]*symptom.Symptom, error)
	Diseases(ctx context.Context, symptomID int64) ([]*Disease, error)
	// Link is idempotent.
	Link(ctx context.Context, diseaseID, symptomID int64) error
	Unlink(ctx context.Context, diseaseID, symptomID int64) error
}

var _ LinkStore = (*PGLinks)(nil)

// PGLinks is the disease_symptoms table.
type PGLinks struct {
	q store.Querier
}

func NewLinkStore(q store.Querier) *PGLinks {
	return &PGLinks{q: q}
}

func (s *PGLinks) Symptoms(ctx context.Context, diseaseID int64) ([]*symptom.Symptom, error) {
	if err := s.exists(ctx, Table.Name, diseaseID); err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, fmt.Sprintf(`SELECT %s FROM symptoms s
    JOIN disease_symptoms ds ON ds.symptom_id = s.id
    WHERE ds.disease_id = $1
    ORDER BY s.name, s.id`, symptom.Table.SelectList("s")), diseaseID)
	if err != nil {
		return nil, store.Translate(err)
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[symptom.Symptom])
}

func (s *PGLinks) Diseases(ctx context.Context, symptomID int64) ([]*Disease, error) {
	if err := s.exists(ctx, symptom.Table.Name, symptomID); err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, fmt.Sprintf(`SELECT %s FROM diseases d
    JOIN disease_symptoms ds ON ds.disease_id = d.id
    WHERE ds.symptom_id = $1
    ORDER BY d.name, d.id`, Table.SelectList("d")), symptomID)
	if err != nil {
		return nil, store.Translate(err)
	}
	return pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[Disease])
}

func (s *PGLinks) Link(ctx context.Context, diseaseID, symptomID int64) error {
	_, err := s.q.Exec(ctx, `INSERT INTO disease_symptoms (disease_id, symptom_id)
    VALUES ($1, $2) ON CONFLICT DO NOTHING`, diseaseID, symptomID)
	return translateLink(err)
}

func (s *PGLinks) Unlink(ctx context.Context, diseaseID, symptomID int64) error {
	tag, err := s.q.Exec(ctx,
		`DELETE FROM disease_symptoms WHERE disease_id = $1 AND symptom_id = $2`, diseaseID, symptomID)
	if err != nil {
		return store.Translate(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PGLinks) exists(ctx context.Context, table string, id int64) error {
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

// translateLink reports a foreign key violation as a missing endpoint.
func translateLink(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return store.ErrNotFound
	}
	return store.Translate(err)
}
