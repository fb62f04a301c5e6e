package symptom

import (
	"time"

	"github.com/medrec/api/internal/platform/store"
)

const (
	SeverityMild     = "MILD"
	SeverityModerate = "MODERATE"
	SeveritySevere   = "SEVERE"
)

var Severities = []any{SeverityMild, SeverityModerate, SeveritySevere}

type Symptom struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Severity    *string   `db:"severity" json:"severity,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

var Table = store.Table{
	Name: "symptoms",
	Columns: []store.Column{
		{Name: "id", Field: "id", Kind: store.Int},
		{Name: "name", Field: "name", Kind: store.Text, Writable: true},
		{Name: "description", Field: "description", Kind: store.Text, Writable: true},
		{Name: "severity", Field: "severity", Kind: store.Text, Writable: true},
		{Name: "created_at", Field: "createdAt", Kind: store.Time},
		{Name: "updated_at", Field: "updatedAt", Kind: store.Time},
	},
	OrderBy: "name, id",
}

func NewRepository(q store.Querier) *store.PG[Symptom] {
	return store.NewPG[Symptom](q, Table)
}
