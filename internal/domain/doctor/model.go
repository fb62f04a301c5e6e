package doctor

import (
	"time"

	"github.com/medrec/api/internal/domain/user"
	"github.com/medrec/api/internal/platform/store"
)

type Doctor struct {
	ID                int64     `db:"id" json:"id"`
	UserID            int64     `db:"user_id" json:"userId"`
	Specialization    string    `db:"specialization" json:"specialization"`
	LicenseNumber     string    `db:"license_number" json:"licenseNumber"`
	Phone             *string   `db:"phone" json:"phone,omitempty"`
	YearsOfExperience *int32    `db:"years_of_experience" json:"yearsOfExperience,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`

	User *user.User `db:"-" json:"user,omitempty"`
}

var Table = store.Table{
	Name: "doctors",
	Columns: []store.Column{
		{Name: "id", Field: "id", Kind: store.Int},
		{Name: "user_id", Field: "userId", Kind: store.Int, Writable: true},
		{Name: "specialization", Field: "specialization", Kind: store.Text, Writable: true},
		{Name: "license_number", Field: "licenseNumber", Kind: store.Text, Writable: true},
		{Name: "phone", Field: "phone", Kind: store.Text, Writable: true},
		{Name: "years_of_experience", Field: "yearsOfExperience", Kind: store.Int, Writable: true},
		{Name: "created_at", Field: "createdAt", Kind: store.Time},
		{Name: "updated_at", Field: "updatedAt", Kind: store.Time},
	},
	OrderBy: "id",
}

func NewRepository(q store.Querier) *store.PG[Doctor] {
	return store.NewPG[Doctor](q, Table).
		Relate("user", store.BelongsTo(user.Table,
			func(d *Doctor) *int64 { return &d.UserID },
			func(u *user.User) int64 { return u.ID },
			func(d *Doctor, u *user.User) { d.User = u },
		))
}
