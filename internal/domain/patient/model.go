package patient

import (
	"time"

	"github.com/medrec/api/internal/domain/user"
	"github.com/medrec/api/internal/platform/store"
)

// Patient is the clinical profile attached to one user account.
type Patient struct {
	ID               int64      `db:"id" json:"id"`
	UserID           int64      `db:"user_id" json:"userId"`
	DateOfBirth      *time.Time `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	Gender           *string    `db:"gender" json:"gender,omitempty"`
	Phone            *string    `db:"phone" json:"phone,omitempty"`
	Address          *string    `db:"address" json:"address,omitempty"`
	BloodType        *string    `db:"blood_type" json:"bloodType,omitempty"`
	EmergencyContact *string    `db:"emergency_contact" json:"emergencyContact,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`

	User *user.User `db:"-" json:"user,omitempty"`
}

var (
	Genders    = []any{"MALE", "FEMALE", "OTHER"}
	BloodTypes = []any{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}
)

var Table = store.Table{
	Name: "patients",
	Columns: []store.Column{
		{Name: "id", Field: "id", Kind: store.Int},
		{Name: "user_id", Field: "userId", Kind: store.Int, Writable: true},
		{Name: "date_of_birth", Field: "dateOfBirth", Kind: store.Date, Writable: true},
		{Name: "gender", Field: "gender", Kind: store.Text, Writable: true},
		{Name: "phone", Field: "phone", Kind: store.Text, Writable: true},
		{Name: "address", Field: "address", Kind: store.Text, Writable: true},
		{Name: "blood_type", Field: "bloodType", Kind: store.Text, Writable: true},
		{Name: "emergency_contact", Field: "emergencyContact", Kind: store.Text, Writable: true},
		{Name: "created_at", Field: "createdAt", Kind: store.Time},
		{Name: "updated_at", Field: "updatedAt", Kind: store.Time},
	},
}

// NewRepository returns the patients repository; "user" can be included.
func NewRepository(q store.Querier) *store.PG[Patient] {
	return store.NewPG[Patient](q, Table).
		Relate("user", store.BelongsTo(user.Table,
			func(p *Patient) *int64 { return &p.UserID },
			func(u *user.User) int64 { return u.ID },
			func(p *Patient, u *user.User) { p.User = u },
		))
}
