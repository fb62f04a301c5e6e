package user

import (
	"time"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/store"
)

// User maps to the users table. The password hash is write-only and never
// leaves the store through this type.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FirstName string    `db:"first_name" json:"firstName"`
	LastName  string    `db:"last_name" json:"lastName"`
	Role      auth.Role `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Identity is the subset of the account carried in tokens.
func (u *User) Identity() auth.Identity {
	return auth.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

var Table = store.Table{
	Name: "users",
	Columns: []store.Column{
		{Name: "id", Field: "id", Kind: store.Int},
		{Name: "email", Field: "email", Kind: store.Text, Writable: true},
		{Name: "password_hash", Field: "passwordHash", Kind: store.Text, Writable: true, WriteOnly: true},
		{Name: "first_name", Field: "firstName", Kind: store.Text, Writable: true},
		{Name: "last_name", Field: "lastName", Kind: store.Text, Writable: true},
		{Name: "role", Field: "role", Kind: store.Text, Writable: true},
		{Name: "created_at", Field: "createdAt", Kind: store.Time},
		{Name: "updated_at", Field: "updatedAt", Kind: store.Time},
	},
}

// Credentials is what login needs to check a password.
type Credentials struct {
	ID           int64
	PasswordHash string
}
