package user

import (
	"context"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/store"
)

func NewRepository(q store.Querier) *store.PG[User] {
	return store.NewPG[User](q, Table)
}

// Accounts answers the credential and identity lookups that the generic
// repository does not cover.
type Accounts struct {
	q store.Querier
}

func NewAccounts(q store.Querier) *Accounts {
	return &Accounts{q: q}
}

// Credentials returns store.ErrNotFound for unknown emails.
func (a *Accounts) Credentials(ctx context.Context, email string) (*Credentials, error) {
	var cr Credentials
	err := a.q.QueryRow(ctx,
		`SELECT id, password_hash FROM users WHERE email = $1`, normalizeEmail(email),
	).Scan(&cr.ID, &cr.PasswordHash)
	if err != nil {
		return nil, store.Translate(err)
	}
	return &cr, nil
}

// LookupIdentity loads the profile the authentication guard attaches.
func (a *Accounts) LookupIdentity(ctx context.Context, id int64) (*auth.Profile, error) {
	var p auth.Profile
	err := a.q.QueryRow(ctx,
		`SELECT id, email, role, first_name, last_name FROM users WHERE id = $1`, id,
	).Scan(&p.ID, &p.Email, &p.Role, &p.FirstName, &p.LastName)
	if err != nil {
		return nil, store.Translate(err)
	}
	return &p, nil
}
