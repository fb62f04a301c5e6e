package user

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medrec/api/internal/platform/auth"
	"github.com/medrec/api/internal/platform/response"
	"github.com/medrec/api/internal/platform/store"
	"github.com/medrec/api/internal/platform/validation"
)

// NewAccount is the input of CreateAccount.
type NewAccount struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      auth.Role `json:"role"`
}

func (n NewAccount) record() map[string]any {
	return map[string]any{
		"email":     n.Email,
		"password":  n.Password,
		"firstName": n.FirstName,
		"lastName":  n.LastName,
		"role":      string(n.Role),
	}
}

// ErrEmailTaken is returned by CreateAccount for a duplicate email.
var ErrEmailTaken = errors.New("email already registered")

// CreateAccount validates n, hashes its password and stores the account.
// Register and the user create command both go through here.
func CreateAccount(ctx context.Context, repo store.Repository[User], n NewAccount) (*User, error) {
	data := n.record()
	if errs := validation.Validate(data, CreateSchema); len(errs) > 0 {
		return nil, errs
	}
	if err := hashPassword(data); err != nil {
		return nil, err
	}

	u, err := repo.Create(ctx, data)
	if errors.Is(err, store.ErrConflict) {
		return nil, ErrEmailTaken
	}
	return u, err
}

// hashPassword replaces a plain "password" with its bcrypt hash and drops
// any client supplied hash.
func hashPassword(data map[string]any) error {
	delete(data, "passwordHash")
	if email, ok := data["email"].(string); ok {
		data["email"] = normalizeEmail(email)
	}

	raw, ok := data["password"]
	delete(data, "password")
	if !ok || raw == nil {
		return nil
	}
	plain, ok := raw.(string)
	if !ok {
		return response.BadRequest("password must be a string")
	}
	hash, err := auth.HashPassword(plain)
	if err != nil {
		return err
	}
	data["passwordHash"] = hash
	return nil
}

// preparePayload is the crud.PrepareFunc for admin user writes.
func preparePayload(_ echo.Context, data map[string]any) error {
	return hashPassword(data)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
