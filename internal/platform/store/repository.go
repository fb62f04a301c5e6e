// Package store defines the persistence contract shared by every resource
// and a PostgreSQL implementation of it built on pgx.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by FindUnique, Update and Delete when no row
	// matches the filter.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput marks payload values that cannot be stored, such as a
	// string where a number is expected or a reference to a missing row.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
)

// Filter is an equality filter keyed by JSON field name. All entries must
// match.
type Filter map[string]any

// Repository is the persistence abstraction for one entity type. Includes
// name relations to load alongside each returned item.
type Repository[T any] interface {
	FindMany(ctx context.Context, where Filter, skip, take int, include ...string) ([]*T, error)
	FindUnique(ctx context.Context, where Filter, include ...string) (*T, error)
	Create(ctx context.Context, data map[string]any) (*T, error)
	Update(ctx context.Context, where Filter, data map[string]any) (*T, error)
	Delete(ctx context.Context, where Filter) error
	Count(ctx context.Context, where Filter) (int, error)
}

// ByID is shorthand for a filter on the primary key.
func ByID(id int64) Filter {
	return Filter{"id": id}
}
