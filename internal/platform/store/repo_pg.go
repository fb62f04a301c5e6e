package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Loader populates a named relation on a page of already fetched items.
type Loader[T any] func(ctx context.Context, q Querier, items []*T) error

// PG is a Repository backed by one PostgreSQL table. T is scanned with
// pgx.RowToAddrOfStructByName, so its db tags must cover every readable
// column of the table and nothing else.
type PG[T any] struct {
	q         Querier
	table     Table
	relations map[string]Loader[T]
}

func NewPG[T any](q Querier, table Table) *PG[T] {
	return &PG[T]{q: q, table: table, relations: make(map[string]Loader[T])}
}

// Relate registers a relation that callers can request through include.
func (r *PG[T]) Relate(name string, load Loader[T]) *PG[T] {
	r.relations[name] = load
	return r
}

func (r *PG[T]) Table() Table {
	return r.table
}

func (r *PG[T]) FindMany(ctx context.Context, where Filter, skip, take int, include ...string) ([]*T, error) {
	cond, args, err := r.table.where(where, 0)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s",
		r.table.SelectList(""), r.table.Name, cond, r.table.orderBy())
	if take > 0 {
		args = append(args, take)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if skip > 0 {
		args = append(args, skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, translate(err)
	}
	if err := r.load(ctx, items, include); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PG[T]) FindUnique(ctx context.Context, where Filter, include ...string) (*T, error) {
	items, err := r.FindMany(ctx, where, 0, 1, include...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items[0], nil
}

func (r *PG[T]) Create(ctx context.Context, data map[string]any) (*T, error) {
	cols, args, err := r.table.assignments(data)
	if err != nil {
		return nil, err
	}

	var query string
	if len(cols) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s",
			r.table.Name, r.table.SelectList(""))
	} else {
		placeholders := make([]string, len(cols))
		for i := range cols {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		}
		query = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			r.table.Name, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
			r.table.SelectList(""))
	}

	return r.one(ctx, query, args)
}

func (r *PG[T]) Update(ctx context.Context, where Filter, data map[string]any) (*T, error) {
	if len(where) == 0 {
		return nil, fmt.Errorf("%s: update requires a filter", r.table.Name)
	}
	cols, args, err := r.table.assignments(data)
	if err != nil {
		return nil, err
	}

	sets := make([]string, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
	}
	if r.table.hasColumn("updated_at") {
		sets = append(sets, "updated_at = NOW()")
	}
	if len(sets) == 0 {
		return r.FindUnique(ctx, where)
	}

	cond, condArgs, err := r.table.where(where, len(args))
	if err != nil {
		return nil, err
	}
	args = append(args, condArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s RETURNING %s",
		r.table.Name, strings.Join(sets, ", "), cond, r.table.SelectList(""))
	return r.one(ctx, query, args)
}

func (r *PG[T]) Delete(ctx context.Context, where Filter) error {
	if len(where) == 0 {
		return fmt.Errorf("%s: delete requires a filter", r.table.Name)
	}
	cond, args, err := r.table.where(where, 0)
	if err != nil {
		return err
	}

	tag, err := r.q.Exec(ctx, fmt.Sprintf("DELETE FROM %s%s", r.table.Name, cond), args...)
	if err != nil {
		return translateDelete(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PG[T]) Count(ctx context.Context, where Filter) (int, error) {
	cond, args, err := r.table.where(where, 0)
	if err != nil {
		return 0, err
	}

	var n int64
	err = r.q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.table.Name, cond), args...).Scan(&n)
	if err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

func (r *PG[T]) one(ctx context.Context, query string, args []any) (*T, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (r *PG[T]) load(ctx context.Context, items []*T, include []string) error {
	if len(items) == 0 {
		return nil
	}
	for _, name := range include {
		load, ok := r.relations[name]
		if !ok {
			return fmt.Errorf("%s: unknown relation %q", r.table.Name, name)
		}
		if err := load(ctx, r.q, items); err != nil {
			return fmt.Errorf("load %s.%s: %w", r.table.Name, name, err)
		}
	}
	return nil
}

// translate maps pgx and PostgreSQL errors onto the package sentinels.
func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.Detail)
		case "23503":
			return fmt.Errorf("%w: referenced record does not exist", ErrInvalidInput)
		case "23502", "23514", "22P02", "22007", "22008", "22001":
			return fmt.Errorf("%w: %s", ErrInvalidInput, pgErr.Message)
		}
	}
	return err
}

// translateDelete reports a foreign key violation on delete as rows in
// another table still pointing at the target.
func translateDelete(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: record is still referenced", ErrInvalidInput)
	}
	return translate(err)
}

// Translate exposes the error mapping to hand written queries in other
// packages.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	return translate(err)
}
