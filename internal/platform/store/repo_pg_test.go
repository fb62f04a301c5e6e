package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type widget struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	OwnerID   *int64    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

var widgetTable = Table{
	Name: "widgets",
	Columns: []Column{
		{Name: "id", Field: "id", Kind: Int},
		{Name: "name", Field: "name", Kind: Text, Writable: true},
		{Name: "owner_id", Field: "ownerId", Kind: Int, Writable: true},
		{Name: "secret", Field: "secret", Kind: Text, Writable: true, WriteOnly: true},
		{Name: "created_at", Field: "createdAt", Kind: Time},
		{Name: "updated_at", Field: "updatedAt", Kind: Time},
	},
}

var errQueryCaptured = errors.New("captured")

// recordingQuerier remembers the last statement and returns canned results.
type recordingQuerier struct {
	sql      string
	args     []any
	affected int64
	count    int64
	err      error
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql, q.args = sql, args
	if q.err != nil {
		return pgconn.CommandTag{}, q.err
	}
	if q.affected == 0 {
		return pgconn.NewCommandTag("DELETE 0"), nil
	}
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func (q *recordingQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args
	if q.err != nil {
		return nil, q.err
	}
	return nil, errQueryCaptured
}

func (q *recordingQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql, q.args = sql, args
	return countRow{n: q.count, err: q.err}
}

type countRow struct {
	n   int64
	err error
}

func (r countRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.n
	return nil
}

func TestPG_FindManySQL(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewPG[widget](q, widgetTable)

	_, err := repo.FindMany(context.Background(), Filter{"ownerId": int64(7)}, 20, 10)
	if !errors.Is(err, errQueryCaptured) {
		t.Fatalf("expected captured error, got %v", err)
	}

	want := "SELECT id, name, owner_id, created_at, updated_at FROM widgets WHERE owner_id = $1 ORDER BY id LIMIT $2 OFFSET $3"
	if q.sql != want {
		t.Errorf("sql:\n got  %s\n want %s", q.sql, want)
	}
	if len(q.args) != 3 || q.args[0] != int64(7) || q.args[1] != 10 || q.args[2] != 20 {
		t.Errorf("unexpected args %v", q.args)
	}
}

func TestPG_FindManyUnknownField(t *testing.T) {
	repo := NewPG[widget](&recordingQuerier{}, widgetTable)
	_, err := repo.FindMany(context.Background(), Filter{"nope": 1}, 0, 10)
	if err == nil || !strings.Contains(err.Error(), "unknown filter field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestPG_CreateSQL(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewPG[widget](q, widgetTable)

	_, _ = repo.Create(context.Background(), map[string]any{
		"name":   "bolt",
		"secret": "s3cr3t",
		"id":     float64(99), // read-only, ignored
		"extra":  true,       // unknown, ignored
	})

	want := "INSERT INTO widgets (name, secret) VALUES ($1, $2) RETURNING id, name, owner_id, created_at, updated_at"
	if q.sql != want {
		t.Errorf("sql:\n got  %s\n want %s", q.sql, want)
	}
}

func TestPG_CreateRejectsBadType(t *testing.T) {
	repo := NewPG[widget](&recordingQuerier{}, widgetTable)
	_, err := repo.Create(context.Background(), map[string]any{"ownerId": "abc"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPG_UpdateSQL(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewPG[widget](q, widgetTable)

	_, _ = repo.Update(context.Background(), ByID(3), map[string]any{"name": "nut", "ownerId": float64(2)})

	want := "UPDATE widgets SET name = $1, owner_id = $2, updated_at = NOW() WHERE id = $3 RETURNING id, name, owner_id, created_at, updated_at"
	if q.sql != want {
		t.Errorf("sql:\n got  %s\n want %s", q.sql, want)
	}
	if q.args[1] != int64(2) || q.args[2] != int64(3) {
		t.Errorf("unexpected args %v", q.args)
	}
}

func TestPG_UpdateRequiresFilter(t *testing.T) {
	repo := NewPG[widget](&recordingQuerier{}, widgetTable)
	if _, err := repo.Update(context.Background(), nil, map[string]any{"name": "x"}); err == nil {
		t.Fatal("expected error for unfiltered update")
	}
}

func TestPG_DeleteNotFound(t *testing.T) {
	q := &recordingQuerier{affected: 0}
	repo := NewPG[widget](q, widgetTable)

	err := repo.Delete(context.Background(), ByID(999999))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if q.sql != "DELETE FROM widgets WHERE id = $1" {
		t.Errorf("unexpected sql %s", q.sql)
	}
}

func TestPG_DeleteOK(t *testing.T) {
	repo := NewPG[widget](&recordingQuerier{affected: 1}, widgetTable)
	if err := repo.Delete(context.Background(), ByID(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPG_DeleteStillReferenced(t *testing.T) {
	q := &recordingQuerier{err: &pgconn.PgError{Code: "23503", ConstraintName: "prescriptions_doctor_id_fkey"}}
	repo := NewPG[widget](q, widgetTable)

	err := repo.Delete(context.Background(), ByID(1))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "still referenced") {
		t.Errorf("expected still referenced message, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "does not exist") {
		t.Errorf("delete reported a missing reference: %q", err.Error())
	}
}

func TestPG_Count(t *testing.T) {
	q := &recordingQuerier{count: 42}
	repo := NewPG[widget](q, widgetTable)

	n, err := repo.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
	if q.sql != "SELECT COUNT(*) FROM widgets" {
		t.Errorf("unexpected sql %s", q.sql)
	}
}

func TestPG_UnknownRelation(t *testing.T) {
	repo := NewPG[widget](&recordingQuerier{}, widgetTable)
	err := repo.load(context.Background(), []*widget{{ID: 1}}, []string{"owner"})
	if err == nil || !strings.Contains(err.Error(), "unknown relation") {
		t.Fatalf("expected unknown relation error, got %v", err)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, ErrConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, ErrInvalidInput},
		{"bad text", &pgconn.PgError{Code: "22P02"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(tt.in); !errors.Is(got, tt.want) {
				t.Errorf("translate(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
