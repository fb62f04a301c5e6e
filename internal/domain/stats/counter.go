// Package stats reports record counts across the system for administrators.
package stats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medrec/api/internal/platform/store"
)

// Overview is a point-in-time summary of what the system holds.
type Overview struct {
	Users                int64            `json:"users"`
	Patients             int64            `json:"patients"`
	Doctors              int64            `json:"doctors"`
	Appointments         int64            `json:"appointments"`
	Diseases             int64            `json:"diseases"`
	Symptoms             int64            `json:"symptoms"`
	Medicines            int64            `json:"medicines"`
	Pharmacies           int64            `json:"pharmacies"`
	Prescriptions        int64            `json:"prescriptions"`
	MedicalRecords       int64            `json:"medicalRecords"`
	UsersByRole          map[string]int64 `json:"usersByRole"`
	AppointmentsByStatus map[string]int64 `json:"appointmentsByStatus"`
	GeneratedAt          time.Time        `json:"generatedAt"`
}

// Counter computes an Overview from the source of truth.
type Counter interface {
	Count(ctx context.Context) (*Overview, error)
}

// PGCounter counts rows with plain COUNT(*) queries.
type PGCounter struct {
	q store.Querier
}

func NewCounter(q store.Querier) *PGCounter {
	return &PGCounter{q: q}
}

func (pc *PGCounter) Count(ctx context.Context) (*Overview, error) {
	o := &Overview{GeneratedAt: time.Now().UTC()}
	totals := []struct {
		table string
		dst   *int64
	}{
		{"users", &o.Users},
		{"patients", &o.Patients},
		{"doctors", &o.Doctors},
		{"appointments", &o.Appointments},
		{"diseases", &o.Diseases},
		{"symptoms", &o.Symptoms},
		{"medicines", &o.Medicines},
		{"pharmacies", &o.Pharmacies},
		{"prescriptions", &o.Prescriptions},
		{"medical_records", &o.MedicalRecords},
	}

	selects := make([]string, len(totals))
	dests := make([]any, len(totals))
	for i, t := range totals {
		selects[i] = fmt.Sprintf("(SELECT COUNT(*) FROM %s)", t.table)
		dests[i] = t.dst
	}
	if err := pc.q.QueryRow(ctx, "SELECT "+strings.Join(selects, ", ")).Scan(dests...); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	var err error
	if o.UsersByRole, err = pc.histogram(ctx, "users", "role"); err != nil {
		return nil, err
	}
	if o.AppointmentsByStatus, err = pc.histogram(ctx, "appointments", "status"); err != nil {
		return nil, err
	}
	return o, nil
}

func (pc *PGCounter) histogram(ctx context.Context, table, column string) (map[string]int64, error) {
	rows, err := pc.q.Query(ctx,
		fmt.Sprintf("SELECT %[2]s, COUNT(*) FROM %[1]s GROUP BY %[2]s ORDER BY %[2]s", table, column))
	if err != nil {
		return nil, fmt.Errorf("count %s by %s: %w", table, column, err)
	}

	out := make(map[string]int64)
	var (
		key string
		n   int64
	)
	_, err = pgx.ForEachRow(rows, []any{&key, &n}, func() error {
		out[key] = n
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("count %s by %s: %w", table, column, err)
	}
	return out, nil
}
