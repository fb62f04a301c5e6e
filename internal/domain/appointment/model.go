package appointment

import (
	"time"

	"github.com/medrec/api/internal/domain/doctor"
	"github.com/medrec/api/internal/domain/patient"
	"github.com/medrec/api/internal/platform/store"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

var Statuses = []any{StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled}

type Appointment struct {
	ID          int64     `db:"id" json:"id"`
	PatientID   int64     `db:"patient_id" json:"patientId"`
	DoctorID    int64     `db:"doctor_id" json:"doctorId"`
	ScheduledAt time.Time `db:"scheduled_at" json:"scheduledAt"`
	Status      string    `db:"status" json:"status"`
	Reason      *string   `db:"reason" json:"reason,omitempty"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`

	Patient *patient.Patient `db:"-" json:"patient,omitempty"`
	Doctor  *doctor.Doctor   `db:"-" json:"doctor,omitempty"`
}

var Table = store.Table{
	Name: "appointments",
	Columns: []store.Column{
		{Name: "id", Field: "id", Kind: store.Int},
		{Name: "patient_id", Field: "patientId", Kind: store.Int, Writable: true},
		{Name: "doctor_id", Field: "doctorId", Kind: store.Int, Writable: true},
		{Name: "scheduled_at", Field: "scheduledAt", Kind: store.Time, Writable: true},
		{Name: "status", Field: "status", Kind: store.Text, Writable: true},
		{Name: "reason", Field: "reason", Kind: store.Text, Writable: true},
		{Name: "notes", Field: "notes", Kind: store.Text, Writable: true},
		{Name: "created_at", Field: "createdAt", Kind: store.Time},
		{Name: "updated_at", Field: "updatedAt", Kind: store.Time},
	},
	OrderBy: "scheduled_at DESC, id",
}

func NewRepository(q store.Querier) *store.PG[Appointment] {
	return store.NewPG[Appointment](q, Table).
		Relate("patient", store.BelongsTo(patient.Table,
			func(a *Appointment) *int64 { return &a.PatientID },
			func(p *patient.Patient) int64 { return p.ID },
			func(a *Appointment, p *patient.Patient) { a.Patient = p },
		)).
		Relate("doctor", store.BelongsTo(doctor.Table,
			func(a *Appointment) *int64 { return &a.DoctorID },
			func(d *doctor.Doctor) int64 { return d.ID },
			func(a *Appointment, d *doctor.Doctor) { a.Doctor = d },
		))
}
