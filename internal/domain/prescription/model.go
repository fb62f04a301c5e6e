package prescription

import (
	"time"

	"github.com/medrec/api/internal/domain/doctor"
	"github.com/medrec/api/internal/domain/medicine"
	"github.com/medrec/api/internal/domain/patient"
	"github.com/medrec/api/internal/domain/pharmacy"
	"github.com/medrec/api/internal/platform/store"
)

const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

var Statuses = []any{StatusActive, StatusCompleted, StatusCancelled}

type Prescription struct {
	ID           int64     `db:"id" json:"id"`
	PatientID    int64     `db:"patient_id" json:"patientId"`
	DoctorID     int64     `db:"doctor_id" json:"doctorId"`
	MedicineID   int64     `db:"medicine_id" json:"medicineId"`
	PharmacyID   *int64    `db:"pharmacy_id" json:"pharmacyId,omitempty"`
	Dosage       string    `db:"dosage" json:"dosage"`
	Frequency    string    `db:"frequency" json:"frequency"`
	DurationDays *int32    `db:"duration_days" json:"durationDays,omitempty"`
	Instructions *string   `db:"instructions" json:"instructions,omitempty"`
	Status       string    `db:"status" json:"status"`
	IssuedAt     time.Time `db:"issued_at" json:"issuedAt"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	Patient  *patient.Patient   `db:"-" json:"patient,omitempty"`
	Doctor   *doctor.Doctor     `db:"-" json:"doctor,omitempty"`
	Medicine *medicine.Medicine `db:"-" json:"medicine,omitempty"`
	Pharmacy *pharmacy.Pharmacy `db:"-" json:"pharmacy,omitempty"`
}

var Table = store.Table{
	Name: "prescriptions",
	Columns: []store.Column{
		{Name: "id", Field: "id", Kind: store.Int},
		{Name: "patient_id", Field: "patientId", Kind: store.Int, Writable: true},
		{Name: "doctor_id", Field: "doctorId", Kind: store.Int, Writable: true},
		{Name: "medicine_id", Field: "medicineId", Kind: store.Int, Writable: true},
		{Name: "pharmacy_id", Field: "pharmacyId", Kind: store.Int, Writable: true},
		{Name: "dosage", Field: "dosage", Kind: store.Text, Writable: true},
		{Name: "frequency", Field: "frequency", Kind: store.Text, Writable: true},
		{Name: "duration_days", Field: "durationDays", Kind: store.Int, Writable: true},
		{Name: "instructions", Field: "instructions", Kind: store.Text, Writable: true},
		{Name: "status", Field: "status", Kind: store.Text, Writable: true},
		{Name: "issued_at", Field: "issuedAt", Kind: store.Time, Writable: true},
		{Name: "created_at", Field: "createdAt", Kind: store.Time},
		{Name: "updated_at", Field: "updatedAt", Kind: store.Time},
	},
	OrderBy: "issued_at DESC, id",
}

func NewRepository(q store.Querier) *store.PG[Prescription] {
	return store.NewPG[Prescription](q, Table).
		Relate("patient", store.BelongsTo(patient.Table,
			func(p *Prescription) *int64 { return &p.PatientID },
			func(pt *patient.Patient) int64 { return pt.ID },
			func(p *Prescription, pt *patient.Patient) { p.Patient = pt },
		)).
		Relate("doctor", store.BelongsTo(doctor.Table,
			func(p *Prescription) *int64 { return &p.DoctorID },
			func(d *doctor.Doctor) int64 { return d.ID },
			func(p *Prescription, d *doctor.Doctor) { p.Doctor = d },
		)).
		Relate("medicine", store.BelongsTo(medicine.Table,
			func(p *Prescription) *int64 { return &p.MedicineID },
			func(m *medicine.Medicine) int64 { return m.ID },
			func(p *Prescription, m *medicine.Medicine) { p.Medicine = m },
		)).
		Relate("pharmacy", store.BelongsTo(pharmacy.Table,
			func(p *Prescription) *int64 { return p.PharmacyID },
			func(ph *pharmacy.Pharmacy) int64 { return ph.ID },
			func(p *Prescription, ph *pharmacy.Pharmacy) { p.Pharmacy = ph },
		))
}
