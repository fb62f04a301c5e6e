package medicalrecord

import (
	"time"

	"github.com/medrec/api/internal/domain/disease"
	"github.com/medrec/api/internal/domain/doctor"
	"github.com/medrec/api/internal/domain/patient"
	"github.com/medrec/api/internal/platform/store"
)

// MedicalRecord is one diagnosis entered by a doctor for a patient.
type MedicalRecord struct {
	ID         int64     `db:"id" json:"id"`
	PatientID  int64     `db:"patient_id" json:"patientId"`
	DoctorID   int64     `db:"doctor_id" json:"doctorId"`
	DiseaseID  *int64    `db:"disease_id" json:"diseaseId,omitempty"`
	Diagnosis  string    `db:"diagnosis" json:"diagnosis"`
	Treatment  *string   `db:"treatment" json:"treatment,omitempty"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	RecordDate time.Time `db:"record_date" json:"recordDate"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`

	Patient *patient.Patient `db:"-" json:"patient,omitempty"`
	Doctor  *doctor.Doctor   `db:"-" json:"doctor,omitempty"`
	Disease *disease.Disease `db:"-" json:"disease,omitempty"`
}

var Table = store.Table{
	Name: "medical_records",
	Columns: []store.Column{
		{Name: "id", Field: "id", Kind: store.Int},
		{Name: "patient_id", Field: "patientId", Kind: store.Int, Writable: true},
		{Name: "doctor_id", Field: "doctorId", Kind: store.Int, Writable: true},
		{Name: "disease_id", Field: "diseaseId", Kind: store.Int, Writable: true},
		{Name: "diagnosis", Field: "diagnosis", Kind: store.Text, Writable: true},
		{Name: "treatment", Field: "treatment", Kind: store.Text, Writable: true},
		{Name: "notes", Field: "notes", Kind: store.Text, Writable: true},
		{Name: "record_date", Field: "recordDate", Kind: store.Date, Writable: true},
		{Name: "created_at", Field: "createdAt", Kind: store.Time},
		{Name: "updated_at", Field: "updatedAt", Kind: store.Time},
	},
	OrderBy: "record_date DESC, id DESC",
}

func NewRepository(q store.Querier) *store.PG[MedicalRecord] {
	return store.NewPG[MedicalRecord](q, Table).
		Relate("patient", store.BelongsTo(patient.Table,
			func(r *MedicalRecord) *int64 { return &r.PatientID },
			func(p *patient.Patient) int64 { return p.ID },
			func(r *MedicalRecord, p *patient.Patient) { r.Patient = p },
		)).
		Relate("doctor", store.BelongsTo(doctor.Table,
			func(r *MedicalRecord) *int64 { return &r.DoctorID },
			func(d *doctor.Doctor) int64 { return d.ID },
			func(r *MedicalRecord, d *doctor.Doctor) { r.Doctor = d },
		)).
		Relate("disease", store.BelongsTo(disease.Table,
			func(r *MedicalRecord) *int64 { return r.DiseaseID },
			func(d *disease.Disease) int64 { return d.ID },
			func(r *MedicalRecord, d *disease.Disease) { r.Disease = d },
		))
}
