package auth

import (
	"context"
	"fmt"

	"github.com/medrec/api/internal/platform/store"
)

// PGOwnership reads profile ownership from the patients, doctors and
// appointments tables.
type PGOwnership struct {
	q store.Querier
}

func NewOwnershipStore(q store.Querier) *PGOwnership {
	return &PGOwnership{q: q}
}

func (s *PGOwnership) PatientOwner(ctx context.Context, patientID int64) (int64, error) {
	var userID int64
	err := s.q.QueryRow(ctx, `SELECT user_id FROM patients WHERE id = $1`, patientID).Scan(&userID)
	if err != nil {
		return 0, store.Translate(err)
	}
	return userID, nil
}

func (s *PGOwnership) DoctorOwner(ctx context.Context, doctorID int64) (int64, error) {
	var userID int64
	err := s.q.QueryRow(ctx, `SELECT user_id FROM doctors WHERE id = $1`, doctorID).Scan(&userID)
	if err != nil {
		return 0, store.Translate(err)
	}
	return userID, nil
}

func (s *PGOwnership) AppointmentParties(ctx context.Context, appointmentID int64) (int64, int64, error) {
	var patientID, doctorID int64
	err := s.q.QueryRow(ctx,
		`SELECT patient_id, doctor_id FROM appointments WHERE id = $1`, appointmentID,
	).Scan(&patientID, &doctorID)
	if err != nil {
		return 0, 0, store.Translate(err)
	}
	return patientID, doctorID, nil
}

func (s *PGOwnership) ProfileIDs(ctx context.Context, userID int64) (int64, int64, error) {
	var patientID, doctorID *int64
	err := s.q.QueryRow(ctx, `SELECT
    (SELECT id FROM patients WHERE user_id = $1 ORDER BY id LIMIT 1),
    (SELECT id FROM doctors WHERE user_id = $1 ORDER BY id LIMIT 1)`, userID,
	).Scan(&patientID, &doctorID)
	if err != nil {
		return 0, 0, fmt.Errorf("load profiles of user %d: %w", userID, err)
	}

	var p, d int64
	if patientID != nil {
		p = *patientID
	}
	if doctorID != nil {
		d = *doctorID
	}
	return p, d, nil
}
