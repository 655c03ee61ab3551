package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence helpers for medical notes.
type Repository struct {
	pool db
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("records: pgx pool required")
	}
	return &Repository{pool: pool}
}

// ListByPatient returns all clinical notes for a patient, newest first.
func (r *Repository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]MedicalNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, content, created_at
		FROM medical_notes
		WHERE patient_id = $1
		ORDER BY created_at DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("records: list by patient: %w", err)
	}
	defer rows.Close()

	var result []MedicalNote
	for rows.Next() {
		var n MedicalNote
		if err := rows.Scan(&n.ID, &n.PatientID, &n.DoctorID, &n.Content, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("records: scan: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records: list by patient: %w", err)
	}
	return result, nil
}
