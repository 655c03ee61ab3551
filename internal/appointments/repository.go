package appointments

import (
	"context"
	"fmt"
	"time"

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

// Repository provides persistence helpers for appointments.
type Repository struct {
	pool db
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{pool: pool}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.ScheduledAt,
		&a.Reason,
		&a.Status,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: scan: %w", err)
	}
	return &a, nil
}

// ListByPatient returns all appointments for a patient, newest first.
func (r *Repository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, doctor_id, scheduled_at, reason, status, created_at
		FROM appointments
		WHERE patient_id = $1
		ORDER BY scheduled_at DESC
	`, patientID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by patient: %w", err)
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list by patient: %w", err)
	}
	return result, nil
}

// FindAtInstant returns the non-cancelled appointments a doctor already has at
// exactly the given instant, joined with the booked patient's name.
func (r *Repository) FindAtInstant(ctx context.Context, doctorID uuid.UUID, at time.Time) ([]Conflict, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, p.name
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
		  AND a.scheduled_at = $2
		  AND a.status <> 'cancelled'
	`, doctorID, at)
	if err != nil {
		return nil, fmt.Errorf("appointments: find at instant: %w", err)
	}
	defer rows.Close()

	var result []Conflict
	for rows.Next() {
		var c Conflict
		if err := rows.Scan(&c.AppointmentID, &c.PatientName); err != nil {
			return nil, fmt.Errorf("appointments: scan conflict: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: find at instant: %w", err)
	}
	return result, nil
}

// InsertPending creates a pending appointment row and returns it.
func (r *Repository) InsertPending(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, reason string) (*Appointment, error) {
	id := uuid.New()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, scheduled_at, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', now())
		RETURNING id, patient_id, doctor_id, scheduled_at, reason, status, created_at
	`, id, patientID, doctorID, at, reason)

	a, err := scanAppointment(row)
	if err != nil {
		return nil, fmt.Errorf("appointments: insert pending: %w", err)
	}
	return a, nil
}
