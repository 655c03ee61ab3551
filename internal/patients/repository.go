package patients

import (
	"context"
	"errors"
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

// Repository provides persistence helpers for patients.
type Repository struct {
	pool db
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &Repository{pool: pool}
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.DNI,
		&p.Phone,
		&p.DoctorID,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("patients: scan: %w", err)
	}
	return &p, nil
}

// SearchByName returns patients whose display name contains the query,
// case-insensitively, capped at limit rows.
func (r *Repository) SearchByName(ctx context.Context, query string, limit int) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, dni, phone, doctor_id, created_at
		FROM patients
		WHERE name ILIKE '%' || $1 || '%'
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("patients: search by name: %w", err)
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patients: search by name: %w", err)
	}
	return result, nil
}

// GetByID loads a single patient row.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, dni, phone, doctor_id, created_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}
