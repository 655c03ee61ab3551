package clinicians

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrProfileNotFound is returned when no profile row exists for a clinician.
var ErrProfileNotFound = errors.New("clinicians: profile not found")

// Profile holds the clinician-facing identity used to personalize the
// assistant's system instruction.
type Profile struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence helpers for clinician profiles.
type Repository struct {
	pool db
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("clinicians: pgx pool required")
	}
	return &Repository{pool: pool}
}

// GetByID loads a clinician profile.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email
		FROM profiles
		WHERE id = $1
	`, id).Scan(&p.ID, &p.FullName, &p.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("clinicians: get profile: %w", err)
	}
	return &p, nil
}

// FullName returns the clinician's display name.
func (r *Repository) FullName(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return p.FullName, nil
}
