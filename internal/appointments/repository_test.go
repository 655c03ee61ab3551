package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func TestFindAtInstantExcludesCancelled(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &Repository{pool: mock}
	doctorID := uuid.New()
	at := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT a.id, p.name`).
		WithArgs(doctorID, at).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(uuid.New(), "María López"))

	conflicts, err := repo.FindAtInstant(context.Background(), doctorID, at)
	if err != nil {
		t.Fatalf("find at instant: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].PatientName != "María López" {
		t.Fatalf("unexpected conflicts: %+v", conflicts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestInsertPendingReturnsRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &Repository{pool: mock}
	doctorID := uuid.New()
	patientID := uuid.New()
	at := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), patientID, doctorID, at, "Control anual").
		WillReturnRows(pgxmock.NewRows([]string{"id", "patient_id", "doctor_id", "scheduled_at", "reason", "status", "created_at"}).
			AddRow(uuid.New(), patientID, doctorID, at, "Control anual", StatusPending, time.Now()))

	created, err := repo.InsertPending(context.Background(), doctorID, patientID, at, "Control anual")
	if err != nil {
		t.Fatalf("insert pending: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if !created.ScheduledAt.Equal(at) {
		t.Fatalf("scheduled_at mismatch, got %s", created.ScheduledAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByPatientOrdersNewestFirst(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &Repository{pool: mock}
	patientID := uuid.New()
	newer := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	older := newer.Add(-7 * 24 * time.Hour)

	mock.ExpectQuery("SELECT id, patient_id, doctor_id, scheduled_at").
		WithArgs(patientID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "patient_id", "doctor_id", "scheduled_at", "reason", "status", "created_at"}).
			AddRow(uuid.New(), patientID, uuid.New(), newer, "Control", StatusConfirmed, time.Now()).
			AddRow(uuid.New(), patientID, uuid.New(), older, "Primera visita", StatusCompleted, time.Now()))

	appts, err := repo.ListByPatient(context.Background(), patientID)
	if err != nil {
		t.Fatalf("list by patient: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(appts))
	}
	if !appts[0].ScheduledAt.Equal(newer) {
		t.Fatalf("expected newest first, got %s", appts[0].ScheduledAt)
	}
}
