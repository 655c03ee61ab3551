package patients

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func patientRows(names ...string) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "name", "dni", "phone", "doctor_id", "created_at"})
	dni := "12345678A"
	phone := "+34600111222"
	for _, name := range names {
		rows.AddRow(uuid.New(), name, &dni, &phone, uuid.New(), time.Now())
	}
	return rows
}

func TestSearchByNamePassesLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &Repository{pool: mock}
	mock.ExpectQuery("SELECT id, name, dni, phone").
		WithArgs("gar", 5).
		WillReturnRows(patientRows("Ana García", "Luis Gardel"))

	found, err := repo.SearchByName(context.Background(), "gar", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(found))
	}
	if found[0].Name != "Ana García" {
		t.Fatalf("unexpected first match: %s", found[0].Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &Repository{pool: mock}
	id := uuid.New()
	mock.ExpectQuery("SELECT id, name, dni, phone").
		WithArgs(id).
		WillReturnRows(patientRows())

	if _, err := repo.GetByID(context.Background(), id); err != ErrPatientNotFound {
		t.Fatalf("expected ErrPatientNotFound, got %v", err)
	}
}

func TestSummaryProjection(t *testing.T) {
	dni := "X1234"
	p := Patient{ID: uuid.New(), Name: "Carla Ruiz", DNI: &dni, DoctorID: uuid.New()}
	s := p.Summary()
	if s.ID != p.ID || s.Name != p.Name || s.DNI != p.DNI {
		t.Fatal("summary should project id, name and dni")
	}
	if s.Phone != nil {
		t.Fatal("summary phone should stay nil when unset")
	}
}
