package patients

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrPatientNotFound is returned when a patient lookup matches no row.
var ErrPatientNotFound = errors.New("patients: patient not found")

// Patient is a person registered to a clinician's practice.
type Patient struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	DNI       *string   `json:"dni"`
	Phone     *string   `json:"phone"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the reduced projection returned by name searches.
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	DNI   *string   `json:"dni"`
	Phone *string   `json:"phone"`
}

// Summary returns the reduced search projection of the patient.
func (p *Patient) Summary() Summary {
	return Summary{ID: p.ID, Name: p.Name, DNI: p.DNI, Phone: p.Phone}
}
