package records

import (
	"time"

	"github.com/google/uuid"
)

// MedicalNote is a free-text clinical note attached to a patient.
type MedicalNote struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
