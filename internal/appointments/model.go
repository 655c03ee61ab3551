package appointments

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks an appointment through its lifecycle. The assistant only ever
// creates pending appointments; transitions happen through the clinic UI.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// NominalDuration is the display duration of an appointment. Slots are not
// interval-based: conflicts are detected on exact scheduled instants only.
const NominalDuration = 45 * time.Minute

// Appointment is a booked visit for a patient with a clinician.
type Appointment struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Reason      string    `json:"reason"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Conflict identifies an existing non-cancelled appointment occupying an
// instant, with the booked patient's name for user-facing messaging.
type Conflict struct {
	AppointmentID uuid.UUID
	PatientName   string
}
