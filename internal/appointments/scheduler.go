package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mdpulso/clinic-assistant/pkg/logging"
)

var schedulerTracer = otel.Tracer("mdpulso.internal.appointments")

// Clock supplies the current instant. Injected so the past-time check can be
// exercised deterministically in tests.
type Clock func() time.Time

// Rejection tags a refused booking so the caller can phrase the right
// follow-up: a past-dated request and an occupied slot need different answers.
type Rejection string

const (
	// RejectionPastTime marks a request scheduled before the current instant.
	RejectionPastTime Rejection = "TIME_PROTOCOL_VIOLATION"
	// RejectionOccupied marks a request colliding with an existing booking.
	RejectionOccupied Rejection = "SCHEDULE_OCCUPIED"
)

// BookingResult is the outcome of a booking attempt. Exactly one of
// Appointment or Rejection is set; persistence failures are returned as
// errors instead.
type BookingResult struct {
	Appointment *Appointment
	Rejection   Rejection

	// Now carries the true current instant on past-time rejections so the
	// caller can propose a corrected time.
	Now time.Time
	// OccupiedBy names the patient holding the slot on occupied rejections.
	OccupiedBy string
	// LocalTime is the requested instant formatted in the clinic timezone.
	LocalTime string
}

// Booked reports whether the attempt created an appointment.
func (r *BookingResult) Booked() bool {
	return r != nil && r.Appointment != nil
}

type bookingStore interface {
	FindAtInstant(ctx context.Context, doctorID uuid.UUID, at time.Time) ([]Conflict, error)
	InsertPending(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, reason string) (*Appointment, error)
}

// Scheduler guards appointment creation: a requested instant must not lie in
// the past and must not collide with another non-cancelled appointment of the
// same doctor before a pending row is written.
type Scheduler struct {
	store  bookingStore
	clock  Clock
	loc    *time.Location
	logger *logging.Logger
}

// SchedulerOption configures the scheduler.
type SchedulerOption func(*Scheduler)

// WithClock overrides the wall clock.
func WithClock(clock Clock) SchedulerOption {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewScheduler wires a booking guard around the supplied store.
func NewScheduler(store bookingStore, loc *time.Location, logger *logging.Logger, opts ...SchedulerOption) *Scheduler {
	if store == nil {
		panic("appointments: booking store required")
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Scheduler{
		store:  store,
		clock:  time.Now,
		loc:    loc,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Book validates the requested instant and, if both checks pass, inserts a
// pending appointment. The past-time check runs first: a stale request is an
// unambiguous rejection that never needs the conflict query.
func (s *Scheduler) Book(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, reason string) (*BookingResult, error) {
	ctx, span := schedulerTracer.Start(ctx, "appointments.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("mdpulso.doctor_id", doctorID.String()),
		attribute.String("mdpulso.patient_id", patientID.String()),
		attribute.String("mdpulso.scheduled_at", at.Format(time.RFC3339)),
	)

	now := s.clock()
	if at.Before(now) {
		s.logger.Warn("booking rejected: requested instant in the past",
			"doctor_id", doctorID,
			"requested_at", at.Format(time.RFC3339),
			"now", now.Format(time.RFC3339),
		)
		return &BookingResult{Rejection: RejectionPastTime, Now: now}, nil
	}

	conflicts, err := s.store.FindAtInstant(ctx, doctorID, at)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(conflicts) > 0 {
		s.logger.Warn("booking rejected: slot occupied",
			"doctor_id", doctorID,
			"requested_at", at.Format(time.RFC3339),
			"occupied_by", conflicts[0].PatientName,
		)
		return &BookingResult{
			Rejection:  RejectionOccupied,
			OccupiedBy: conflicts[0].PatientName,
			LocalTime:  at.In(s.loc).Format("15:04"),
		}, nil
	}

	created, err := s.store.InsertPending(ctx, doctorID, patientID, at, reason)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Info("appointment booked",
		"appointment_id", created.ID,
		"doctor_id", doctorID,
		"patient_id", patientID,
		"scheduled_at", created.ScheduledAt.Format(time.RFC3339),
	)
	return &BookingResult{Appointment: created}, nil
}
