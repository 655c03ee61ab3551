package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mdpulso/clinic-assistant/internal/appointments"
	"github.com/mdpulso/clinic-assistant/internal/patients"
	"github.com/mdpulso/clinic-assistant/internal/records"
	"github.com/mdpulso/clinic-assistant/pkg/logging"
)

// searchResultLimit caps search_patients result sets.
const searchResultLimit = 5

type patientDirectory interface {
	SearchByName(ctx context.Context, query string, limit int) ([]patients.Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*patients.Patient, error)
}

type appointmentHistory interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]appointments.Appointment, error)
}

type noteHistory interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]records.MedicalNote, error)
}

type booker interface {
	Book(ctx context.Context, doctorID, patientID uuid.UUID, at time.Time, reason string) (*appointments.BookingResult, error)
}

// Executor dispatches tool calls from the LLM to their implementations. Every
// outcome, including failures, is returned as a JSON-serializable payload:
// the result has to flow back into the model's context as readable content,
// so no error ever crosses this boundary as a Go error.
type Executor struct {
	patients     patientDirectory
	appointments appointmentHistory
	notes        noteHistory
	scheduler    booker
	logger       *logging.Logger
}

// NewExecutor wires the tool executor.
func NewExecutor(dir patientDirectory, appts appointmentHistory, notes noteHistory, scheduler booker, logger *logging.Logger) *Executor {
	if dir == nil || appts == nil || notes == nil || scheduler == nil {
		panic("assistant: executor dependencies required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Executor{
		patients:     dir,
		appointments: appts,
		notes:        notes,
		scheduler:    scheduler,
		logger:       logger,
	}
}

func errorPayload(msg string) map[string]any {
	return map[string]any{"error": msg}
}

// Execute runs one named tool call on behalf of the acting doctor and returns
// the payload to append to the conversation as a tool result.
func (e *Executor) Execute(ctx context.Context, name string, args json.RawMessage, doctorID uuid.UUID) any {
	e.logger.Info("executing assistant tool", "tool", name, "doctor_id", doctorID)

	var result any
	outcome := "ok"
	switch name {
	case ToolSearchPatients:
		result = e.searchPatients(ctx, args)
	case ToolPatientHistory:
		result = e.patientHistory(ctx, args)
	case ToolCreateAppointment:
		result = e.createAppointment(ctx, args, doctorID)
	default:
		result = errorPayload("Tool not found")
	}

	if payload, ok := result.(map[string]any); ok {
		if _, failed := payload["error"]; failed {
			outcome = "error"
		}
	}
	toolExecutionsTotal.WithLabelValues(name, outcome).Inc()
	return result
}

func (e *Executor) searchPatients(ctx context.Context, args json.RawMessage) any {
	var params struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorPayload(fmt.Sprintf("invalid search_patients arguments: %v", err))
	}
	if params.Query == "" {
		return errorPayload("query is required")
	}

	found, err := e.patients.SearchByName(ctx, params.Query, searchResultLimit)
	if err != nil {
		e.logger.Error("patient search failed", "error", err, "query", params.Query)
		return errorPayload(err.Error())
	}

	summaries := make([]patients.Summary, 0, len(found))
	for i := range found {
		summaries = append(summaries, found[i].Summary())
	}
	return summaries
}

func (e *Executor) patientHistory(ctx context.Context, args json.RawMessage) any {
	var params struct {
		PatientID string `json:"patient_id"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorPayload(fmt.Sprintf("invalid get_patient_complete_history arguments: %v", err))
	}
	patientID, err := uuid.Parse(params.PatientID)
	if err != nil {
		return errorPayload(fmt.Sprintf("invalid patient_id: %v", err))
	}

	profile, err := e.patients.GetByID(ctx, patientID)
	if err != nil {
		e.logger.Error("patient history lookup failed", "error", err, "patient_id", patientID)
		return errorPayload(err.Error())
	}

	appts, err := e.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		e.logger.Error("appointment history lookup failed", "error", err, "patient_id", patientID)
		return errorPayload(err.Error())
	}

	notes, err := e.notes.ListByPatient(ctx, patientID)
	if err != nil {
		e.logger.Error("medical note lookup failed", "error", err, "patient_id", patientID)
		return errorPayload(err.Error())
	}

	if appts == nil {
		appts = []appointments.Appointment{}
	}
	if notes == nil {
		notes = []records.MedicalNote{}
	}
	return map[string]any{
		"profile":       profile,
		"appointments":  appts,
		"medical_notes": notes,
	}
}

func (e *Executor) createAppointment(ctx context.Context, args json.RawMessage, doctorID uuid.UUID) any {
	var params struct {
		PatientID string `json:"patient_id"`
		DateTime  string `json:"date_time"`
		Reason    string `json:"reason"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorPayload(fmt.Sprintf("invalid create_appointment arguments: %v", err))
	}
	patientID, err := uuid.Parse(params.PatientID)
	if err != nil {
		return errorPayload(fmt.Sprintf("invalid patient_id: %v", err))
	}
	at, err := time.Parse(time.RFC3339, params.DateTime)
	if err != nil {
		return errorPayload(fmt.Sprintf("invalid date_time, expected ISO 8601 with offset: %v", err))
	}
	if params.Reason == "" {
		return errorPayload("reason is required")
	}

	res, err := e.scheduler.Book(ctx, doctorID, patientID, at, params.Reason)
	if err != nil {
		e.logger.Error("booking attempt failed", "error", err, "patient_id", patientID)
		return errorPayload(err.Error())
	}

	switch res.Rejection {
	case appointments.RejectionPastTime:
		// Tagged so the model can tell "pick a future time" apart from
		// "pick a free time"; the true current instant lets it suggest one.
		return map[string]any{
			"error": fmt.Sprintf("%s: the requested date or time is already in the past. NOTHING WAS BOOKED. "+
				"Tell the user and ask for a new time.", appointments.RejectionPastTime),
			"current_time": res.Now.Format(time.RFC3339),
		}
	case appointments.RejectionOccupied:
		return map[string]any{
			"error": fmt.Sprintf("%s: the %s slot is already booked for %s. NOTHING WAS BOOKED. "+
				"Tell the user and ask them to suggest another time.", appointments.RejectionOccupied, res.LocalTime, res.OccupiedBy),
			"schedule_status": "OCCUPIED",
		}
	}

	return map[string]any{
		"success":     true,
		"appointment": res.Appointment,
	}
}
