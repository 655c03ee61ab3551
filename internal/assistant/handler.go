package assistant

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/mdpulso/clinic-assistant/internal/http/middleware"
	"github.com/mdpulso/clinic-assistant/pkg/logging"
)

const fallbackDoctorName = "Doctor"

type conversationRunner interface {
	Run(ctx context.Context, doctor Doctor, history []ChatMessage) (*ChatCompletion, error)
}

type nameResolver interface {
	FullName(ctx context.Context, id uuid.UUID) (string, error)
}

// Handler wires HTTP requests to the assistant service.
type Handler struct {
	service conversationRunner
	names   nameResolver
	logger  *logging.Logger
}

// NewHandler creates an assistant handler.
func NewHandler(service conversationRunner, names nameResolver, logger *logging.Logger) *Handler {
	if service == nil {
		panic("assistant: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		names:   names,
		logger:  logger,
	}
}

type chatBody struct {
	Messages []ChatMessage `json:"messages"`
}

// HandleChat handles POST /api/assistant. The body carries the full
// conversation history; the session middleware supplies the acting doctor.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doctorID, ok := middleware.DoctorIDFromContext(ctx)
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body chatBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error("failed to decode chat request", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doctor := Doctor{ID: doctorID, Name: fallbackDoctorName}
	if h.names != nil {
		if name, err := h.names.FullName(ctx, doctorID); err == nil && name != "" {
			doctor.Name = name
		} else if err != nil {
			h.logger.Warn("doctor name lookup failed", "error", err, "doctor_id", doctorID)
		}
	}

	completion, err := h.service.Run(ctx, doctor, body.Messages)
	if err != nil {
		h.logger.Error("assistant run failed", "error", err, "doctor_id", doctorID)
		h.writeError(w, http.StatusInternalServerError, "assistant request failed")
		return
	}

	h.writeJSON(w, http.StatusOK, completion)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
