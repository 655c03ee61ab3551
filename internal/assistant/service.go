package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mdpulso/clinic-assistant/pkg/logging"
)

var assistantTracer = otel.Tracer("mdpulso.internal.assistant")

const (
	defaultModel       = "openai/gpt-4o-mini"
	defaultTemperature = 0.1
	defaultMaxRounds   = 5
)

// Doctor identifies the authenticated clinician a conversation runs for.
type Doctor struct {
	ID   uuid.UUID
	Name string
}

type toolExecutor interface {
	Execute(ctx context.Context, name string, args json.RawMessage, doctorID uuid.UUID) any
}

// Service drives the tool-calling conversation: it sends the history plus
// tool declarations to the LLM, executes any requested tools, feeds results
// back, and repeats until the model answers without tools or the round limit
// is reached.
type Service struct {
	llm         ChatCompleter
	executor    toolExecutor
	model       string
	temperature float64
	maxRounds   int
	loc         *time.Location
	clock       func() time.Time
	logger      *logging.Logger
}

// ServiceConfig configures the assistant service.
type ServiceConfig struct {
	LLM         ChatCompleter
	Executor    toolExecutor
	Model       string
	Temperature float64
	MaxRounds   int
	Location    *time.Location
	Clock       func() time.Time
	Logger      *logging.Logger
}

// NewService wires the orchestration loop.
func NewService(cfg ServiceConfig) *Service {
	if cfg.LLM == nil {
		panic("assistant: chat completer required")
	}
	if cfg.Executor == nil {
		panic("assistant: tool executor required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = defaultMaxRounds
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		llm:         cfg.LLM,
		executor:    cfg.Executor,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxRounds:   cfg.MaxRounds,
		loc:         cfg.Location,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
	}
}

// Run executes one conversation turn for the acting doctor. The caller
// resends the full history each request; nothing is kept between turns.
// The returned completion mirrors the provider's final response.
func (s *Service) Run(ctx context.Context, doctor Doctor, history []ChatMessage) (*ChatCompletion, error) {
	ctx, span := assistantTracer.Start(ctx, "assistant.run")
	defer span.End()
	span.SetAttributes(attribute.String("mdpulso.doctor_id", doctor.ID.String()))

	system := ChatMessage{
		Role:    ChatRoleSystem,
		Content: systemPrompt(doctor.Name, s.clock(), s.loc),
	}

	conversation := make([]ChatMessage, 0, len(history)+1)
	conversation = append(conversation, history...)

	completion, err := s.complete(ctx, system, conversation)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	message, err := firstMessage(completion)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	conversation = append(conversation, message)

	rounds := 0
	for len(message.ToolCalls) > 0 && rounds < s.maxRounds {
		rounds++
		s.logger.Info("processing tool calls",
			"count", len(message.ToolCalls),
			"round", rounds,
			"doctor_id", doctor.ID,
		)

		// Tool calls run sequentially in emission order: a later call may
		// depend on the side effects of an earlier one.
		for _, call := range message.ToolCalls {
			result := s.executor.Execute(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments), doctor.ID)
			content, err := json.Marshal(result)
			if err != nil {
				content = []byte(fmt.Sprintf(`{"error":"failed to encode tool result: %v"}`, err))
			}
			conversation = append(conversation, ChatMessage{
				Role:       ChatRoleTool,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
				Content:    string(content),
			})
		}

		completion, err = s.complete(ctx, system, conversation)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		message, err = firstMessage(completion)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		conversation = append(conversation, message)
	}

	if len(message.ToolCalls) > 0 {
		// Round limit hit with tools still pending: return the last reply
		// as-is rather than looping forever.
		s.logger.Warn("orchestration round limit reached", "rounds", rounds, "doctor_id", doctor.ID)
	}
	orchestrationRounds.Observe(float64(rounds))
	span.SetAttributes(attribute.Int("mdpulso.rounds", rounds))
	return completion, nil
}

func (s *Service) complete(ctx context.Context, system ChatMessage, conversation []ChatMessage) (*ChatCompletion, error) {
	messages := make([]ChatMessage, 0, len(conversation)+1)
	messages = append(messages, system)
	messages = append(messages, conversation...)

	start := time.Now()
	completion, err := s.llm.Complete(ctx, ChatRequest{
		Model:       s.model,
		Messages:    messages,
		Tools:       Registry(),
		ToolChoice:  "auto",
		Temperature: s.temperature,
	})
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	llmLatency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return completion, err
}

func firstMessage(completion *ChatCompletion) (ChatMessage, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return ChatMessage{}, errors.New("assistant: provider returned no choices")
	}
	return completion.Choices[0].Message, nil
}
