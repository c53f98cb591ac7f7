// Package assistant answers free-text questions about front-desk data using a
// remote text model. The model is untrusted and optional: any failure turns
// into a fixed message and never touches front-desk state.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicare/frontdesk/internal/domain/identity"
	"github.com/medicare/frontdesk/internal/domain/ward"
)

const (
	UnavailableMessage = "Service unavailable."
	NoResponseMessage  = "No response."
	NoInfoMessage      = "No info."

	receptionistInstruction = "You are a smart hospital receptionist. Concise answers only."
)

var ErrEmptyQuestion = errors.New("question is empty")

// Generator produces text for a prompt under a system instruction.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// Answer is the assistant's reply. Degraded is set when the model could not
// be reached and Text holds UnavailableMessage.
type Answer struct {
	RequestID string `json:"requestId"`
	Text      string `json:"text"`
	Degraded  bool   `json:"degraded"`
}

type Assistant struct {
	gen     Generator
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

type Option func(*Assistant)

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option { return func(a *Assistant) { a.timeout = d } }

func WithClock(now func() time.Time) Option { return func(a *Assistant) { a.now = now } }

// New returns an assistant backed by gen. A nil gen always answers with
// UnavailableMessage.
func New(gen Generator, logger zerolog.Logger, opts ...Option) *Assistant {
	a := &Assistant{
		gen:     gen,
		timeout: 30 * time.Second,
		now:     time.Now,
		log:     logger.With().Str("component", "assistant").Logger(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Ask answers question about dataset. topic names the data, e.g. "doctors".
func (a *Assistant) Ask(ctx context.Context, topic string, dataset any, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}
	data, err := json.Marshal(dataset)
	if err != nil {
		return a.degrade(uuid.NewString(), fmt.Errorf("encode dataset: %w", err)), nil
	}
	instruction := fmt.Sprintf("You are a helpful AI assistant for a hospital management system. Data: %s. Concise answers only.", topic)
	prompt := fmt.Sprintf("Data: %s\nQuestion: %s", data, question)
	return a.generate(ctx, instruction, prompt, NoResponseMessage), nil
}

type busyDoctor struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// CheckAvailability asks whether doctors are free, given their working hours
// and the beds they are currently attending.
func (a *Assistant) CheckAvailability(ctx context.Context, doctors []identity.Doctor, beds []ward.Bed, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}
	busy := []busyDoctor{}
	for _, b := range beds {
		if !b.IsOccupied() || b.Occupant.DoctorName == "" || b.Occupant.DoctorName == ward.Unassigned {
			continue
		}
		busy = append(busy, busyDoctor{
			Name:     b.Occupant.DoctorName,
			Location: fmt.Sprintf("Ward %s Bed %s", b.Ward, b.Number),
		})
	}
	if doctors == nil {
		doctors = []identity.Doctor{}
	}
	docJSON, err := json.Marshal(doctors)
	if err != nil {
		return a.degrade(uuid.NewString(), err), nil
	}
	busyJSON, err := json.Marshal(busy)
	if err != nil {
		return a.degrade(uuid.NewString(), err), nil
	}
	prompt := fmt.Sprintf(
		"Current Time: %s. Doctors: %s. Busy: %s. User asked: %q. Check availability based on hours and active patients.",
		a.now().Format("15:04"), docJSON, busyJSON, question,
	)
	return a.generate(ctx, receptionistInstruction, prompt, NoInfoMessage), nil
}

func (a *Assistant) generate(ctx context.Context, instruction, prompt, blank string) Answer {
	id := uuid.NewString()
	if a.gen == nil {
		return a.degrade(id, errors.New("no generator configured"))
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	start := a.now()
	text, err := a.gen.Generate(ctx, instruction, prompt)
	if err != nil {
		return a.degrade(id, err)
	}
	a.log.Debug().Str("request_id", id).Dur("duration", a.now().Sub(start)).Msg("assistant answered")
	if strings.TrimSpace(text) == "" {
		return Answer{RequestID: id, Text: blank}
	}
	return Answer{RequestID: id, Text: text}
}

func (a *Assistant) degrade(id string, err error) Answer {
	a.log.Warn().Err(err).Str("request_id", id).Msg("assistant unavailable")
	return Answer{RequestID: id, Text: UnavailableMessage, Degraded: true}
}
