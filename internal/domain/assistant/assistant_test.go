package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medicare/frontdesk/internal/domain/identity"
	"github.com/medicare/frontdesk/internal/domain/ward"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, systemInstruction, prompt string) (string, error) {
	args := m.Called(ctx, systemInstruction, prompt)
	return args.String(0), args.Error(1)
}

func fixedClock() time.Time { return time.Date(2023, 10, 24, 14, 5, 0, 0, time.UTC) }

func TestAsk(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything,
		"You are a helpful AI assistant for a hospital management system. Data: medicines. Concise answers only.",
		`Data: [{"id":"M001"}]`+"\nQuestion: What is low?",
	).Return("Nothing is low.", nil).Once()

	a := New(gen, zerolog.Nop())
	ans, err := a.Ask(context.Background(), "medicines", []map[string]string{{"id": "M001"}}, "  What is low?  ")
	require.NoError(t, err)
	assert.Equal(t, "Nothing is low.", ans.Text)
	assert.False(t, ans.Degraded)
	assert.NotEmpty(t, ans.RequestID)
	gen.AssertExpectations(t)
}

func TestAsk_EmptyQuestion(t *testing.T) {
	gen := new(mockGenerator)
	a := New(gen, zerolog.Nop())
	_, err := a.Ask(context.Background(), "doctors", nil, "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAsk_GeneratorFailureDegrades(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("boom"))

	a := New(gen, zerolog.Nop())
	ans, err := a.Ask(context.Background(), "doctors", []string{}, "Who is on call?")
	require.NoError(t, err)
	assert.True(t, ans.Degraded)
	assert.Equal(t, UnavailableMessage, ans.Text)
}

func TestAsk_BlankAnswer(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("  \n", nil)

	ans, err := New(gen, zerolog.Nop()).Ask(context.Background(), "doctors", []string{}, "Anyone?")
	require.NoError(t, err)
	assert.False(t, ans.Degraded)
	assert.Equal(t, NoResponseMessage, ans.Text)
}

func TestAsk_NilGenerator(t *testing.T) {
	ans, err := New(nil, zerolog.Nop()).Ask(context.Background(), "doctors", nil, "Anyone?")
	require.NoError(t, err)
	assert.True(t, ans.Degraded)
	assert.Equal(t, UnavailableMessage, ans.Text)
}

func TestAsk_UnencodableDataset(t *testing.T) {
	gen := new(mockGenerator)
	ans, err := New(gen, zerolog.Nop()).Ask(context.Background(), "x", map[string]any{"c": make(chan int)}, "Q?")
	require.NoError(t, err)
	assert.True(t, ans.Degraded)
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAsk_Timeout(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	a := New(gen, zerolog.Nop(), WithTimeout(10*time.Millisecond))
	ans, err := a.Ask(context.Background(), "doctors", []string{}, "Q?")
	require.NoError(t, err)
	assert.True(t, ans.Degraded)
}

func TestCheckAvailability(t *testing.T) {
	doctors := []identity.Doctor{
		{ID: "CD001", Name: "Dr. Sarah Smith", Specialization: identity.Cardiology, WorkingHours: "09:00 - 17:00", Rank: identity.SeniorConsultant},
	}
	beds := []ward.Bed{
		{ID: "B101", Ward: ward.General, Number: "101", Occupant: &ward.Occupancy{PatientName: "James Wilson", DoctorName: "Dr. Sarah Smith"}},
		{ID: "B102", Ward: ward.ICU, Number: "201", Occupant: &ward.Occupancy{PatientName: "Linda Taylor", DoctorName: ward.Unassigned}},
		{ID: "B103", Ward: ward.General, Number: "103"},
	}

	var gotPrompt string
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, receptionistInstruction, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { gotPrompt = args.String(2) }).
		Return("Dr. Smith is busy in Ward General Bed 101.", nil)

	a := New(gen, zerolog.Nop(), WithClock(fixedClock))
	ans, err := a.CheckAvailability(context.Background(), doctors, beds, "Is Dr. Smith free?")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Smith is busy in Ward General Bed 101.", ans.Text)

	assert.True(t, strings.HasPrefix(gotPrompt, "Current Time: 14:05. "))
	assert.Contains(t, gotPrompt, `"workingHours":"09:00 - 17:00"`)
	assert.Contains(t, gotPrompt, `Busy: [{"name":"Dr. Sarah Smith","location":"Ward General Bed 101"}]`)
	assert.Contains(t, gotPrompt, `User asked: "Is Dr. Smith free?"`)
	assert.NotContains(t, gotPrompt, ward.Unassigned)
}

func TestCheckAvailability_BlankAndFailure(t *testing.T) {
	gen := new(mockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", nil).Once()
	gen.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("quota")).Once()

	a := New(gen, zerolog.Nop())
	ans, err := a.CheckAvailability(context.Background(), nil, nil, "Anyone free?")
	require.NoError(t, err)
	assert.Equal(t, NoInfoMessage, ans.Text)

	ans, err = a.CheckAvailability(context.Background(), nil, nil, "Anyone free?")
	require.NoError(t, err)
	assert.Equal(t, UnavailableMessage, ans.Text)
	assert.True(t, ans.Degraded)

	_, err = a.CheckAvailability(context.Background(), nil, nil, "")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}
