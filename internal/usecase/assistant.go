package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"clinicbot/internal/domain"
	"clinicbot/internal/intent"
	"clinicbot/internal/port"
)

// InvalidInputText is returned in place of an answer when a query is rejected.
const InvalidInputText = "Sorry, that question is too long. Please shorten it and try again."

// Assistant holds the state shared by all conversations: the intent router
// and the appointment book.
type Assistant struct {
	router       *intent.Router
	appointments port.AppointmentStore
}

// NewAssistant creates an assistant.
func NewAssistant(router *intent.Router, appointments port.AppointmentStore) *Assistant {
	return &Assistant{
		router:       router,
		appointments: appointments,
	}
}

// NewSession starts an independent conversation.
func (a *Assistant) NewSession() *Session {
	return &Session{assistant: a}
}

// Ask answers a single utterance without conversation state. A booking
// request returns only the first booking prompt.
func (a *Assistant) Ask(query string) (intent.Reply, error) {
	reply, err := a.router.Route(query)
	if errors.Is(err, domain.ErrInvalidInput) {
		return intent.Reply{Intent: intent.Fallback, Text: InvalidInputText}, nil
	}
	return reply, err
}

// Appointments returns every appointment booked so far.
func (a *Assistant) Appointments() ([]domain.Appointment, error) {
	return a.appointments.List()
}

// BookingStep is the position of a session in the booking conversation.
type BookingStep int

const (
	NotBooking BookingStep = iota
	AwaitingName
	AwaitingTreatment
	AwaitingDate
	AwaitingTime
)

func (s BookingStep) String() string {
	switch s {
	case NotBooking:
		return "not_booking"
	case AwaitingName:
		return "awaiting_name"
	case AwaitingTreatment:
		return "awaiting_treatment"
	case AwaitingDate:
		return "awaiting_date"
	case AwaitingTime:
		return "awaiting_time"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Session is one conversation. While a booking is in progress every input
// answers the pending prompt; otherwise inputs are routed. A Session is not
// safe for concurrent use.
type Session struct {
	assistant *Assistant
	step      BookingStep
	draft     domain.Appointment
}

// Step reports where the session is in the booking conversation.
func (s *Session) Step() BookingStep {
	return s.step
}

// Booking reports whether a booking is in progress.
func (s *Session) Booking() bool {
	return s.step != NotBooking
}

// Cancel abandons an in-progress booking without storing it.
func (s *Session) Cancel() {
	if s.step != NotBooking {
		slog.Debug("booking cancelled", "step", s.step)
	}
	s.reset()
}

func (s *Session) reset() {
	s.step = NotBooking
	s.draft = domain.Appointment{}
}

// Respond returns the reply to input.
func (s *Session) Respond(input string) (string, error) {
	if s.step != NotBooking {
		return s.advanceBooking(input)
	}

	reply, err := s.assistant.router.Route(input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return InvalidInputText, nil
		}
		return "", err
	}

	if reply.Intent == intent.Booking {
		s.draft = domain.Appointment{}
		s.step = AwaitingName
	}
	return reply.Text, nil
}

// advanceBooking records input as the answer to the current prompt.
// Answers are stored verbatim.
func (s *Session) advanceBooking(input string) (string, error) {
	switch s.step {
	case AwaitingName:
		s.draft.Name = input
		s.step = AwaitingTreatment
		return intent.PromptTreatment, nil
	case AwaitingTreatment:
		s.draft.Treatment = input
		s.step = AwaitingDate
		return intent.PromptDate, nil
	case AwaitingDate:
		s.draft.Date = input
		s.step = AwaitingTime
		return intent.PromptTime, nil
	case AwaitingTime:
		s.draft.Time = input
	default:
		return "", fmt.Errorf("unexpected booking step %s", s.step)
	}

	appt := s.draft
	s.reset()
	if err := s.assistant.appointments.Add(appt); err != nil {
		return "", fmt.Errorf("failed to store appointment: %w", err)
	}
	slog.Info("appointment booked", "treatment", appt.Treatment, "date", appt.Date, "time", appt.Time)
	return Confirmation(appt), nil
}

// Confirmation renders the booking confirmation for appt.
func Confirmation(appt domain.Appointment) string {
	return fmt.Sprintf("**Appointment Booked Successfully!**\nName: %s\nTreatment: %s\nDate: %s\nTime: %s",
		appt.Name, appt.Treatment, appt.Date, appt.Time)
}
