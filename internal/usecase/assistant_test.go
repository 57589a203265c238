package usecase

import (
	"errors"
	"testing"

	"clinicbot/internal/adapter/memstore"
	"clinicbot/internal/domain"
	"clinicbot/internal/intent"
)

type fixedRetriever struct {
	results []domain.ScoredParagraph
	err     error
}

func (f fixedRetriever) Retrieve(query string, topK int) ([]domain.ScoredParagraph, error) {
	return f.results, f.err
}

func newTestAssistant(ret fixedRetriever) (*Assistant, *memstore.AppointmentStore) {
	appts := memstore.NewAppointmentStore()
	return NewAssistant(intent.NewRouter(ret, 3, nil), appts), appts
}

func respond(t *testing.T, s *Session, input string) string {
	t.Helper()
	out, err := s.Respond(input)
	if err != nil {
		t.Fatalf("Respond(%q): %v", input, err)
	}
	return out
}

func TestSession_BookingFlow(t *testing.T) {
	a, appts := newTestAssistant(fixedRetriever{})
	s := a.NewSession()

	steps := []struct {
		input string
		want  string
		step  BookingStep
	}{
		{"I'd like to book an appointment", intent.PromptName, AwaitingName},
		{"Sara", intent.PromptTreatment, AwaitingTreatment},
		{"Cryolipolysis", intent.PromptDate, AwaitingDate},
		{"2026-11-02", intent.PromptTime, AwaitingTime},
	}
	for _, st := range steps {
		if got := respond(t, s, st.input); got != st.want {
			t.Fatalf("input %q: expected %q, got %q", st.input, st.want, got)
		}
		if s.Step() != st.step {
			t.Fatalf("input %q: expected step %s, got %s", st.input, st.step, s.Step())
		}
	}

	got := respond(t, s, "10:30 AM")
	want := "**Appointment Booked Successfully!**\nName: Sara\nTreatment: Cryolipolysis\nDate: 2026-11-02\nTime: 10:30 AM"
	if got != want {
		t.Errorf("unexpected confirmation:\n%s", got)
	}
	if s.Booking() {
		t.Error("booking should be finished")
	}

	list, err := appts.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(list))
	}
	if list[0].Name != "Sara" || list[0].Time != "10:30 AM" {
		t.Errorf("unexpected appointment: %+v", list[0])
	}
	if list[0].ID == "" {
		t.Error("expected appointment ID")
	}
}

func TestSession_BookingAcceptsAnyInput(t *testing.T) {
	a, appts := newTestAssistant(fixedRetriever{})
	s := a.NewSession()

	respond(t, s, "book")
	// keyword text is an answer, not a new intent
	respond(t, s, "hello")
	respond(t, s, "")
	respond(t, s, "where")
	got := respond(t, s, "exit")

	want := "**Appointment Booked Successfully!**\nName: hello\nTreatment: \nDate: where\nTime: exit"
	if got != want {
		t.Errorf("unexpected confirmation:\n%q", got)
	}
	if appts.Count() != 1 {
		t.Errorf("expected 1 appointment, got %d", appts.Count())
	}
}

func TestSession_Cancel(t *testing.T) {
	a, appts := newTestAssistant(fixedRetriever{})
	s := a.NewSession()

	respond(t, s, "appointment")
	respond(t, s, "Sara")
	s.Cancel()

	if s.Booking() {
		t.Error("expected booking to be abandoned")
	}
	if appts.Count() != 0 {
		t.Errorf("cancelled booking was stored")
	}

	// the next input is routed again
	if got := respond(t, s, "hello"); got != intent.GreetingText {
		t.Errorf("expected greeting, got %q", got)
	}
}

func TestSession_IndependentSessions(t *testing.T) {
	a, appts := newTestAssistant(fixedRetriever{})
	s1 := a.NewSession()
	s2 := a.NewSession()

	respond(t, s1, "book")
	if got := respond(t, s2, "what are your working hours"); got != intent.HoursText {
		t.Errorf("second session affected by first: %q", got)
	}

	for _, in := range []string{"A", "B", "C", "D"} {
		respond(t, s1, in)
	}
	respond(t, s2, "book")
	for _, in := range []string{"E", "F", "G", "H"} {
		respond(t, s2, in)
	}

	if appts.Count() != 2 {
		t.Errorf("expected 2 shared appointments, got %d", appts.Count())
	}
}

func TestSession_Fallback(t *testing.T) {
	ret := fixedRetriever{results: []domain.ScoredParagraph{
		{Paragraph: domain.Paragraph{Position: 0, Content: "Aqualyx dissolves fat."}},
	}}
	a, _ := newTestAssistant(ret)

	if got := respond(t, a.NewSession(), "aqualyx"); got != "Aqualyx dissolves fat." {
		t.Errorf("unexpected reply: %q", got)
	}
}

func TestSession_InvalidInputIsSoft(t *testing.T) {
	a, _ := newTestAssistant(fixedRetriever{err: domain.ErrInvalidInput})

	got, err := a.NewSession().Respond("x")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != InvalidInputText {
		t.Errorf("unexpected reply: %q", got)
	}

	reply, err := a.Ask("x")
	if err != nil || reply.Text != InvalidInputText {
		t.Errorf("Ask: unexpected reply %q, %v", reply.Text, err)
	}
}

func TestSession_RetrieverErrorPropagates(t *testing.T) {
	boom := errors.New("index unavailable")
	a, _ := newTestAssistant(fixedRetriever{err: boom})

	if _, err := a.NewSession().Respond("x"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped retriever error, got %v", err)
	}
}

func TestAssistant_AskIsStateless(t *testing.T) {
	a, appts := newTestAssistant(fixedRetriever{})

	reply, err := a.Ask("book")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Intent != intent.Booking || reply.Text != intent.PromptName {
		t.Errorf("unexpected reply: %+v", reply)
	}

	reply, err = a.Ask("hello")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Intent != intent.Greeting {
		t.Errorf("Ask should not keep booking state, got %s", reply.Intent)
	}
	if appts.Count() != 0 {
		t.Error("Ask must not store appointments")
	}
}
