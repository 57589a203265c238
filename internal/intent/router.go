package intent

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"clinicbot/internal/domain"
	"clinicbot/internal/port"
)

// Intent names the rule that produced a reply.
type Intent string

const (
	Greeting   Intent = "greeting"
	About      Intent = "about"
	Hours      Intent = "hours"
	Location   Intent = "location"
	Contact    Intent = "contact"
	Treatments Intent = "treatments"
	Booking    Intent = "booking"
	Fallback   Intent = "fallback"
)

// Reply is the router's answer to one utterance.
type Reply struct {
	Intent Intent
	Text   string
}

// Rule is one keyword intent. Match receives the normalized query.
type Rule struct {
	Intent Intent
	Match  func(q string) bool
	Text   string
}

// DefaultRules returns the clinic's intents in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Greeting, exactly("hi", "hello", "hey", "good morning", "good evening"), GreetingText},
		{About, containsAny("about", "clinic", "elite body home", "who are you"), AboutText},
		{Hours, containsAny("working hours", "timings", "hours", "open"), HoursText},
		{Location, containsAny("location", "address", "where"), LocationText},
		{Contact, containsAny("contact", "phone", "email", "call"), ContactText},
		{Treatments, containsAny("treatment", "treatments", "services", "procedures"), TreatmentsText},
		{Booking, containsAny("book", "appointment"), PromptName},
	}
}

// Router classifies utterances by the first matching rule and falls back
// to semantic retrieval when none match.
type Router struct {
	rules     []Rule
	retriever port.Retriever
	topK      int
}

// NewRouter creates a router over rules. A nil rules slice uses DefaultRules.
func NewRouter(retriever port.Retriever, topK int, rules []Rule) *Router {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Router{
		rules:     rules,
		retriever: retriever,
		topK:      topK,
	}
}

// Normalize lowercases q and trims surrounding whitespace.
func Normalize(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Route answers query. Only the fallback can fail, and only when the
// retriever does.
func (r *Router) Route(query string) (Reply, error) {
	q := Normalize(query)
	for _, rule := range r.rules {
		if rule.Match(q) {
			slog.Debug("intent matched", "intent", rule.Intent)
			return Reply{Intent: rule.Intent, Text: rule.Text}, nil
		}
	}

	text, err := r.fallback(query)
	if errors.Is(err, domain.ErrEmptyResult) {
		return Reply{Intent: Fallback, Text: NotFoundText}, nil
	}
	if err != nil {
		return Reply{}, err
	}
	return Reply{Intent: Fallback, Text: text}, nil
}

// fallback answers with the nearest paragraphs joined by blank lines.
// Retrieval sees the raw query, not the normalized one.
func (r *Router) fallback(query string) (string, error) {
	results, err := r.retriever.Retrieve(query, r.topK)
	if err != nil {
		return "", fmt.Errorf("fallback retrieval: %w", err)
	}
	if len(results) == 0 {
		return "", domain.ErrEmptyResult
	}
	return strings.Join(domain.Contents(results), "\n\n"), nil
}

func exactly(words ...string) func(string) bool {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return func(q string) bool {
		_, ok := set[q]
		return ok
	}
}

func containsAny(words ...string) func(string) bool {
	return func(q string) bool {
		for _, w := range words {
			if strings.Contains(q, w) {
				return true
			}
		}
		return false
	}
}
