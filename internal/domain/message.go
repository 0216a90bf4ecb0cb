package domain

import "strings"

type Severity int

const (
	SeverityNone Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "none"
	}
}

var errorMarkers = []string{"error", "failed", "not found", "please"}

// Message is the single status line shown to the user. Severity is derived
// from the text and never stored separately.
type Message struct {
	Text string
}

func NewMessage(text string) Message { return Message{Text: text} }

func (m Message) Severity() Severity {
	return Classify(m.Text)
}

func (m Message) Empty() bool { return m.Text == "" }

func Classify(text string) Severity {
	if text == "" {
		return SeverityNone
	}
	lower := strings.ToLower(text)
	for _, marker := range errorMarkers {
		if strings.Contains(lower, marker) {
			return SeverityError
		}
	}
	return SeveritySuccess
}
