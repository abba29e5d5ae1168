package models

import "fmt"

// AnswerKind classifies the shape of a backend response
type AnswerKind int

const (
	// KindNone means the response carried nothing renderable
	KindNone AnswerKind = iota
	// KindMajor is a program record with tuition figures
	KindMajor
	// KindMessage is a plain fallback message
	KindMessage
)

// String returns a readable name for the kind
func (k AnswerKind) String() string {
	switch k {
	case KindMajor:
		return "major"
	case KindMessage:
		return "message"
	default:
		return "none"
	}
}

// AnswerResult is the decoded backend response
type AnswerResult struct {
	Kind            AnswerKind
	Major           string
	College         string
	TuitionInState  string
	TuitionOutState string
	Description     string
	Message         string
}

// Text returns the bot message for the result, or "" when there is nothing to render
func (a *AnswerResult) Text() string {
	if a == nil {
		return ""
	}
	switch a.Kind {
	case KindMajor:
		return fmt.Sprintf("%s — %s.\nIn-State: %s, Out-of-State: %s.\n%s",
			a.Major, a.College, a.TuitionInState, a.TuitionOutState, a.Description)
	case KindMessage:
		return a.Message
	default:
		return ""
	}
}

// HasText reports whether the result produces a bot message
func (a *AnswerResult) HasText() bool {
	return a != nil && a.Kind != KindNone
}
