package models

import (
	"testing"
)

func TestAnswerResultText(t *testing.T) {
	tests := []struct {
		name     string
		answer   *AnswerResult
		expected string
	}{
		{
			name: "major record",
			answer: &AnswerResult{
				Kind:            KindMajor,
				Major:           "CS",
				College:         "Eng",
				TuitionInState:  "$10k",
				TuitionOutState: "$20k",
				Description:     "desc",
			},
			expected: "CS — Eng.\nIn-State: $10k, Out-of-State: $20k.\ndesc",
		},
		{
			name:     "fallback message",
			answer:   &AnswerResult{Kind: KindMessage, Message: "No match found"},
			expected: "No match found",
		},
		{
			name:     "nothing to render",
			answer:   &AnswerResult{Kind: KindNone, Message: "ignored"},
			expected: "",
		},
		{
			name:     "nil result",
			answer:   nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.answer.Text(); got != tt.expected {
				t.Errorf("Text() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAnswerResultHasText(t *testing.T) {
	var nilAnswer *AnswerResult
	if nilAnswer.HasText() {
		t.Error("nil answer should not have text")
	}
	if (&AnswerResult{Kind: KindNone}).HasText() {
		t.Error("KindNone should not have text")
	}
	if !(&AnswerResult{Kind: KindMessage}).HasText() {
		t.Error("KindMessage should have text")
	}
}

func TestAnswerKindString(t *testing.T) {
	if KindMajor.String() != "major" || KindMessage.String() != "message" || KindNone.String() != "none" {
		t.Errorf("unexpected kind names: %s %s %s", KindMajor, KindMessage, KindNone)
	}
}

func TestMessageConstructors(t *testing.T) {
	u := UserMessage("hi")
	if u.Sender != SenderUser || u.Text != "hi" || u.IsBot() {
		t.Errorf("unexpected user message: %+v", u)
	}
	b := BotMessage("hello")
	if b.Sender != SenderBot || !b.IsBot() {
		t.Errorf("unexpected bot message: %+v", b)
	}
}

func TestDefaultHeaders(t *testing.T) {
	h := DefaultHeaders()
	if h["Content-Type"] != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", h["Content-Type"])
	}
}
