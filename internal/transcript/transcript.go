// Package transcript holds the ordered list of rendered chat messages.
package transcript

import (
	"time"

	"github.com/diogo/advisorchat/internal/models"
)

// Entry is one rendered bubble. Placeholder entries carry the ID of the
// request they stand in for; regular messages have an empty ID.
type Entry struct {
	ID          string
	Message     models.Message
	Placeholder bool
	Timestamp   time.Time
}

// Transcript is append-only except for removal of placeholders.
// It is not safe for concurrent use.
type Transcript struct {
	entries []Entry
	now     func() time.Time
}

// New creates an empty transcript
func New() *Transcript {
	return &Transcript{now: time.Now}
}

// Append adds a message at the end
func (t *Transcript) Append(msg models.Message) Entry {
	e := Entry{Message: msg, Timestamp: t.now()}
	t.entries = append(t.entries, e)
	return e
}

// AppendPlaceholder adds a typing placeholder tagged with a request ID
func (t *Transcript) AppendPlaceholder(id string) Entry {
	e := Entry{
		ID:          id,
		Message:     models.BotMessage(models.TypingPlaceholderText),
		Placeholder: true,
		Timestamp:   t.now(),
	}
	t.entries = append(t.entries, e)
	return e
}

// RemovePlaceholder removes the placeholder for id. It reports false when
// no such placeholder exists, so a second removal is a no-op.
func (t *Transcript) RemovePlaceholder(id string) bool {
	for i, e := range t.entries {
		if e.Placeholder && e.ID == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// HasPlaceholder reports whether a placeholder for id is present
func (t *Transcript) HasPlaceholder(id string) bool {
	for _, e := range t.entries {
		if e.Placeholder && e.ID == id {
			return true
		}
	}
	return false
}

// Pending returns the number of placeholders on screen
func (t *Transcript) Pending() int {
	n := 0
	for _, e := range t.entries {
		if e.Placeholder {
			n++
		}
	}
	return n
}

// Entries returns a copy of all entries, placeholders included
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Messages returns the conversation without placeholders
func (t *Transcript) Messages() []models.Message {
	out := make([]models.Message, 0, len(t.entries))
	for _, e := range t.entries {
		if !e.Placeholder {
			out = append(out, e.Message)
		}
	}
	return out
}

// Len returns the number of entries, placeholders included
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Last returns the final entry
func (t *Transcript) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// LastBot returns the most recent bot message that is not a placeholder
func (t *Transcript) LastBot() (models.Message, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if !e.Placeholder && e.Message.IsBot() {
			return e.Message, true
		}
	}
	return models.Message{}, false
}

// Clear drops every finished message. Placeholders of in-flight requests
// stay so their responses still have somewhere to land.
func (t *Transcript) Clear() {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.Placeholder {
			kept = append(kept, e)
		}
	}
	t.entries = kept
}
