// Package widget implements the chat controller shared by the TUI and the
// one-shot command. It owns the transcript and is driven from a single
// goroutine; requests run elsewhere and come back as Outcomes.
package widget

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diogo/advisorchat/internal/models"
	"github.com/diogo/advisorchat/internal/transcript"
)

// Input is the text box the question was typed into
type Input interface {
	Clear()
}

// View is the scrollable message list
type View interface {
	ScrollToBottom()
}

// Asker performs the outbound request for a question
type Asker interface {
	Ask(ctx context.Context, question string) (*models.AnswerResult, error)
}

// Request is one submitted question waiting to be dispatched
type Request struct {
	ID       string
	Question string
}

// Outcome is the completion of a Request. Err is set on transport failure.
type Outcome struct {
	ID     string
	Result *models.AnswerResult
	Err    error
}

// Widget is the chat controller. It is not safe for concurrent use.
type Widget struct {
	input        Input
	view         View
	transcript   *transcript.Transcript
	logger       zerolog.Logger
	singleFlight bool
	newID        func() string
}

// Option configures a Widget
type Option func(*Widget)

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Widget) {
		w.logger = logger
	}
}

// WithSingleFlight refuses submissions while a request is outstanding
func WithSingleFlight(enabled bool) Option {
	return func(w *Widget) {
		w.singleFlight = enabled
	}
}

// WithIDGenerator replaces the request ID source
func WithIDGenerator(fn func() string) Option {
	return func(w *Widget) {
		w.newID = fn
	}
}

type nopHandle struct{}

func (nopHandle) Clear()          {}
func (nopHandle) ScrollToBottom() {}

// New creates a widget bound to its UI handles. Nil handles are allowed for
// headless use.
func New(input Input, view View, opts ...Option) *Widget {
	w := &Widget{
		input:      input,
		view:       view,
		transcript: transcript.New(),
		logger:     zerolog.Nop(),
		newID:      uuid.NewString,
	}
	if w.input == nil {
		w.input = nopHandle{}
	}
	if w.view == nil {
		w.view = nopHandle{}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Submit records a question and returns the request to dispatch. It returns
// false, and changes nothing, for blank input or when single flight is on
// and another request is still pending.
func (w *Widget) Submit(text string) (Request, bool) {
	question := strings.TrimSpace(text)
	if question == "" {
		return Request{}, false
	}
	if w.singleFlight && w.transcript.Pending() > 0 {
		w.logger.Debug().Msg("submission refused: request outstanding")
		return Request{}, false
	}

	w.transcript.Append(models.UserMessage(question))
	w.view.ScrollToBottom()
	w.input.Clear()

	req := Request{ID: w.newID(), Question: question}
	w.transcript.AppendPlaceholder(req.ID)
	w.view.ScrollToBottom()

	w.logger.Debug().Str("request_id", req.ID).Msg("question submitted")
	return req, true
}

// Resolve handles a response for request id. It reports false when id has no
// placeholder, in which case nothing is rendered.
func (w *Widget) Resolve(id string, result *models.AnswerResult) bool {
	if !w.transcript.RemovePlaceholder(id) {
		w.logger.Debug().Str("request_id", id).Msg("response for unknown request ignored")
		return false
	}

	// An unrecognised shape is dropped silently.
	if result.HasText() {
		w.transcript.Append(models.BotMessage(result.Text()))
	}
	w.view.ScrollToBottom()
	return true
}

// Fail handles a transport failure for request id
func (w *Widget) Fail(id string, err error) bool {
	if !w.transcript.RemovePlaceholder(id) {
		w.logger.Debug().Str("request_id", id).Msg("failure for unknown request ignored")
		return false
	}

	w.logger.Error().Err(err).Str("request_id", id).Msg("request failed")
	w.transcript.Append(models.BotMessage(models.ConnectionErrorText))
	w.view.ScrollToBottom()
	return true
}

// Apply routes an outcome to Resolve or Fail
func (w *Widget) Apply(o Outcome) bool {
	if o.Err != nil {
		return w.Fail(o.ID, o.Err)
	}
	return w.Resolve(o.ID, o.Result)
}

// Perform runs req against asker and blocks until it completes
func Perform(ctx context.Context, asker Asker, req Request) Outcome {
	result, err := asker.Ask(ctx, req.Question)
	return Outcome{ID: req.ID, Result: result, Err: err}
}

// Dispatch runs req in its own goroutine. The channel yields exactly one
// Outcome and is then closed.
func Dispatch(ctx context.Context, asker Asker, req Request) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		ch <- Perform(ctx, asker, req)
	}()
	return ch
}

// Pending returns the number of unresolved requests
func (w *Widget) Pending() int {
	return w.transcript.Pending()
}

// Busy reports whether Submit would currently be refused by single flight
func (w *Widget) Busy() bool {
	return w.singleFlight && w.transcript.Pending() > 0
}

// SingleFlight reports whether single flight is enabled
func (w *Widget) SingleFlight() bool {
	return w.singleFlight
}

// SetSingleFlight toggles single flight
func (w *Widget) SetSingleFlight(enabled bool) {
	w.singleFlight = enabled
}

// Transcript exposes the underlying transcript for rendering and export
func (w *Widget) Transcript() *transcript.Transcript {
	return w.transcript
}

// Entries returns a snapshot of the transcript
func (w *Widget) Entries() []transcript.Entry {
	return w.transcript.Entries()
}

// LastBotMessage returns the text of the most recent bot reply
func (w *Widget) LastBotMessage() (string, bool) {
	msg, ok := w.transcript.LastBot()
	return msg.Text, ok
}

// Clear empties the transcript, keeping placeholders of in-flight requests
func (w *Widget) Clear() {
	w.transcript.Clear()
	w.view.ScrollToBottom()
}
