package widget

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogo/advisorchat/internal/api"
	apierrors "github.com/diogo/advisorchat/internal/errors"
	"github.com/diogo/advisorchat/internal/models"
)

type fakeInput struct {
	clears int
}

func (f *fakeInput) Clear() { f.clears++ }

// fakeView records the transcript length every time it is scrolled
type fakeView struct {
	w         *Widget
	positions []int
}

func (f *fakeView) ScrollToBottom() {
	f.positions = append(f.positions, f.w.Transcript().Len())
}

func newTestWidget(t *testing.T, opts ...Option) (*Widget, *fakeInput, *fakeView) {
	t.Helper()
	in := &fakeInput{}
	view := &fakeView{}
	n := 0
	opts = append([]Option{WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("req-%d", n)
	})}, opts...)
	w := New(in, view, opts...)
	view.w = w
	return w, in, view
}

func assertScrolledToEnd(t *testing.T, w *Widget, view *fakeView) {
	t.Helper()
	if len(view.positions) == 0 {
		t.Fatal("view was never scrolled")
	}
	if last := view.positions[len(view.positions)-1]; last != w.Transcript().Len() {
		t.Errorf("last scroll at %d entries, transcript has %d", last, w.Transcript().Len())
	}
}

func majorResult() *models.AnswerResult {
	return &models.AnswerResult{
		Kind:            models.KindMajor,
		Major:           "CS",
		College:         "Eng",
		TuitionInState:  "$10k",
		TuitionOutState: "$20k",
		Description:     "desc",
	}
}

func TestSubmitBlankIsNoop(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n  "} {
		w, in, view := newTestWidget(t)
		mock := &api.MockClient{}

		if req, ok := w.Submit(text); ok {
			Perform(context.Background(), mock, req)
			t.Errorf("Submit(%q) should be refused", text)
		}
		if w.Transcript().Len() != 0 {
			t.Errorf("Submit(%q) appended %d entries", text, w.Transcript().Len())
		}
		if in.clears != 0 || len(view.positions) != 0 {
			t.Errorf("Submit(%q) touched the UI handles", text)
		}
		if mock.Calls() != 0 {
			t.Errorf("Submit(%q) issued a request", text)
		}
	}
}

func TestSubmitAppendsUserMessageAndPlaceholder(t *testing.T) {
	w, in, view := newTestWidget(t)

	req, ok := w.Submit("  What is CS?  ")
	if !ok {
		t.Fatal("Submit refused a valid question")
	}
	if req.Question != "What is CS?" {
		t.Errorf("Question = %q, want trimmed text", req.Question)
	}
	if req.ID != "req-1" {
		t.Errorf("ID = %q", req.ID)
	}
	if in.clears != 1 {
		t.Errorf("input cleared %d times, want 1", in.clears)
	}

	entries := w.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Message != models.UserMessage("What is CS?") {
		t.Errorf("first entry = %+v", entries[0].Message)
	}
	if !entries[1].Placeholder || entries[1].ID != req.ID || entries[1].Message.Text != models.TypingPlaceholderText {
		t.Errorf("second entry = %+v", entries[1])
	}
	if w.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", w.Pending())
	}
	assertScrolledToEnd(t, w, view)
}

func TestSuccessfulRoundTrip(t *testing.T) {
	w, _, view := newTestWidget(t)
	mock := &api.MockClient{AskResult: &models.AnswerResult{Kind: models.KindMessage, Message: "hi"}}

	req, _ := w.Submit("hello")
	out := Perform(context.Background(), mock, req)
	if !w.Apply(out) {
		t.Fatal("Apply rejected a known request")
	}

	msgs := w.Transcript().Messages()
	if len(msgs) != 2 || msgs[0].Sender != models.SenderUser || msgs[1].Sender != models.SenderBot {
		t.Fatalf("messages = %+v", msgs)
	}
	if w.Transcript().Len() != 2 || w.Pending() != 0 {
		t.Error("placeholder should be gone from the final transcript")
	}
	if got := mock.Questions(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("questions sent = %v", got)
	}
	assertScrolledToEnd(t, w, view)
}

func TestResolveMajorTemplate(t *testing.T) {
	w, _, _ := newTestWidget(t)
	req, _ := w.Submit("q")
	w.Resolve(req.ID, majorResult())

	want := "CS — Eng.\nIn-State: $10k, Out-of-State: $20k.\ndesc"
	got, ok := w.LastBotMessage()
	if !ok || got != want {
		t.Errorf("bot message = %q, want %q", got, want)
	}
}

func TestResolveMessageVerbatim(t *testing.T) {
	w, _, _ := newTestWidget(t)
	req, _ := w.Submit("q")
	w.Resolve(req.ID, &models.AnswerResult{Kind: models.KindMessage, Message: "No match found"})

	got, _ := w.LastBotMessage()
	if got != "No match found" {
		t.Errorf("bot message = %q", got)
	}
}

func TestResolveNoneAppendsNothing(t *testing.T) {
	for name, result := range map[string]*models.AnswerResult{
		"none": {Kind: models.KindNone},
		"nil":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			w, _, view := newTestWidget(t)
			req, _ := w.Submit("q")
			if !w.Resolve(req.ID, result) {
				t.Fatal("Resolve rejected a known request")
			}
			if w.Transcript().Len() != 1 {
				t.Errorf("entries = %+v", w.Entries())
			}
			if _, ok := w.LastBotMessage(); ok {
				t.Error("no bot message should be rendered")
			}
			if w.Pending() != 0 {
				t.Error("placeholder should be removed")
			}
			assertScrolledToEnd(t, w, view)
		})
	}
}

func TestFailRendersConnectionError(t *testing.T) {
	var logs bytes.Buffer
	w, _, view := newTestWidget(t, WithLogger(zerolog.New(&logs)))
	mock := &api.MockClient{AskErr: apierrors.NewNetworkError("ask", "http://x", errors.New("connection refused"))}

	req, _ := w.Submit("q")
	w.Apply(Perform(context.Background(), mock, req))

	got, _ := w.LastBotMessage()
	if got != "⚠️ Error connecting to the server." {
		t.Errorf("bot message = %q", got)
	}
	if w.Pending() != 0 {
		t.Error("placeholder should be removed")
	}
	if !strings.Contains(logs.String(), "connection refused") {
		t.Errorf("error should be logged, got %q", logs.String())
	}
	assertScrolledToEnd(t, w, view)
}

func TestUnrecognisedShapeLeavesNoDiagnostic(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.TraceLevel)
	w, _, _ := newTestWidget(t, WithLogger(logger))

	req, _ := w.Submit("q")
	logs.Reset()

	if !w.Resolve(req.ID, &models.AnswerResult{Kind: models.KindNone}) {
		t.Fatal("Resolve should accept the pending request")
	}
	if logs.Len() != 0 {
		t.Errorf("dropped response should not be logged, got %q", logs.String())
	}
}

func TestUnknownIDIgnored(t *testing.T) {
	w, _, _ := newTestWidget(t)
	req, _ := w.Submit("q")

	if w.Resolve("other", majorResult()) {
		t.Error("Resolve should ignore unknown IDs")
	}
	if w.Fail("other", errors.New("x")) {
		t.Error("Fail should ignore unknown IDs")
	}
	if w.Pending() != 1 {
		t.Error("the real placeholder must survive")
	}

	w.Resolve(req.ID, majorResult())
	if w.Resolve(req.ID, majorResult()) {
		t.Error("a request resolves only once")
	}
	if len(w.Transcript().Messages()) != 2 {
		t.Errorf("messages = %+v", w.Transcript().Messages())
	}
}

func TestConcurrentRequestsResolveOutOfOrder(t *testing.T) {
	w, _, view := newTestWidget(t)

	first, _ := w.Submit("first")
	second, _ := w.Submit("second")
	if w.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", w.Pending())
	}

	w.Resolve(second.ID, &models.AnswerResult{Kind: models.KindMessage, Message: "answer two"})
	if !w.Transcript().HasPlaceholder(first.ID) || w.Transcript().HasPlaceholder(second.ID) {
		t.Fatal("resolving the second request removed the wrong placeholder")
	}
	w.Fail(first.ID, errors.New("boom"))

	var got []string
	for _, m := range w.Transcript().Messages() {
		got = append(got, m.Text)
	}
	want := []string{"first", "second", "answer two", models.ConnectionErrorText}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("order = %v, want %v", got, want)
	}
	assertScrolledToEnd(t, w, view)
}

func TestSingleFlight(t *testing.T) {
	w, _, _ := newTestWidget(t, WithSingleFlight(true))

	req, ok := w.Submit("one")
	if !ok {
		t.Fatal("first submit should pass")
	}
	if !w.Busy() {
		t.Error("widget should be busy")
	}
	if _, ok := w.Submit("two"); ok {
		t.Error("second submit should be refused while pending")
	}
	if w.Transcript().Len() != 2 {
		t.Errorf("refused submit must not append, entries = %d", w.Transcript().Len())
	}

	w.Resolve(req.ID, nil)
	if _, ok := w.Submit("two"); !ok {
		t.Error("submit should pass once the request resolved")
	}

	w.SetSingleFlight(false)
	if _, ok := w.Submit("three"); !ok || w.Busy() {
		t.Error("disabling single flight should allow overlap")
	}
}

func TestDispatch(t *testing.T) {
	mock := &api.MockClient{AskResult: majorResult()}
	ch := Dispatch(context.Background(), mock, Request{ID: "x", Question: "q"})

	select {
	case out := <-ch:
		if out.ID != "x" || out.Err != nil || out.Result.Kind != models.KindMajor {
			t.Errorf("outcome = %+v", out)
		}
	case <-time.After(time.Second):
		t.Fatal("Dispatch did not complete")
	}
	if _, open := <-ch; open {
		t.Error("channel should be closed after one outcome")
	}
}

func TestDispatchPropagatesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mock := &api.MockClient{AskFunc: func(ctx context.Context, _ string) (*models.AnswerResult, error) {
		return nil, ctx.Err()
	}}

	out := <-Dispatch(ctx, mock, Request{ID: "x", Question: "q"})
	if !errors.Is(out.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", out.Err)
	}
}

func TestClearKeepsInFlight(t *testing.T) {
	w, _, _ := newTestWidget(t)
	done, _ := w.Submit("a")
	w.Resolve(done.ID, &models.AnswerResult{Kind: models.KindMessage, Message: "b"})
	pending, _ := w.Submit("c")

	w.Clear()
	if w.Transcript().Len() != 1 || !w.Transcript().HasPlaceholder(pending.ID) {
		t.Fatalf("entries = %+v", w.Entries())
	}
	if !w.Resolve(pending.ID, &models.AnswerResult{Kind: models.KindMessage, Message: "d"}) {
		t.Error("in-flight request should still resolve after Clear")
	}
}

func TestNilHandles(t *testing.T) {
	w := New(nil, nil)
	req, ok := w.Submit("q")
	if !ok || req.ID == "" {
		t.Fatalf("headless submit failed: %+v", req)
	}
	w.Resolve(req.ID, nil)
}
