package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/diogo/advisorchat/internal/config"
	apierrors "github.com/diogo/advisorchat/internal/errors"
	"github.com/diogo/advisorchat/internal/models"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd(newHarness(t).deps)

	if cmd.Use != "advisorchat [question]" {
		t.Errorf("Use = %q", cmd.Use)
	}
	for _, name := range []string{"chat", "config"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"endpoint", "log-file", "log-level"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
	for _, flag := range []string{"output", "file", "raw", "version"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("flag --%s missing", flag)
		}
	}
}

func TestVersionFlag(t *testing.T) {
	h := newHarness(t)

	if err := h.run("--version"); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(h.stdout.String(), "advisorchat "+Version) {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestTooManyArgs(t *testing.T) {
	h := newHarness(t)
	if err := h.run("one", "two"); err == nil {
		t.Error("two positional arguments should be rejected")
	}
}

func TestFlagOverrides(t *testing.T) {
	h := newHarness(t)
	h.client.AskResult = &models.AnswerResult{Kind: models.KindMessage, Message: "ok"}

	err := h.run("--endpoint", "http://advisor.test:9000/chat", "--log-level", "debug", "hello")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if h.cfg.Endpoint != "http://advisor.test:9000/chat" {
		t.Errorf("Endpoint = %q", h.cfg.Endpoint)
	}
	if h.cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", h.cfg.LogLevel)
	}
}

func TestInvalidEndpointFlag(t *testing.T) {
	h := newHarness(t)

	err := h.run("--endpoint", "ftp://advisor.test/chat", "hello")
	if !apierrors.IsConfigError(err) {
		t.Errorf("run() error = %v, want config error", err)
	}
	if h.client.Calls() != 0 {
		t.Error("an invalid endpoint must not reach the client")
	}
}

func TestLoadConfigErrorPropagates(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("failed to parse config file")
	h.deps.LoadConfig = func() (config.Config, error) { return config.DefaultConfig(), boom }

	if err := h.run("hello"); !errors.Is(err, boom) {
		t.Errorf("run() error = %v, want %v", err, boom)
	}
}

func TestReadQuestionPrecedence(t *testing.T) {
	h := newHarness(t)
	h.deps.StdinIsPipe = func() bool { return true }
	h.deps.Stdin = strings.NewReader("from stdin")

	q, provided, err := readQuestion(h.deps, &rootOptions{}, []string{"from args"})
	if err != nil || !provided {
		t.Fatalf("readQuestion() = %q, %v, %v", q, provided, err)
	}
	if q != "from stdin" {
		t.Errorf("stdin should win over args, got %q", q)
	}

	h.deps.StdinIsPipe = func() bool { return false }
	q, provided, _ = readQuestion(h.deps, &rootOptions{}, nil)
	if provided || q != "" {
		t.Errorf("no input should report provided=false, got %q %v", q, provided)
	}
}

func TestNewLoggerToStderr(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.LogFile = "-"

	logger, closer, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer closer.Close()

	logger.Info().Msg("hello from the log")
	if !strings.Contains(buf.String(), "hello from the log") {
		t.Errorf("log output = %q", buf.String())
	}
}
