package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/diogo/advisorchat/internal/api"
	"github.com/diogo/advisorchat/internal/config"
)

type fakeClient struct {
	*api.MockClient
	closed bool
}

func (f *fakeClient) Close() { f.closed = true }

type fakeTUI struct {
	chatCalls   int
	configCalls int
	asker       api.AskerInterface
	cfg         config.Config
	err         error
}

func (f *fakeTUI) RunChat(ctx context.Context, asker api.AskerInterface, cfg config.Config, logger zerolog.Logger) error {
	f.chatCalls++
	f.asker = asker
	f.cfg = cfg
	return f.err
}

func (f *fakeTUI) RunConfig() error {
	f.configCalls++
	return f.err
}

// harness wires a root command to in-memory dependencies
type harness struct {
	deps      *Dependencies
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	client    *fakeClient
	tui       *fakeTUI
	cfg       config.Config // config seen by NewClient
	baseCfg   config.Config // config returned by LoadConfig
	copied    []string
	clientErr error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	h := &harness{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		client: &fakeClient{MockClient: &api.MockClient{}},
		tui:    &fakeTUI{},
	}
	h.baseCfg = config.DefaultConfig()
	h.baseCfg.LogFile = filepath.Join(t.TempDir(), "test.log")

	h.deps = &Dependencies{
		NewClient: func(cfg config.Config, logger zerolog.Logger) (Client, error) {
			h.cfg = cfg
			if h.clientErr != nil {
				return nil, h.clientErr
			}
			return h.client, nil
		},
		LoadConfig: func() (config.Config, error) { return h.baseCfg, nil },
		TUI:        h.tui,
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
		Stdin:         strings.NewReader(""),
		Stdout:        h.stdout,
		Stderr:        h.stderr,
		StdinIsPipe:   func() bool { return false },
		StdoutIsTTY:   func() bool { return false },
		TerminalWidth: func() int { return 80 },
	}
	return h
}

func (h *harness) run(args ...string) error {
	cmd := NewRootCmd(h.deps)
	cmd.SetArgs(args)
	cmd.SetOut(h.stdout)
	cmd.SetErr(h.stderr)
	return cmd.Execute()
}
