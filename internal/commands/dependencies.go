package commands

import (
	"context"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/diogo/advisorchat/internal/api"
	"github.com/diogo/advisorchat/internal/config"
	"github.com/diogo/advisorchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctx context.Context, asker api.AskerInterface, cfg config.Config, logger zerolog.Logger) error
	RunConfig() error
}

// Client is an advisor client that is released when a command ends.
type Client interface {
	api.AskerInterface
	Close()
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	NewClient  func(cfg config.Config, logger zerolog.Logger) (Client, error)
	LoadConfig func() (config.Config, error)
	TUI        TUIInterface
	Clipboard  func(string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	StdinIsPipe   func() bool
	StdoutIsTTY   func() bool
	TerminalWidth func() int
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctx context.Context, asker api.AskerInterface, cfg config.Config, logger zerolog.Logger) error {
	return tui.RunChat(ctx, asker, cfg, logger)
}

func (d *DefaultTUI) RunConfig() error {
	return tui.RunConfig()
}

func newAdvisorClient(cfg config.Config, logger zerolog.Logger) (Client, error) {
	c, err := api.NewClientFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient:  newAdvisorClient,
		LoadConfig: config.LoadConfig,
		TUI:        &DefaultTUI{},
		Clipboard:  clipboard.WriteAll,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		StdinIsPipe: func() bool {
			stat, err := os.Stdin.Stat()
			return err == nil && (stat.Mode()&os.ModeCharDevice) == 0
		},
		StdoutIsTTY: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
		TerminalWidth: func() int {
			width, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil || width <= 0 {
				return 80
			}
			return width
		},
	}
}
