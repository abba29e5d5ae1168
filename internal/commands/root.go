// Package commands provides CLI commands for advisorchat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/advisorchat/internal/config"
	"github.com/diogo/advisorchat/internal/logging"
	"github.com/diogo/advisorchat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds flag values shared by every subcommand
type rootOptions struct {
	endpoint string
	logFile  string
	logLevel string

	output  string
	file    string
	raw     bool
	version bool
}

// NewRootCmd creates the advisorchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "advisorchat [question]",
		Short: "Terminal chat client for the college advisor",
		Long: `advisorchat sends questions to the college advisor backend and shows
the suggested major, college and tuition, or the advisor's reply.

Examples:
  advisorchat chat                            Start interactive chat
  advisorchat config                          Configure settings
  advisorchat config show                     Print the effective settings
  advisorchat "Which major fits biology?"     Ask a single question
  advisorchat -f question.txt                 Read the question from a file
  echo "nursing" | advisorchat                Read the question from stdin
  advisorchat "nursing" -o answer.md          Save the answer to a file`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.LoadDotEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.version {
				fmt.Fprintf(deps.Stdout, "advisorchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			question, provided, err := readQuestion(deps, opts, args)
			if err != nil {
				return err
			}
			if !provided {
				return cmd.Help()
			}
			return runAsk(cmd.Context(), deps, opts, question)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.endpoint, "endpoint", "", "Advisor chat endpoint (overrides config and "+config.EnvEndpoint+")")
	pf.StringVar(&opts.logFile, "log-file", "", "Log file path, or - for stderr (default ~/.advisorchat/advisorchat.log)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: "+strings.Join(config.LogLevels(), ", "))

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "Save the answer to file")
	f.StringVarP(&opts.file, "file", "f", "", "Read the question from file")
	f.BoolVar(&opts.raw, "raw", false, "Print the plain answer without decoration")
	f.BoolVarP(&opts.version, "version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewConfigCmd(deps, opts))

	return cmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd(NewDependencies()).ExecuteContext(ctx)
	stop()
	if err != nil {
		tui.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// readQuestion picks the question from --file, stdin or the argument, in
// that order. provided is false when none was given.
func readQuestion(deps *Dependencies, opts *rootOptions, args []string) (string, bool, error) {
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", true, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.StdinIsPipe() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", true, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// loadConfig reads the config file and applies flag overrides. Flags beat
// environment variables, which beat the file.
func loadConfig(deps *Dependencies, opts *rootOptions) (config.Config, error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return cfg, err
	}

	if opts.endpoint != "" {
		cfg.Endpoint = opts.endpoint
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	return cfg, cfg.Validate()
}

// newLogger opens the diagnostic log. A log file of "-" means stderr.
func newLogger(cfg config.Config, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	if cfg.LogFile == "-" {
		return logging.New(logging.Options{Level: cfg.LogLevel, Writer: stderr, Console: true})
	}

	path, err := config.GetLogPath(cfg)
	if err != nil {
		return logging.New(logging.Options{Level: "disabled"})
	}
	return logging.New(logging.Options{Level: cfg.LogLevel, File: path})
}
