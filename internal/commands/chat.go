package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat with the college advisor.

Press Enter or the Send button to ask. Several questions may be in flight at
once unless single flight is enabled in 'advisorchat config'.
Type /help for commands, /quit or press Esc to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), deps, opts)
		},
	}
}

func runChat(ctx context.Context, deps *Dependencies, opts *rootOptions) error {
	cfg, err := loadConfig(deps, opts)
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg, deps.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := deps.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	logger.Info().
		Str("endpoint", client.Endpoint()).
		Bool("single_flight", cfg.SingleFlight).
		Msg("chat session started")

	if err := deps.TUI.RunChat(ctx, client, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("chat session ended with error")
		return err
	}

	logger.Info().Msg("chat session ended")
	return nil
}
