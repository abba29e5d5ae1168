package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/advisorchat/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long:  `Interactive menu to configure advisorchat settings.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.TUI.RunConfig()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying the config file, .env,
ADVISORCHAT_* environment variables and command-line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(deps, opts)
		},
	})

	return cmd
}

func runConfigShow(deps *Dependencies, opts *rootOptions) error {
	cfg, err := loadConfig(deps, opts)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if path, err := config.GetConfigPath(); err == nil {
		fmt.Fprintf(deps.Stdout, "# %s\n", path)
	}
	if logPath, err := config.GetLogPath(cfg); err == nil {
		fmt.Fprintf(deps.Stdout, "# log: %s\n", logPath)
	}
	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}
