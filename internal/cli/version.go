package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MalithGihan/flowgen-service/internal/config"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the configured application name and version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.EnvFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cfg.AppName, cfg.AppVersion)
			return err
		},
	}
}
