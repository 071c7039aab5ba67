package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/hill/internal/config"
	"github.com/idelchi/hill/internal/logic"
)

// NewInspectCommand creates a new cobra command for the inspect subcommand.
func NewInspectCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [flags] key-file",
		Short: "Show a key, its determinant, inverse and fingerprint",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bind(cmd, cfg); err != nil {
				return err
			}

			return cobraext.Validate(cfg, cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return logic.RunInspect(cfg, args[0], cmd.OutOrStdout())
		},
	}
}
