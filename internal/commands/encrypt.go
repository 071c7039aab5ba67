package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/hill/internal/config"
	"github.com/idelchi/hill/internal/logic"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] [paths...]",
		Aliases: []string{"enc"},
		Short:   "Encrypt files",
		Long: `Encrypt files and directories. Without --key-file every file gets a fresh key,
saved next to its output as <output>.key.<format>.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg),
		RunE: func(_ *cobra.Command, _ []string) error {
			return logic.Run(cfg, logger(cfg))
		},
	}
}
