package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/hill/internal/config"
	"github.com/idelchi/hill/internal/logic"
)

// NewGenerateCommand creates a new cobra command for the generate subcommand.
func NewGenerateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [flags]",
		Aliases: []string{"gen"},
		Short:   "Generate an invertible key matrix",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bind(cmd, cfg); err != nil {
				return err
			}

			return cobraext.Validate(cfg, cfg)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunGenerate(cfg, logger(cfg), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringP("output", "o", "", "Key file to write, format taken from the extension; stdout when empty")
	cmd.Flags().String("seed", "", "Derive the key deterministically from this seed")

	return cmd
}
