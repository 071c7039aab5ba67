// Package commands provides the command-line interface for the hill tool.
//
// It implements commands for:
//   - key generation
//   - encryption
//   - decryption
//   - key inspection
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/hill/internal/config"
	"github.com/idelchi/hill/internal/logging"
)

// EnvPrefix prefixes the environment variables that override flags, as in HILL_KEY_FILE.
const EnvPrefix = "HILL"

// bind loads flags and environment variables of cmd into cfg.
func bind(cmd *cobra.Command, cfg *config.Config) error {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return nil
}

// preRun returns a PreRunE handler that resolves positional args into cfg.Files
// and validates the configuration.
func preRun(cfg *config.Config) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := bind(cmd, cfg); err != nil {
			return err
		}

		if len(args) == 0 {
			cfg.Files = []string{"."}
		} else {
			cfg.Files = args
		}

		return cobraext.Validate(cfg, cfg)
	}
}

// logger returns the diagnostic logger for cfg.
func logger(cfg *config.Config) *logrus.Logger {
	return logging.New(os.Stderr, cfg.Quiet, cfg.Verbose)
}
