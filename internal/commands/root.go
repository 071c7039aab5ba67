package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/gogen/pkg/cobraext"
	"github.com/idelchi/hill/internal/config"
	"github.com/idelchi/hill/internal/hill"
)

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and flag handling.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := cobraext.NewDefaultRootCommand(version)

	root.Use = "hill [flags] command [flags]"
	root.Short = "Hill cipher file encryption utility"
	root.Long = `A file encryption utility based on the Hill cipher over the integers modulo m.
Provides commands for key generation, encryption, decryption and key inspection.`

	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of files processed in parallel, defaults to number of CPUs")
	flags.IntP("workers", "w", 0, "Number of block workers per file, 0 for one per CPU")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("verbose", false, "Enable debug logging")
	flags.Bool("delete", false, "Delete the original file after successful encryption/decryption")
	flags.Bool("dry", false, "Show which files would be processed without writing anything")
	flags.Bool("stats", false, "Print a summary after processing")
	flags.Bool("preserve-timestamps", false, "Copy the modification time of the input to the output")

	flags.StringP("key-file", "k", "", "Path to a shared key file (.json, .yaml or .npy); per-file keys are used otherwise")
	flags.String("key-format", "json", "Format of generated key files (json, yaml or npy)")
	flags.String("wrap-key", "", "Seal key files with this AES-SIV key (64 bytes, hex-encoded)")

	flags.String("encrypt-ext", ".enc", "Suffix to append to encrypted files")
	flags.String("decrypt-ext", "", "Suffix to append to decrypted files, after stripping the encrypted suffix")

	flags.String("padding", string(hill.PaddingLegacy), "Padding scheme (legacy or pkcs7)")
	flags.IntP("modulus", "m", hill.ByteModulus, "Modulus of generated keys")
	flags.IntP("size", "n", 3, "Block size of generated keys") //nolint:mnd

	root.AddCommand(
		NewGenerateCommand(cfg),
		NewEncryptCommand(cfg),
		NewDecryptCommand(cfg),
		NewInspectCommand(cfg),
	)

	return root
}
