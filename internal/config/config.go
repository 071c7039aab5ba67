// Package config holds the command-line configuration of the hill tool.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config holds the application's configuration parameters.
type Config struct {
	// Show prints the resolved configuration and exits
	Show bool

	// Parallel is the number of files processed concurrently
	Parallel int `validate:"min=1"`

	// Workers is the number of goroutines per file transforming blocks, 0 for one per CPU
	Workers int `validate:"min=0"`

	// Quiet suppresses non-error output
	Quiet bool `validate:"exclusive=Verbose"`

	// Verbose enables debug logging
	Verbose bool

	// Delete removes the input file after it was processed successfully
	Delete bool

	// Dry previews the files that would be processed
	Dry bool

	// Stats prints a summary after processing
	Stats bool

	// PreserveTimestamps copies the modification time of the input to the output
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	// Key selects the key material
	Key Key `mapstructure:",squash"`

	// Suffixes controls output file naming
	Suffixes Suffixes `mapstructure:",squash"`

	// Cipher holds the block cipher parameters
	Cipher Cipher `mapstructure:",squash"`

	// Generate holds flags of the generate command
	Generate Generate `mapstructure:",squash"`

	// Decrypt is set by the decrypt command
	Decrypt bool `mapstructure:"-"`

	// Files holds the positional arguments
	Files []string `mapstructure:"-"`
}

// Key selects where the key matrix comes from.
type Key struct {
	// File is a shared key file; without it every file gets its own key next to the output
	File string `mapstructure:"key-file"`

	// Format is the format of generated key files
	Format string `mapstructure:"key-format" validate:"oneof=json yaml npy"`

	// Wrap is a hex-encoded 64-byte AES-SIV key sealing key files
	Wrap string `mapstructure:"wrap-key" mask:"fixed" validate:"omitempty,hexadecimal,len=128"`
}

// Suffixes control the names of output files.
type Suffixes struct {
	// Encrypt is appended to encrypted files
	Encrypt string `mapstructure:"encrypt-ext" validate:"required"`

	// Decrypt is appended to decrypted files after stripping Encrypt
	Decrypt string `mapstructure:"decrypt-ext"`
}

// Cipher holds the Hill cipher parameters.
type Cipher struct {
	// Size is the block size n of generated keys, at most keyfile.MaxSize
	Size int `validate:"min=1,max=32"`

	// Modulus is the modulus of generated keys
	Modulus int `validate:"min=2,max=256"`

	// Padding is the padding scheme, legacy or pkcs7
	Padding string `validate:"padding"`
}

// Generate holds the flags of the generate command.
type Generate struct {
	// Output is the key file to write, empty for stdout
	Output string

	// Seed derives the key deterministically when set
	Seed string `mask:"fixed"`
}

// ErrInvalid is returned when the configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Display returns the value of the Show field.
func (c Config) Display() bool {
	return c.Show
}

// Validate performs configuration validation using the validator package.
// It returns a wrapped ErrInvalid listing every failed field.
func (c Config) Validate(config any) error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := registerCustom(validate); err != nil {
		return fmt.Errorf("registering validations: %w", err)
	}

	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validating configuration: %w", err)
	}

	errs := make([]error, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		errs = append(errs, fmt.Errorf("%s: failed %q (%s)", fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Param()))
	}

	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}
