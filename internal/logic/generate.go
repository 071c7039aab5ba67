package logic

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/idelchi/gogen/pkg/key"
	"github.com/idelchi/hill/internal/config"
	"github.com/idelchi/hill/internal/keyfile"
	"github.com/idelchi/hill/internal/keygen"
)

// RunGenerate creates an invertible key and writes it to the configured output,
// or to out when no output file is set.
func RunGenerate(cfg *config.Config, log *logrus.Logger, out io.Writer) error {
	source := keygen.DefaultSource
	if cfg.Generate.Seed != "" {
		source = keygen.NewSeededSource([]byte(cfg.Generate.Seed))

		log.Warn("deriving the key from a seed, anyone knowing the seed can recreate it")
	}

	m, err := keygen.GenerateInvertible(cfg.Cipher.Size, cfg.Cipher.Modulus, source)
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	k := keyfile.Key{Matrix: m, Modulus: cfg.Cipher.Modulus}

	opts := keyfile.Options{}

	if cfg.Key.Wrap != "" {
		if opts.WrapKey, err = key.FromHex(cfg.Key.Wrap); err != nil {
			return fmt.Errorf("reading wrap key: %w", err)
		}
	}

	fields := logrus.Fields{
		"size":        k.Size(),
		"modulus":     k.Modulus,
		"fingerprint": k.Fingerprint(),
	}

	if cfg.Generate.Output != "" {
		if err := keyfile.Save(cfg.Generate.Output, k, opts); err != nil {
			return err
		}

		log.WithFields(fields).Infof("wrote key to %q", cfg.Generate.Output)

		return nil
	}

	if opts.Format, err = keyfile.ParseFormat(cfg.Key.Format); err != nil {
		return fmt.Errorf("key format: %w", err)
	}

	data, err := keyfile.Marshal(k, opts.Format)
	if err != nil {
		return fmt.Errorf("encoding key: %w", err)
	}

	if len(opts.WrapKey) > 0 {
		if data, err = keyfile.Seal(data, opts.WrapKey); err != nil {
			return err
		}
	}

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("writing key: %w", err)
	}

	log.WithFields(fields).Debug("generated key")

	return nil
}
