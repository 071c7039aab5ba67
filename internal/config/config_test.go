package config_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/idelchi/hill/internal/config"
)

func valid() config.Config {
	return config.Config{
		Parallel: 4,
		Key:      config.Key{Format: "json"},
		Suffixes: config.Suffixes{Encrypt: ".enc"},
		Cipher:   config.Cipher{Size: 3, Modulus: 256, Padding: "legacy"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"zero_parallel", func(c *config.Config) { c.Parallel = 0 }, "Parallel"},
		{"quiet_and_verbose", func(c *config.Config) { c.Quiet, c.Verbose = true, true }, "Quiet"},
		{"unknown_format", func(c *config.Config) { c.Key.Format = "toml" }, "Format"},
		{"short_wrap_key", func(c *config.Config) { c.Key.Wrap = "abcd" }, "Wrap"},
		{"empty_suffix", func(c *config.Config) { c.Suffixes.Encrypt = "" }, "Encrypt"},
		{"modulus_too_large", func(c *config.Config) { c.Cipher.Modulus = 1024 }, "Modulus"},
		{"zero_size", func(c *config.Config) { c.Cipher.Size = 0 }, "Size"},
		{"size_too_large", func(c *config.Config) { c.Cipher.Size = 33 }, "Size"},
		{"unknown_padding", func(c *config.Config) { c.Cipher.Padding = "zero" }, "Padding"},
		{"wrap_key", func(c *config.Config) { c.Key.Wrap = strings.Repeat("ab", 64) }, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tc.mutate(&cfg)

			err := cfg.Validate(cfg)

			if tc.field == "" {
				if err != nil {
					t.Fatalf("Validate error: %v", err)
				}

				return
			}

			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("Validate error = %v, want ErrInvalid", err)
			}

			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("Validate error %q does not name %s", err, tc.field)
			}
		})
	}
}

func TestDisplay(t *testing.T) {
	t.Parallel()

	cfg := valid()
	if cfg.Display() {
		t.Error("Display() = true without Show")
	}

	cfg.Show = true
	if !cfg.Display() {
		t.Error("Display() = false with Show")
	}
}
