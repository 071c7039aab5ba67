package encryption_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/idelchi/hill/internal/config"
	"github.com/idelchi/hill/internal/encryption"
	"github.com/idelchi/hill/internal/keyfile"
	"github.com/idelchi/hill/internal/logging"
	"github.com/idelchi/hill/internal/matrix"
)

func newConfig(files ...string) *config.Config {
	return &config.Config{
		Parallel: 2,
		Quiet:    true,
		Key:      config.Key{Format: "json"},
		Suffixes: config.Suffixes{Encrypt: ".enc", Decrypt: ".out"},
		Cipher:   config.Cipher{Size: 3, Modulus: 256, Padding: "pkcs7"},
		Files:    files,
	}
}

func run(t *testing.T, cfg *config.Config) (processed, errored int, err error) {
	t.Helper()

	proc, err := encryption.NewProcessor(cfg, logging.New(io.Discard, true, false))
	if err != nil {
		t.Fatalf("NewProcessor() error: %v", err)
	}

	processed, errored, _, err = proc.ProcessFiles()

	return processed, errored, err
}

func writeFile(t *testing.T, path string, data []byte, perm os.FileMode) {
	t.Helper()

	if err := os.WriteFile(path, data, perm); err != nil {
		t.Fatalf("writing %q: %v", path, err)
	}
}

func TestPerFileKeyRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	plain := []byte("the quick brown fox jumps over the lazy dog\x00\x01\x02")

	inputs := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.bin")}
	for _, in := range inputs {
		writeFile(t, in, plain, 0o600)
	}

	processed, errored, err := run(t, newConfig(inputs...))
	if err != nil || processed != 2 || errored != 0 {
		t.Fatalf("encrypt: processed=%d errored=%d err=%v", processed, errored, err)
	}

	for _, in := range inputs {
		keyPath := encryption.KeyPath(in+".enc", keyfile.FormatJSON)
		if _, err := os.Stat(keyPath); err != nil {
			t.Fatalf("per-file key %q missing: %v", keyPath, err)
		}

		ciphertext, err := os.ReadFile(in + ".enc")
		if err != nil {
			t.Fatalf("reading ciphertext: %v", err)
		}

		if len(ciphertext)%3 != 0 {
			t.Errorf("ciphertext length %d is not a multiple of the block size", len(ciphertext))
		}
	}

	cfg := newConfig(inputs[0]+".enc", inputs[1]+".enc")
	cfg.Decrypt = true

	processed, errored, err = run(t, cfg)
	if err != nil || processed != 2 || errored != 0 {
		t.Fatalf("decrypt: processed=%d errored=%d err=%v", processed, errored, err)
	}

	for _, in := range inputs {
		got, err := os.ReadFile(in + ".out")
		if err != nil {
			t.Fatalf("reading decrypted output: %v", err)
		}

		if !bytes.Equal(got, plain) {
			t.Errorf("round trip of %q = %q, want %q", in, got, plain)
		}
	}
}

func TestSharedKeyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	keyPath := filepath.Join(dir, "shared.yaml")

	shared := keyfile.Key{Matrix: matrix.Matrix{{3, 3}, {2, 5}}, Modulus: 256}
	if err := keyfile.Save(keyPath, shared, keyfile.Options{}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	in := filepath.Join(dir, "msg")
	plain := []byte("ABCDE")
	writeFile(t, in, plain, 0o600)

	cfg := newConfig(in)
	cfg.Key.File = keyPath
	cfg.Cipher.Padding = "legacy"

	if _, _, err := run(t, cfg); err != nil {
		t.Fatalf("encrypt error: %v", err)
	}

	if _, err := os.Stat(encryption.KeyPath(in+".enc", keyfile.FormatJSON)); err == nil {
		t.Error("per-file key written although a shared key was given")
	}

	cfg = newConfig(in + ".enc")
	cfg.Key.File = keyPath
	cfg.Cipher.Padding = "legacy"
	cfg.Decrypt = true

	if _, _, err := run(t, cfg); err != nil {
		t.Fatalf("decrypt error: %v", err)
	}

	got, err := os.ReadFile(in + ".out")
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	if !bytes.Equal(got, plain) {
		t.Errorf("round trip = %q, want %q", got, plain)
	}
}

func TestDecryptMissingKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "orphan.enc")
	writeFile(t, in, []byte{1, 2, 3}, 0o600)

	cfg := newConfig(in)
	cfg.Decrypt = true

	processed, errored, err := run(t, cfg)
	if !errors.Is(err, encryption.ErrMissingKey) {
		t.Fatalf("error = %v, want %v", err, encryption.ErrMissingKey)
	}

	if processed != 0 || errored != 1 {
		t.Errorf("processed=%d errored=%d, want 0 and 1", processed, errored)
	}
}

func TestDecryptSameOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "plain")
	writeFile(t, in, []byte{1, 2, 3}, 0o600)

	cfg := newConfig(in)
	cfg.Decrypt = true
	cfg.Suffixes.Decrypt = ""

	if _, _, err := run(t, cfg); !errors.Is(err, encryption.ErrSameOutput) {
		t.Fatalf("error = %v, want %v", err, encryption.ErrSameOutput)
	}
}

func TestFailedEncryptionRemovesKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "wide")
	writeFile(t, in, []byte{200, 201, 202}, 0o600)

	// Bytes of 26 and above are not symbols modulo 26.
	cfg := newConfig(in)
	cfg.Cipher.Modulus = 26

	if _, errored, err := run(t, cfg); err == nil || errored != 1 {
		t.Fatalf("errored=%d err=%v, want one failure", errored, err)
	}

	if _, err := os.Stat(encryption.KeyPath(in+".enc", keyfile.FormatJSON)); err == nil {
		t.Error("generated key left behind after a failed encryption")
	}
}

func TestDeleteAndExecutableBit(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not portable")
	}

	dir := t.TempDir()
	in := filepath.Join(dir, "script.sh")
	writeFile(t, in, []byte("#!/bin/sh\necho hi\n"), 0o700)

	cfg := newConfig(in)
	cfg.Delete = true

	if _, _, err := run(t, cfg); err != nil {
		t.Fatalf("encrypt error: %v", err)
	}

	if _, err := os.Stat(in); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("input not deleted: %v", err)
	}

	info, err := os.Stat(in + ".enc")
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}

	if info.Mode().Perm()&0o111 == 0 {
		t.Errorf("output mode %v lost the executable bit", info.Mode())
	}

	cfg = newConfig(in + ".enc")
	cfg.Decrypt = true
	cfg.Delete = true

	if _, _, err := run(t, cfg); err != nil {
		t.Fatalf("decrypt error: %v", err)
	}

	if _, err := os.Stat(encryption.KeyPath(in+".enc", keyfile.FormatJSON)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("per-file key not deleted with its input: %v", err)
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	cfg := newConfig()

	if got, want := encryption.OutputPath(filepath.Join("dir", "a.txt"), cfg), filepath.Join("dir", "a.txt.enc"); got != want {
		t.Errorf("encrypt OutputPath = %q, want %q", got, want)
	}

	cfg.Decrypt = true
	cfg.Suffixes.Decrypt = ""

	if got, want := encryption.OutputPath(filepath.Join("dir", "a.txt.enc"), cfg), filepath.Join("dir", "a.txt"); got != want {
		t.Errorf("decrypt OutputPath = %q, want %q", got, want)
	}
}
