package encryption

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/gogen/pkg/key"
	"github.com/idelchi/hill/internal/config"
	"github.com/idelchi/hill/internal/fileutil"
	"github.com/idelchi/hill/internal/hill"
	"github.com/idelchi/hill/internal/keyfile"
	"github.com/idelchi/hill/internal/keygen"
)

// KeyMarker separates an output name from the extension of its per-file key.
const KeyMarker = ".key"

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// log receives diagnostic messages
	log *logrus.Logger

	// shared is the cipher built from --key-file, nil for per-file keys
	shared *hill.Cipher

	// format is the format of generated per-file keys
	format keyfile.Format

	// wrapKey seals and opens key files when set
	wrapKey []byte

	// results channels processing outcomes to the printer goroutine
	results chan Result
}

// NewProcessor creates a new Processor with the given configuration.
// A shared key file is loaded and validated up front.
func NewProcessor(cfg *config.Config, log *logrus.Logger) (*Processor, error) {
	format, err := keyfile.ParseFormat(cfg.Key.Format)
	if err != nil {
		return nil, fmt.Errorf("key format: %w", err)
	}

	processor := &Processor{
		cfg:     cfg,
		log:     log,
		format:  format,
		results: make(chan Result, len(cfg.Files)),
	}

	if cfg.Key.Wrap != "" {
		processor.wrapKey, err = key.FromHex(cfg.Key.Wrap)
		if err != nil {
			return nil, fmt.Errorf("reading wrap key: %w", err)
		}
	}

	if cfg.Key.File == "" {
		log.Debug("no key file given, using one key per file")

		return processor, nil
	}

	k, err := keyfile.Load(cfg.Key.File, processor.wrapKey)
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	processor.shared, err = processor.newCipher(k)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"file":        cfg.Key.File,
		"size":        processor.shared.BlockSize(),
		"modulus":     processor.shared.Modulus(),
		"fingerprint": k.Fingerprint(),
	}).Debug("loaded shared key")

	return processor, nil
}

// ProcessFiles concurrently processes all files specified in the configuration.
// It encrypts or decrypts files based on the configuration settings.
// Returns the number of successfully processed files and the number of errors.
//
//nolint:cyclop,gocognit
func (p *Processor) ProcessFiles() (processed, errored int, totalSize int64, err error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range p.results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Error)

				continue
			}

			processed++

			totalSize += result.OutputSize

			if !p.cfg.Quiet {
				fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
			}

			if p.cfg.Delete {
				p.remove(result)
			}
		}
	}()

	for _, file := range p.cfg.Files {
		group.Go(func() error {
			outPath := OutputPath(file, p.cfg)

			size, keyPath, err := p.processFile(file, outPath)
			if err != nil {
				p.results <- Result{Input: file, Error: err}

				return err
			}

			p.results <- Result{Input: file, Output: outPath, KeyFile: keyPath, OutputSize: size}

			return nil
		})
	}

	err = group.Wait()

	close(p.results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// remove deletes the input of a successful result. A per-file key used for
// decryption is deleted with it.
func (p *Processor) remove(result Result) {
	paths := []string{result.Input}

	if p.cfg.Decrypt && result.KeyFile != "" {
		paths = append(paths, result.KeyFile)
	}

	for _, path := range paths {
		if err := os.Remove(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting %q: %v\n", path, err)

			continue
		}

		if !p.cfg.Quiet {
			fmt.Printf("Deleted %q\n", path) //nolint:forbidigo
		}
	}
}

// processFile handles the encryption or decryption of a single file.
// The output is written to a temporary file and renamed into place on completion.
// It returns the output size and the per-file key path, if any.
//
//nolint:funlen,cyclop
func (p *Processor) processFile(filename, outPath string) (size int64, keyPath string, err error) {
	if filepath.Clean(filename) == filepath.Clean(outPath) {
		return 0, "", fmt.Errorf("%w: %q", ErrSameOutput, outPath)
	}

	info, err := os.Stat(filename)
	if err != nil {
		return 0, "", fmt.Errorf("stat input file: %w", err)
	}

	data, err := os.ReadFile(filepath.Clean(filename))
	if err != nil {
		return 0, "", fmt.Errorf("reading input file: %w", err)
	}

	var (
		cipher    *hill.Cipher
		generated bool
	)

	switch {
	case p.shared != nil:
		cipher = p.shared
	case p.cfg.Decrypt:
		cipher, keyPath, err = p.findKey(filename)
	default:
		keyPath = KeyPath(outPath, p.format)
		cipher, err = p.generateKey(keyPath)
		generated = err == nil
	}

	if err != nil {
		return 0, "", err
	}

	// A freshly generated key is useless without its output.
	// Error returns reset keyPath, so the cleanup holds its own copy.
	if generated {
		generatedKey := keyPath

		defer func() {
			if err != nil {
				os.Remove(generatedKey) //nolint:errcheck,gosec // best-effort cleanup
			}
		}()
	}

	var out []byte

	if p.cfg.Decrypt {
		out, err = cipher.Decrypt(data)
		if err != nil {
			return 0, "", fmt.Errorf("decrypting file: %w", err)
		}
	} else {
		if p.padding() == hill.PaddingLegacy && hill.LegacyAmbiguous(data, cipher.BlockSize()) {
			p.log.WithField("file", filename).
				Warn("input ends in a byte legacy padding cannot tell apart, decryption will not restore it; use --padding pkcs7")
		}

		out, err = cipher.Encrypt(data)
		if err != nil {
			return 0, "", fmt.Errorf("encrypting file: %w", err)
		}
	}

	file, err := fileutil.CreateAtomic(outPath)
	if err != nil {
		return 0, "", fmt.Errorf("preparing atomic write: %w", err)
	}

	defer file.Abort()

	if _, err = file.Write(out); err != nil {
		return 0, "", fmt.Errorf("writing output: %w", err)
	}

	if err = file.Commit(fileutil.Permissions(fileutil.IsExecutable(info))); err != nil {
		return 0, "", err
	}

	size, err = fileutil.FinalizeOutput(outPath, p.cfg.PreserveTimestamps, info.ModTime())
	if err != nil {
		return 0, "", fmt.Errorf("finalizing output: %w", err)
	}

	return size, keyPath, nil
}

// generateKey creates a fresh invertible key, saves it to keyPath and returns its cipher.
func (p *Processor) generateKey(keyPath string) (*hill.Cipher, error) {
	m, err := keygen.GenerateInvertible(p.cfg.Cipher.Size, p.cfg.Cipher.Modulus, keygen.DefaultSource)
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	k := keyfile.Key{Matrix: m, Modulus: p.cfg.Cipher.Modulus}

	cipher, err := p.newCipher(k)
	if err != nil {
		return nil, err
	}

	if err := keyfile.Save(keyPath, k, keyfile.Options{Format: p.format, WrapKey: p.wrapKey}); err != nil {
		return nil, fmt.Errorf("saving key: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"key":         keyPath,
		"size":        cipher.BlockSize(),
		"modulus":     cipher.Modulus(),
		"fingerprint": k.Fingerprint(),
	}).Debug("generated key")

	return cipher, nil
}

// findKey loads the per-file key stored next to an encrypted file, trying every format.
func (p *Processor) findKey(filename string) (*hill.Cipher, string, error) {
	for _, format := range keyfile.Formats() {
		keyPath := KeyPath(filename, format)

		if _, err := os.Stat(keyPath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return nil, "", fmt.Errorf("stat key file: %w", err)
		}

		k, err := keyfile.Load(keyPath, p.wrapKey)
		if err != nil {
			return nil, "", fmt.Errorf("reading key: %w", err)
		}

		cipher, err := p.newCipher(k)
		if err != nil {
			return nil, "", err
		}

		p.log.WithFields(logrus.Fields{
			"key":         keyPath,
			"size":        cipher.BlockSize(),
			"modulus":     cipher.Modulus(),
			"fingerprint": k.Fingerprint(),
		}).Debug("loaded per-file key")

		return cipher, keyPath, nil
	}

	return nil, "", fmt.Errorf("%w: pass --key-file or place %q next to the input",
		ErrMissingKey, filepath.Base(KeyPath(filename, p.format)))
}

// newCipher builds a cipher for k with the configured padding and workers.
func (p *Processor) newCipher(k keyfile.Key) (*hill.Cipher, error) {
	cipher, err := hill.New(k.Matrix, hill.Config{
		Modulus: k.Modulus,
		Padding: p.padding(),
		Workers: p.cfg.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	return cipher, nil
}

func (p *Processor) padding() hill.Padding {
	if p.cfg.Cipher.Padding == "" {
		return hill.PaddingLegacy
	}

	return hill.Padding(p.cfg.Cipher.Padding)
}

// OutputPath generates the output file path based on the input filename
// and the configured suffixes for encryption/decryption.
func OutputPath(filename string, cfg *config.Config) string {
	ext := cfg.Suffixes.Encrypt

	if cfg.Decrypt {
		filename = strings.TrimSuffix(filename, cfg.Suffixes.Encrypt)
		ext = cfg.Suffixes.Decrypt
	}

	return filepath.Join(filepath.Dir(filename), filepath.Base(filename)+ext)
}

// KeyPath returns where the per-file key of the encrypted file path is stored.
func KeyPath(path string, format keyfile.Format) string {
	return path + KeyMarker + format.Extension()
}
