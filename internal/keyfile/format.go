package keyfile

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/jsonc"

	"github.com/idelchi/hill/internal/matrix"
	"github.com/idelchi/hill/internal/modular"
)

// Format is an on-disk key encoding.
type Format string

const (
	// FormatJSON stores the key as a JSON document.
	FormatJSON Format = "json"
	// FormatYAML stores the key as a YAML document.
	FormatYAML Format = "yaml"
	// FormatNPY stores the key as a NumPy int64 array. The modulus is implied to be 256.
	FormatNPY Format = "npy"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatNPY}
}

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatNPY:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath derives the Format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}

	return ParseFormat(ext)
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// document is the JSON and YAML representation of a key.
type document struct {
	Size        int           `json:"size"                  yaml:"size"`
	Modulus     int           `json:"modulus"               yaml:"modulus"`
	Rows        matrix.Matrix `json:"rows"                  yaml:"rows,flow"`
	Fingerprint string        `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
}

// Marshal encodes k in format f. The key is validated first.
func Marshal(k Key, f Format) ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}

	doc := document{
		Size:        k.Size(),
		Modulus:     k.Modulus,
		Rows:        k.Matrix,
		Fingerprint: k.Fingerprint(),
	}

	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding JSON: %w", err)
		}

		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}

		return data, nil
	case FormatNPY:
		if k.Modulus != modular.DefaultModulus {
			return nil, fmt.Errorf("%w: npy keys imply modulus %d, key uses %d",
				ErrUnknownFormat, modular.DefaultModulus, k.Modulus)
		}

		return marshalNPY(k.Matrix), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Unmarshal decodes a key in format f and validates it.
func Unmarshal(data []byte, f Format) (Key, error) {
	var (
		key Key
		err error
	)

	switch f {
	case FormatJSON:
		key, err = unmarshalDocument(func(d *document) error {
			return json.Unmarshal(jsonc.ToJSON(data), d)
		})
	case FormatYAML:
		key, err = unmarshalDocument(func(d *document) error {
			return yaml.Unmarshal(data, d)
		})
	case FormatNPY:
		var m matrix.Matrix

		m, err = unmarshalNPY(data)
		key = Key{Matrix: m, Modulus: modular.DefaultModulus}
	default:
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	if err != nil {
		return Key{}, err
	}

	if err := key.Validate(); err != nil {
		return Key{}, err
	}

	return key, nil
}

func unmarshalDocument(decode func(*document) error) (Key, error) {
	var doc document

	if err := decode(&doc); err != nil {
		return Key{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if doc.Modulus == 0 {
		doc.Modulus = modular.DefaultModulus
	}

	if doc.Size != 0 && doc.Size != doc.Rows.Size() {
		return Key{}, fmt.Errorf("%w: size %d does not match %d rows", ErrMalformed, doc.Size, doc.Rows.Size())
	}

	key := Key{Matrix: doc.Rows, Modulus: doc.Modulus}

	if err := key.Validate(); err != nil {
		return Key{}, err
	}

	if doc.Fingerprint != "" && !strings.EqualFold(doc.Fingerprint, key.Fingerprint()) {
		return Key{}, fmt.Errorf("%w: stored %s, computed %s", ErrFingerprintMismatch, doc.Fingerprint, key.Fingerprint())
	}

	return key, nil
}
