package keyfile_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idelchi/hill/internal/keyfile"
	"github.com/idelchi/hill/internal/keygen"
	"github.com/idelchi/hill/internal/matrix"
	"github.com/idelchi/hill/internal/modular"
)

func textbookKey() keyfile.Key {
	return keyfile.Key{Matrix: matrix.Matrix{{3, 3}, {2, 5}}, Modulus: 26}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	generated, err := keygen.GenerateInvertible(3, 256, nil)
	if err != nil {
		t.Fatalf("GenerateInvertible error: %v", err)
	}

	key := keyfile.Key{Matrix: generated, Modulus: 256}

	for _, name := range []string{"key.json", "key.jsonc", "key.yaml", "key.yml", "key.npy"} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), name)

			if err := keyfile.Save(path, key, keyfile.Options{}); err != nil {
				t.Fatalf("Save error: %v", err)
			}

			loaded, err := keyfile.Load(path, nil)
			if err != nil {
				t.Fatalf("Load error: %v", err)
			}

			if !loaded.Matrix.Equal(key.Matrix) || loaded.Modulus != key.Modulus {
				t.Errorf("Load = %v mod %d, want %v mod %d", loaded.Matrix, loaded.Modulus, key.Matrix, key.Modulus)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("stat key file: %v", err)
			}

			if perm := info.Mode().Perm(); perm != 0o600 {
				t.Errorf("key file mode = %v, want 0600", perm)
			}
		})
	}
}

func TestNonDefaultModulus(t *testing.T) {
	t.Parallel()

	data, err := keyfile.Marshal(textbookKey(), keyfile.FormatYAML)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	loaded, err := keyfile.Unmarshal(data, keyfile.FormatYAML)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if loaded.Modulus != 26 {
		t.Errorf("modulus = %d, want 26", loaded.Modulus)
	}

	if _, err := keyfile.Marshal(textbookKey(), keyfile.FormatNPY); !errors.Is(err, keyfile.ErrUnknownFormat) {
		t.Errorf("npy with modulus 26 error = %v, want ErrUnknownFormat", err)
	}
}

func TestUnmarshalJSONWithComments(t *testing.T) {
	t.Parallel()

	data := []byte(`{
  // generated by hand
  "size": 2,
  "modulus": 26,
  "rows": [[3, 3], [2, 5]], // trailing comma below is tolerated
}`)

	key, err := keyfile.Unmarshal(data, keyfile.FormatJSON)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if !key.Matrix.Equal(textbookKey().Matrix) {
		t.Errorf("matrix = %v", key.Matrix)
	}
}

func TestUnmarshalRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
		want error
	}{
		{"malformed", `{"rows": [[1, 2], [3`, keyfile.ErrMalformed},
		{"size_mismatch", `{"size": 3, "rows": [[1, 2], [3, 5]]}`, keyfile.ErrMalformed},
		{"not_invertible", `{"rows": [[2, 4], [1, 2]]}`, modular.ErrNotInvertible},
		{"out_of_range", `{"modulus": 26, "rows": [[30, 1], [1, 1]]}`, matrix.ErrEntryOutOfRange},
		{"not_square", `{"rows": [[1, 2]]}`, matrix.ErrNotSquare},
		{"fingerprint", `{"rows": [[1, 2], [3, 5]], "fingerprint": "00"}`, keyfile.ErrFingerprintMismatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := keyfile.Unmarshal([]byte(tc.data), keyfile.FormatJSON); !errors.Is(err, tc.want) {
				t.Errorf("Unmarshal error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	key := textbookKey()

	if got := key.Fingerprint(); len(got) != 32 {
		t.Errorf("fingerprint %q has length %d, want 32", got, len(got))
	}

	other := keyfile.Key{Matrix: key.Matrix, Modulus: 27}
	if key.Fingerprint() == other.Fingerprint() {
		t.Error("fingerprint ignores the modulus")
	}

	data, err := keyfile.Marshal(key, keyfile.FormatJSON)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	if !strings.Contains(string(data), key.Fingerprint()) {
		t.Errorf("encoded key lacks its fingerprint:\n%s", data)
	}
}

// npyInt32 builds a version 1.0 file with a little-endian int32 body, as
// numpy writes default integers on Windows.
func npyInt32(t *testing.T, fortran bool, rows [][]int32) []byte {
	t.Helper()

	order := "False"
	if fortran {
		order = "True"
	}

	header := "{'descr': '<i4', 'fortran_order': " + order + ", 'shape': (2, 2), }\n"

	var buf bytes.Buffer

	buf.WriteString("\x93NUMPY\x01\x00")

	if err := binary.Write(&buf, binary.LittleEndian, uint16(len(header))); err != nil {
		t.Fatalf("writing header length: %v", err)
	}

	buf.WriteString(header)

	for _, row := range rows {
		for _, v := range row {
			if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
				t.Fatalf("writing body: %v", err)
			}
		}
	}

	return buf.Bytes()
}

func TestUnmarshalNPY(t *testing.T) {
	t.Parallel()

	key, err := keyfile.Unmarshal(npyInt32(t, false, [][]int32{{1, 2}, {3, 5}}), keyfile.FormatNPY)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if !key.Matrix.Equal(matrix.Matrix{{1, 2}, {3, 5}}) || key.Modulus != 256 {
		t.Errorf("C order key = %v mod %d", key.Matrix, key.Modulus)
	}

	// Column-major storage of the same matrix.
	key, err = keyfile.Unmarshal(npyInt32(t, true, [][]int32{{1, 3}, {2, 5}}), keyfile.FormatNPY)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if !key.Matrix.Equal(matrix.Matrix{{1, 2}, {3, 5}}) {
		t.Errorf("Fortran order key = %v", key.Matrix)
	}

	if _, err := keyfile.Unmarshal([]byte("not numpy"), keyfile.FormatNPY); !errors.Is(err, keyfile.ErrMalformed) {
		t.Errorf("garbage npy error = %v, want ErrMalformed", err)
	}

	truncated := npyInt32(t, false, [][]int32{{1, 2}, {3, 5}})
	if _, err := keyfile.Unmarshal(truncated[:len(truncated)-1], keyfile.FormatNPY); !errors.Is(err, keyfile.ErrMalformed) {
		t.Errorf("truncated npy error = %v, want ErrMalformed", err)
	}
}

func TestUnmarshalNPYRejectsShape(t *testing.T) {
	t.Parallel()

	shapes := map[string]string{
		"overflowing":    "(9223372036854775807, 9223372036854775807)",
		"beyond_int64":   "(99999999999999999999, 99999999999999999999)",
		"beyond_maxsize": "(33, 33)",
	}

	for name, shape := range shapes {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			header := "{'descr': '<i8', 'fortran_order': False, 'shape': " + shape + ", }\n"

			var buf bytes.Buffer

			buf.WriteString("\x93NUMPY\x01\x00")

			if err := binary.Write(&buf, binary.LittleEndian, uint16(len(header))); err != nil {
				t.Fatalf("writing header length: %v", err)
			}

			buf.WriteString(header)
			buf.Write(make([]byte, 8))

			if _, err := keyfile.Unmarshal(buf.Bytes(), keyfile.FormatNPY); !errors.Is(err, keyfile.ErrMalformed) {
				t.Errorf("Unmarshal error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestValidateRejectsOversizedKey(t *testing.T) {
	t.Parallel()

	key := keyfile.Key{Matrix: matrix.Identity(keyfile.MaxSize + 1), Modulus: 256}
	if err := key.Validate(); !errors.Is(err, keyfile.ErrInvalidKey) {
		t.Errorf("Validate error = %v, want ErrInvalidKey", err)
	}

	key.Matrix = matrix.Identity(keyfile.MaxSize)
	if err := key.Validate(); err != nil {
		t.Errorf("Validate error for size %d: %v", keyfile.MaxSize, err)
	}
}

func TestMarshalNPYAlignment(t *testing.T) {
	t.Parallel()

	data, err := keyfile.Marshal(keyfile.Key{Matrix: matrix.Identity(3), Modulus: 256}, keyfile.FormatNPY)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	if (10+headerLen)%64 != 0 {
		t.Errorf("npy data offset %d is not 64-byte aligned", 10+headerLen)
	}

	if len(data) != 10+headerLen+9*8 {
		t.Errorf("npy length = %d, want %d", len(data), 10+headerLen+9*8)
	}
}

func TestSealed(t *testing.T) {
	t.Parallel()

	wrapKey := bytes.Repeat([]byte{0x42}, keyfile.WrapKeySize)
	path := filepath.Join(t.TempDir(), "sealed.json")

	if err := keyfile.Save(path, textbookKey(), keyfile.Options{WrapKey: wrapKey}); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading key file: %v", err)
	}

	if !keyfile.IsSealed(raw) {
		t.Fatal("saved file is not sealed")
	}

	if _, err := keyfile.Load(path, nil); !errors.Is(err, keyfile.ErrSealed) {
		t.Errorf("Load without wrap key error = %v, want ErrSealed", err)
	}

	if _, err := keyfile.Load(path, []byte("short")); !errors.Is(err, keyfile.ErrWrapKey) {
		t.Errorf("Load with short wrap key error = %v, want ErrWrapKey", err)
	}

	if _, err := keyfile.Load(path, bytes.Repeat([]byte{0x24}, keyfile.WrapKeySize)); err == nil {
		t.Error("Load with the wrong wrap key succeeded")
	}

	key, err := keyfile.Load(path, wrapKey)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if !key.Matrix.Equal(textbookKey().Matrix) || key.Modulus != 26 {
		t.Errorf("Load = %v mod %d", key.Matrix, key.Modulus)
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()

	cases := map[string]keyfile.Format{
		"a.json":      keyfile.FormatJSON,
		"a.JSONC":     keyfile.FormatJSON,
		"a/b.yml":     keyfile.FormatYAML,
		"a.enc.yaml":  keyfile.FormatYAML,
		"out.key.npy": keyfile.FormatNPY,
	}

	for path, want := range cases {
		got, err := keyfile.FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %q, %v, want %q", path, got, err, want)
		}
	}

	for _, path := range []string{"key", "key.txt"} {
		if _, err := keyfile.FormatFromPath(path); !errors.Is(err, keyfile.ErrUnknownFormat) {
			t.Errorf("FormatFromPath(%q) error = %v, want ErrUnknownFormat", path, err)
		}
	}
}
