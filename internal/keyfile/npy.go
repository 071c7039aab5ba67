package keyfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/idelchi/hill/internal/matrix"
)

// NumPy .npy format, versions 1.0 to 3.0:
//
//	"\x93NUMPY" major minor headerLen header data
//
// headerLen is a little-endian uint16 in version 1 and uint32 afterwards. The
// header is a Python dict literal with descr, fortran_order and shape.
const (
	npyMagic     = "\x93NUMPY"
	npyAlignment = 64
)

var (
	npyDescr   = regexp.MustCompile(`'descr':\s*'([<>|=]?)([iu])([1248])'`)
	npyFortran = regexp.MustCompile(`'fortran_order':\s*(True|False)`)
	npyShape   = regexp.MustCompile(`'shape':\s*\(\s*(\d+)\s*,\s*(\d+)\s*,?\s*\)`)
)

// marshalNPY writes m as a version 1.0 little-endian int64 C-order array,
// which is what numpy.save produces for a default integer matrix.
func marshalNPY(m matrix.Matrix) []byte {
	n := m.Size()

	header := fmt.Sprintf("{'descr': '<i8', 'fortran_order': False, 'shape': (%d, %d), }", n, n)

	// magic + version + uint16 length + header + '\n' must be a multiple of npyAlignment.
	prefix := len(npyMagic) + 2 + 2
	total := prefix + len(header) + 1

	if rem := total % npyAlignment; rem != 0 {
		header += string(bytes.Repeat([]byte{' '}, npyAlignment-rem))
	}

	header += "\n"

	var buf bytes.Buffer

	buf.WriteString(npyMagic)
	buf.Write([]byte{1, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(len(header))) //nolint:errcheck,gosec // bytes.Buffer writes do not fail
	buf.WriteString(header)

	for _, row := range m {
		for _, v := range row {
			binary.Write(&buf, binary.LittleEndian, int64(v)) //nolint:errcheck // bytes.Buffer writes do not fail
		}
	}

	return buf.Bytes()
}

// unmarshalNPY reads a two-dimensional integer array.
//
//nolint:cyclop,funlen
func unmarshalNPY(data []byte) (matrix.Matrix, error) {
	if len(data) < len(npyMagic)+4 || string(data[:len(npyMagic)]) != npyMagic {
		return nil, fmt.Errorf("%w: missing npy magic", ErrMalformed)
	}

	major := data[len(npyMagic)]
	rest := data[len(npyMagic)+2:]

	var headerLen int

	switch major {
	case 1:
		headerLen = int(binary.LittleEndian.Uint16(rest))
		rest = rest[2:]
	case 2, 3:
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: truncated npy header", ErrMalformed)
		}

		headerLen = int(binary.LittleEndian.Uint32(rest))
		rest = rest[4:]
	default:
		return nil, fmt.Errorf("%w: unsupported npy version %d", ErrMalformed, major)
	}

	if headerLen > len(rest) {
		return nil, fmt.Errorf("%w: truncated npy header", ErrMalformed)
	}

	header, body := string(rest[:headerLen]), rest[headerLen:]

	descr := npyDescr.FindStringSubmatch(header)
	if descr == nil {
		return nil, fmt.Errorf("%w: unsupported npy dtype in header %q", ErrMalformed, header)
	}

	var order binary.ByteOrder = binary.LittleEndian
	if descr[1] == ">" {
		order = binary.BigEndian
	}

	signed := descr[2] == "i"
	width, _ := strconv.Atoi(descr[3]) //nolint:errcheck // regexp guarantees a digit

	fortran := false
	if match := npyFortran.FindStringSubmatch(header); match != nil {
		fortran = match[1] == "True"
	}

	shape := npyShape.FindStringSubmatch(header)
	if shape == nil {
		return nil, fmt.Errorf("%w: npy array is not two-dimensional", ErrMalformed)
	}

	rows, err := strconv.Atoi(shape[1])
	if err != nil {
		return nil, fmt.Errorf("%w: npy shape: %w", ErrMalformed, err)
	}

	cols, err := strconv.Atoi(shape[2])
	if err != nil {
		return nil, fmt.Errorf("%w: npy shape: %w", ErrMalformed, err)
	}

	if rows != cols || rows == 0 {
		return nil, fmt.Errorf("%w: npy array has shape (%d, %d), want a square matrix", ErrMalformed, rows, cols)
	}

	if rows > MaxSize {
		return nil, fmt.Errorf("%w: npy array has %d rows, at most %d allowed", ErrMalformed, rows, MaxSize)
	}

	if len(body) != rows*cols*width {
		return nil, fmt.Errorf("%w: npy body has %d bytes, want %d", ErrMalformed, len(body), rows*cols*width)
	}

	m := matrix.New(rows)

	for idx := range rows * cols {
		v, err := readInt(body[idx*width:(idx+1)*width], order, signed)
		if err != nil {
			return nil, err
		}

		r, c := idx/cols, idx%cols
		if fortran {
			r, c = idx%rows, idx/rows
		}

		m[r][c] = v
	}

	return m, nil
}

func readInt(b []byte, order binary.ByteOrder, signed bool) (int, error) {
	var raw uint64

	switch len(b) {
	case 1:
		raw = uint64(b[0])
		if signed {
			return int(int8(b[0])), nil
		}
	case 2:
		raw = uint64(order.Uint16(b))
		if signed {
			return int(int16(raw)), nil //nolint:gosec // reinterpretation is intended
		}
	case 4:
		raw = uint64(order.Uint32(b))
		if signed {
			return int(int32(raw)), nil //nolint:gosec // reinterpretation is intended
		}
	case 8:
		raw = order.Uint64(b)
		if signed {
			return int(int64(raw)), nil //nolint:gosec // reinterpretation is intended
		}
	}

	if raw > math.MaxInt32 {
		return 0, fmt.Errorf("%w: npy value %d out of range", ErrMalformed, raw)
	}

	return int(raw), nil
}
