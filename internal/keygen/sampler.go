package keygen

import (
	"fmt"
	"io"
)

// sampler draws integers uniformly from [0, bound) out of a byte stream.
// Values are assembled from the minimum number of bytes, masked to the
// minimum number of bits and rejected when >= bound.
type sampler struct {
	r      io.Reader
	bound  int
	nbytes int
	mask   uint64
	buf    []byte
}

func newSampler(r io.Reader, bound int) *sampler {
	bits := 0
	for v := bound - 1; v > 0; v >>= 1 {
		bits++
	}

	return &sampler{
		r:      r,
		bound:  bound,
		nbytes: (bits + 7) / 8,
		mask:   1<<bits - 1,
		buf:    make([]byte, (bits+7)/8),
	}
}

func (s *sampler) next() (int, error) {
	if s.bound <= 1 {
		return 0, nil
	}

	for {
		if _, err := io.ReadFull(s.r, s.buf); err != nil {
			return 0, fmt.Errorf("reading entropy: %w", err)
		}

		var value uint64
		for _, b := range s.buf {
			value = value<<8 | uint64(b)
		}

		value &= s.mask

		if value < uint64(s.bound) {
			return int(value), nil
		}
	}
}
