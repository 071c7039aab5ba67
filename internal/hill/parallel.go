package hill

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MinBlocksForParallel is the number of blocks below which transform runs sequentially.
const MinBlocksForParallel = 1024

// transform multiplies every block of src by the row-major key and writes the
// result to the same offsets in dst. Blocks are split into contiguous ranges,
// one per worker, so workers write disjoint regions of dst.
func (c *Cipher) transform(dst, src []byte, key []int) error {
	blocks := len(src) / c.size

	if blocks < MinBlocksForParallel || c.workers <= 1 {
		return c.transformRange(dst, src, key, 0, blocks)
	}

	perWorker := (blocks + c.workers - 1) / c.workers

	group := errgroup.Group{}
	group.SetLimit(c.workers)

	for start := 0; start < blocks; start += perWorker {
		end := min(start+perWorker, blocks)

		group.Go(func() error {
			return c.transformRange(dst, src, key, start, end)
		})
	}

	return group.Wait() //nolint:wrapcheck // errors carry context from transformRange
}

// transformRange processes blocks [first, last).
func (c *Cipher) transformRange(dst, src []byte, key []int, first, last int) error {
	n, mod := c.size, c.modulus

	for b := first; b < last; b++ {
		off := b * n
		block := src[off : off+n]

		if mod < ByteModulus {
			for i, v := range block {
				if int(v) >= mod {
					return fmt.Errorf("%w: byte %d at offset %d, modulus %d", ErrSymbolOutOfRange, v, off+i, mod)
				}
			}
		}

		for i := range n {
			row := key[i*n : (i+1)*n]

			sum := 0
			for j, v := range block {
				sum += row[j] * int(v)
			}

			dst[off+i] = byte(sum % mod)
		}
	}

	return nil
}
