package rng

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// UniformBound limits both ends of a UniformInt32 range.
const UniformBound = 1_000_000_000

// UniformInt32 returns an integer in [min, max] inclusive by rejection
// sampling big-endian 32-bit words from r. It is unbiased whenever the words
// are.
func UniformInt32(r io.Reader, h *Health, min, max int) (int32, error) {
	for _, b := range []struct {
		name string
		v    int
	}{{"minimum", min}, {"maximum", max}} {
		if b.v < -UniformBound || b.v > UniformBound {
			return 0, fmt.Errorf("the %s value must be between -1,000,000,000 and 1,000,000,000", b.name)
		}
	}
	if min > max {
		return 0, errors.New("the minimum value should be smaller than or equal to the maximum value")
	}

	span := uint64(int64(max)-int64(min)) + 1
	// Largest multiple of span that fits in 2^32; words at or above it are rejected.
	limit := (uint64(1) << 32) / span * span

	var buf [4]byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			if h != nil {
				h.Set(false, "error fetching random bytes: "+err.Error())
			}
			return 0, fmt.Errorf("error fetching random bytes: %w", err)
		}
		if x := uint64(binary.BigEndian.Uint32(buf[:])); x < limit {
			return int32(int64(x%span) + int64(min)), nil
		}
	}
}
