// Package sizing provides bounded reads shared by the storage backends.
package sizing

import (
	"io"
	"math"
)

// Check returns overflowErr if size exceeds limit. A zero limit disables the
// check.
func Check(size, limit uint64, overflowErr error) error {
	if limit > 0 && size > limit {
		return overflowErr
	}
	return nil
}

// ReadAll reads r to EOF, failing with overflowErr once more than limit bytes
// arrive. A zero limit reads without bound.
func ReadAll(r io.Reader, limit uint64, overflowErr error) ([]byte, error) {
	if limit == 0 {
		return io.ReadAll(r)
	}
	if limit > uint64(math.MaxInt-1) {
		return nil, overflowErr
	}
	lr := &io.LimitedReader{R: r, N: int64(limit) + 1} //nolint:gosec // checked above
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) > limit {
		return nil, overflowErr
	}
	return data, nil
}
