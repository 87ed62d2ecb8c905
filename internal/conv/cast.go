package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a value does not fit the target type.
var ErrOverflow = errors.New("integer overflow")

// IntToUint32 converts a non-negative int to uint32, rejecting values that
// do not fit. Record positions and index ordinals are stored as uint32.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d does not fit uint32", ErrOverflow, v)
	}
	return uint32(v), nil
}

// MustIntToUint32 is IntToUint32 for values already checked by the caller.
func MustIntToUint32(v int) uint32 {
	u, err := IntToUint32(v)
	if err != nil {
		panic(err)
	}
	return u
}
