// Package distance provides the L1 and L2 distance measures between records.
package distance

import (
	"fmt"
	"strings"

	"github.com/hupe1980/crossrank/model"
)

// ErrUnknownMeasure is returned by ParseMeasure for unsupported names.
var ErrUnknownMeasure = fmt.Errorf("%w: unknown similarity measure", model.ErrConfiguration)

// Measure selects the distance function used for a whole run.
type Measure int

const (
	// L1 is the Manhattan distance: the sum of absolute differences.
	L1 Measure = iota
	// L2 is the Euclidean distance: the root of the summed squared differences.
	L2
)

func (m Measure) String() string {
	switch m {
	case L1:
		return "L1"
	case L2:
		return "L2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMeasure parses "L1" or "L2" (case-insensitive).
func ParseMeasure(s string) (Measure, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L1":
		return L1, nil
	case "L2":
		return L2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMeasure, s)
	}
}

// Validate reports ErrUnknownMeasure for values other than L1 and L2.
func (m Measure) Validate() error {
	if m != L1 && m != L2 {
		return fmt.Errorf("%w: %v", ErrUnknownMeasure, m)
	}
	return nil
}

// Metric computes the distance between two records of the same index.
//
// Implementations must be symmetric and non-negative and safe for
// concurrent use.
type Metric interface {
	Distance(a, b *model.Record) (float64, error)
}
