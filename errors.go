package crossrank

import (
	"errors"
	"fmt"

	"github.com/hupe1980/crossrank/aggregate"
	"github.com/hupe1980/crossrank/dataset"
	"github.com/hupe1980/crossrank/distance"
	"github.com/hupe1980/crossrank/model"
)

var (
	// ErrConfiguration is the root of every invalid-input error.
	ErrConfiguration = model.ErrConfiguration

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = model.ErrInvalidK

	// ErrNoClassAttribute is returned when an index has no class attribute.
	ErrNoClassAttribute = model.ErrNoClassAttribute

	// ErrNoDocumentAttribute is returned when an index has no document attribute.
	ErrNoDocumentAttribute = model.ErrNoDocumentAttribute

	// ErrSchemaMismatch is returned when records disagree on their attribute count.
	ErrSchemaMismatch = model.ErrSchemaMismatch

	// ErrUnknownMeasure is returned for a distance measure other than L1 or L2.
	ErrUnknownMeasure = distance.ErrUnknownMeasure

	// ErrNoIndices is returned when a run has no index to search.
	ErrNoIndices = dataset.ErrNoIndices

	// ErrNoQueries is returned when a run has no query document.
	ErrNoQueries = fmt.Errorf("%w: no queries", model.ErrConfiguration)

	// ErrFinalized marks an observation added after statistics were read.
	ErrFinalized = aggregate.ErrFinalized
)

// IndexError attributes a failure to one index.
type IndexError = model.IndexError

func indexError(name string, err error) error {
	if err == nil {
		return nil
	}
	var ie *IndexError
	if errors.As(err, &ie) {
		return err
	}
	return &IndexError{Index: name, Err: err}
}

// IsConfigurationError reports whether err stems from invalid input rather
// than a runtime failure.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
