package model

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the root of every error that aborts a run before or
// during retrieval because the input is unusable.
var ErrConfiguration = errors.New("configuration error")

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = fmt.Errorf("%w: k must be positive", ErrConfiguration)

	// ErrNoClassAttribute is returned when no attribute name contains "class".
	ErrNoClassAttribute = fmt.Errorf("%w: no class attribute found", ErrConfiguration)

	// ErrNoDocumentAttribute is returned when no attribute name contains "document".
	ErrNoDocumentAttribute = fmt.Errorf("%w: no document attribute found", ErrConfiguration)

	// ErrSchemaMismatch is returned when a record does not fit its schema.
	ErrSchemaMismatch = fmt.Errorf("%w: schema mismatch", ErrConfiguration)
)

// IndexError attributes a failure to one index.
//
// The original underlying error can be accessed via errors.Unwrap.
type IndexError struct {
	Index string
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %q: %v", e.Index, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }
