package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Samples table errors
	ErrEmptyTable      = errors.New("posterior table has no samples")
	ErrNoHeader        = errors.New("samples file has no header row")
	ErrRaggedRow       = errors.New("sample row width does not match header")
	ErrNonNumeric      = errors.New("non-numeric sample value")
	ErrDuplicateColumn = errors.New("duplicate column in header")

	// Interpretation errors
	ErrNotBurst         = errors.New("posterior is not a burst posterior")
	ErrNoInterpretation = errors.New("posterior could not be interpreted")

	// Auxiliary scalar errors
	ErrNoScalar = errors.New("scalar file contains no numeric value")

	// Remote service errors
	ErrInvalidEventID = errors.New("invalid event id")
)

// Error constructors with context
func NewRowError(line int, err error) error {
	return fmt.Errorf("line %d: %w", line, err)
}

func NewCellError(line int, column, value string) error {
	return fmt.Errorf("line %d, column %s: %w %q", line, column, ErrNonNumeric, value)
}
