package series

import (
	"errors"
	"fmt"
)

var (
	// ErrData matches every data-quality failure. A file failing with ErrData is
	// skipped and the batch continues.
	ErrData = errors.New("invalid input data")

	// ErrTooFewSamples is returned when a sample rate cannot be derived.
	ErrTooFewSamples = fmt.Errorf("%w: at least 2 samples are required", ErrData)

	// ErrNonIncreasingTime is returned when timestamps do not strictly increase.
	ErrNonIncreasingTime = fmt.Errorf("%w: time column is not strictly increasing", ErrData)

	// ErrNonFinite is returned for NaN or infinite cells.
	ErrNonFinite = fmt.Errorf("%w: value is not a finite number", ErrData)
)

// EmptyInputError reports a zero-byte or header-only input file.
type EmptyInputError struct {
	Source string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no data rows", e.Source)
}

// Is makes errors.Is(err, ErrData) true.
func (e *EmptyInputError) Is(target error) bool {
	return target == ErrData
}

// ParseError reports a file that has data but does not satisfy the input schema.
type ParseError struct {
	Source string
	Line   int    // 1-based, 0 when the error is not tied to a line
	Column string // empty when the error is not tied to a column
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("%s:%d: column %q: %v", e.Source, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	case e.Column != "":
		return fmt.Sprintf("%s: column %q: %v", e.Source, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrData) true.
func (e *ParseError) Is(target error) bool {
	return target == ErrData
}
