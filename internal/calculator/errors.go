package calculator

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField        = errors.New("missing field")
	ErrInvalidCoordinate   = errors.New("invalid coordinate")
	ErrEmptyOverlap        = errors.New("datasets do not share an x range")
	ErrDegenerateStatistic = errors.New("statistic is undefined")
	ErrEmptyTable          = errors.New("table has no rows")
	ErrInsufficientData    = errors.New("not enough data points")
	ErrLengthMismatch      = errors.New("model values are not aligned with the table")
)

// FieldError ties a failure to a column and, where known, a row.
type FieldError struct {
	Field string
	Row   int // -1 when the whole column is at fault
	Value float64
	Err   error
}

func (e *FieldError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s row %d: %v (got: %v)", e.Field, e.Row, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error { return e.Err }

func missingField(name string) error {
	return &FieldError{Field: name, Row: -1, Err: ErrMissingField}
}
