package cwater

import (
	"errors"
	"fmt"

	"github.com/hupe1980/cwater/internal/collect"
	"github.com/hupe1980/cwater/internal/refine"
	"github.com/hupe1980/cwater/internal/resource"
)

var (
	// ErrInvalidInput matches every *InputValidationError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrResourceExhausted matches every *ResourceExhaustionError.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrDegenerateStatistics is returned by refine statistics that cannot
	// normalize a structure's waters. Find never returns it; such structures
	// are kept unfiltered.
	ErrDegenerateStatistics = refine.ErrDegenerateStatistics

	// ErrQueryUnavailable is returned when the query structure cannot be
	// loaded or parsed.
	ErrQueryUnavailable = errors.New("query structure unavailable")
)

// InputValidationError reports a parameter outside its accepted domain.
// It is returned before any I/O happens.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type InputValidationError struct {
	Field  string
	Value  any
	Reason string
	cause  error
}

func (e *InputValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *InputValidationError) Is(target error) bool { return target == ErrInvalidInput }

func (e *InputValidationError) Unwrap() error { return e.cause }

// ResourceExhaustionError reports a run that exceeds the point limit or the
// memory budget. No partial output is produced.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ResourceExhaustionError struct {
	// Count is the merged water count of the run.
	Count int
	// Limit is the configured maximum merged water count.
	Limit int
	// Bytes is the size of the rejected memory reservation, 0 when the
	// point limit was hit.
	Bytes int64
	cause error
}

func (e *ResourceExhaustionError) Error() string {
	if e.Bytes > 0 {
		return fmt.Sprintf("resource exhausted: distance matrix of %d waters needs %d bytes", e.Count, e.Bytes)
	}
	return fmt.Sprintf("resource exhausted: %d water atoms reach the limit of %d", e.Count, e.Limit)
}

func (e *ResourceExhaustionError) Is(target error) bool { return target == ErrResourceExhausted }

func (e *ResourceExhaustionError) Unwrap() error { return e.cause }

func invalid(field string, value any, reason string) error {
	return &InputValidationError{Field: field, Value: value, Reason: reason}
}

func translateError(err error, count int, bytes int64) error {
	if err == nil {
		return nil
	}

	var le *collect.LimitError
	if errors.As(err, &le) {
		return &ResourceExhaustionError{Count: le.Count, Limit: le.Limit, cause: err}
	}
	if errors.Is(err, resource.ErrMemoryLimitExceeded) {
		return &ResourceExhaustionError{Count: count, Bytes: bytes, cause: err}
	}

	return err
}
