package query

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned when an operation is constructed with a
	// parameter it cannot work with, such as a negative limit or an unknown
	// sort direction.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownOperation is returned by Query when a transformation carries a
	// kind that has no entry in the priority table.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrEvaluation is returned when a transformation fails while running
	// against a record.
	ErrEvaluation = errors.New("evaluation failed")
)

// OperationError ties a failure to the kind of operation that produced it.
//
// The sentinel it wraps can be matched with errors.Is.
type OperationError struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *OperationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Kind, e.Err, e.Reason)
}

func (e *OperationError) Unwrap() error { return e.Err }

func invalidArgument(kind Kind, format string, args ...any) error {
	return &OperationError{Kind: kind, Reason: fmt.Sprintf(format, args...), Err: ErrInvalidArgument}
}

func evaluationError(kind Kind, format string, args ...any) error {
	return &OperationError{Kind: kind, Reason: fmt.Sprintf(format, args...), Err: ErrEvaluation}
}
