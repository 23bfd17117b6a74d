package model

import (
	"errors"
	"fmt"
)

// Common error conditions returned by the engine. Sentinel variables allow
// callers to detect error classes via errors.Is/As instead of brittle string
// comparisons.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller is not the proposer, not an eligible
	// voter or not authorized to cancel.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a double vote, a vote on a terminal request or a
	// repeated execution attempt.
	ErrConflict = errors.New("conflict")
)

// ValidationError describes malformed or out-of-range input. It is returned
// before any state change is made.
type ValidationError struct {
	Info string
}

func (e *ValidationError) Error() string { return "validation: " + e.Info }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Info: fmt.Sprintf(format, args...)}
}

// ExecutionError captures a failure of the governed effect itself. It is
// recorded on the request as a terminal Failed status, never returned to the
// caller of Vote.
type ExecutionError struct {
	Reason string
}

func (e *ExecutionError) Error() string { return "execution failed: " + e.Reason }

// NewExecutionError builds an ExecutionError with a formatted reason.
func NewExecutionError(format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Reason: fmt.Sprintf(format, args...)}
}
