package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	// Configuration errors are reported through validation results, never raised
	ErrorCategoryConfig ErrorCategory = "CONFIG"

	// Connection errors abort client construction and are never retried
	ErrorCategoryConnection ErrorCategory = "CONNECTION"

	// Transient errors are retried with exponential backoff
	ErrorCategoryTransient ErrorCategory = "TRANSIENT"
)

// StoreError represents a categorized error with context
type StoreError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s in %s: %v", e.Category, e.Component, e.Message, e.Operation, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s in %s", e.Category, e.Component, e.Message, e.Operation)
}

// Unwrap returns the underlying error for error unwrapping
func (e *StoreError) Unwrap() error {
	return e.Underlying
}

// IsFatal returns whether this error should abort startup
func (e *StoreError) IsFatal() bool {
	return e.Category == ErrorCategoryConnection
}

// NewStoreError creates a new categorized store error
func NewStoreError(category ErrorCategory, component, operation, message string) *StoreError {
	return &StoreError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
	}
}

// WrapError wraps an existing error with store error context
func WrapError(err error, category ErrorCategory, component, operation string) *StoreError {
	if err == nil {
		return nil
	}

	return &StoreError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    "operation failed",
		Underlying: err,
	}
}

// IsTransient reports whether an error coming back from the remote store
// looks like a temporary condition. Firestore surfaces failures as gRPC
// status errors, so the classification keys off the status code.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if se, ok := err.(*StoreError); ok {
		return se.Category == ErrorCategoryTransient
	}

	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return true
	}
	return false
}

// Categorize maps a remote store failure to an error category: transient
// transport conditions stay retryable, everything else is treated as a
// connection-level problem.
func Categorize(err error) ErrorCategory {
	if IsTransient(err) {
		return ErrorCategoryTransient
	}
	return ErrorCategoryConnection
}
