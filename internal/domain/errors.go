// Package domain defines core types, interfaces, and errors for groupsync.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input, including queries that cannot be
// issued as requested (e.g. an empty group-name list).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict (e.g., a duplicate membership grant).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// InvariantError indicates a broken contract between components, such as a
// desired group missing from the current snapshot's keyspace.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrInvariant creates an InvariantError with a formatted message.
func ErrInvariant(format string, args ...interface{}) *InvariantError {
	return &InvariantError{Message: fmt.Sprintf(format, args...)}
}
