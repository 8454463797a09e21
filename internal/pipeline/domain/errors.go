package domain

import (
	"errors"
	"fmt"
)

// Error codes for pipeline domain errors
const (
	ErrCodeStorageRead     = "storage_read"
	ErrCodeStorageWrite    = "storage_write"
	ErrCodeStorageLocked   = "storage_locked"
	ErrCodeDateParse       = "date_parse"
	ErrCodeValidation      = "validation"
	ErrCodeProjectNotFound = "project_not_found"
	ErrCodeNodeNotFound    = "node_not_found"
)

// PipelineError represents a domain-specific error
type PipelineError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewError creates a new PipelineError
func NewError(code, message string) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
	}
}

// WrapError creates a new PipelineError that wraps another error
func WrapError(code, message string, cause error) *PipelineError {
	return &PipelineError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Pre-defined error constructors

// ErrStorageRead returns an error for a missing or unreadable database
func ErrStorageRead(path string, cause error) *PipelineError {
	return WrapError(ErrCodeStorageRead, fmt.Sprintf("cannot read database %s", path), cause)
}

// ErrStorageWrite returns an error for a failed database write
func ErrStorageWrite(path string, cause error) *PipelineError {
	return WrapError(ErrCodeStorageWrite, fmt.Sprintf("cannot write database %s", path), cause)
}

// ErrStorageLocked returns an error when another process holds the database
func ErrStorageLocked(path string) *PipelineError {
	return NewError(ErrCodeStorageLocked, fmt.Sprintf("database %s is in use by another pm process", path))
}

// ErrDateParse returns an error for a malformed timestamp or CLI date
func ErrDateParse(value, layout string, cause error) *PipelineError {
	return WrapError(ErrCodeDateParse, fmt.Sprintf("cannot parse date %q (expected %s)", value, layout), cause)
}

// ErrValidation returns an error for rejected input
func ErrValidation(message string) *PipelineError {
	return NewError(ErrCodeValidation, message)
}

// ErrUnknownType returns an error for a contract type outside the enumeration
func ErrUnknownType(value string, allowed []ContractType) *PipelineError {
	return ErrValidation(fmt.Sprintf("type of contract must be one of %s, got %q", joinTypes(allowed), value))
}

// ErrUnknownStatus returns an error for a status outside the pipeline
func ErrUnknownStatus(value string, allowed []Status) *PipelineError {
	return ErrValidation(fmt.Sprintf("status must be one of %s, got %q", joinStatuses(allowed), value))
}

// ErrProjectNotFound returns an error for an unknown project id
func ErrProjectNotFound(id int) *PipelineError {
	return NewError(ErrCodeProjectNotFound, fmt.Sprintf("project not found: #%d", id))
}

// ErrActiveProjectNotFound returns an error when the id is unknown or already done
func ErrActiveProjectNotFound(id int) *PipelineError {
	return NewError(ErrCodeProjectNotFound, fmt.Sprintf("no active project #%d", id))
}

// ErrNodeNotFound returns an error for an unknown history node
func ErrNodeNotFound(projectID, node int) *PipelineError {
	return NewError(ErrCodeNodeNotFound, fmt.Sprintf("project #%d has no history node %d", projectID, node))
}

// ErrLastHistoryEntry returns an error when uncommitting would empty a history
func ErrLastHistoryEntry(projectID int) *PipelineError {
	return ErrValidation(fmt.Sprintf("project #%d has a single history entry left, it cannot be deleted", projectID))
}

// GetErrorCode returns the error code if it's a PipelineError, or empty string
func GetErrorCode(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// IsNotFound reports whether err is a project or node not-found error
func IsNotFound(err error) bool {
	code := GetErrorCode(err)
	return code == ErrCodeProjectNotFound || code == ErrCodeNodeNotFound
}
