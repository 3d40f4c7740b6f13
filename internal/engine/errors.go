package engine

import (
	"errors"
	"fmt"
)

// RequestError represents caller misuse detected before validation runs.
//
// Unlike domain violations, which are reported inside the Decision
// Report, a RequestError means the call itself is malformed (e.g. the
// same resource id appears twice in one request) and no report can be
// produced.
type RequestError struct {
	// Code identifies the error category.
	Code RequestErrorCode

	// Message is a human-readable description.
	Message string

	// ResourceID identifies the offending resource, when applicable.
	ResourceID string
}

// RequestErrorCode categorizes request errors.
type RequestErrorCode string

const (
	// ErrCodeDuplicateResource indicates a resource id appears more than
	// once in the requested set.
	ErrCodeDuplicateResource RequestErrorCode = "DUPLICATE_RESOURCE"
)

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("%s: %s (resource=%s)", e.Code, e.Message, e.ResourceID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRequestError returns true if the error is caller misuse.
// Uses errors.As to handle wrapped errors.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// NewDuplicateResourceError creates a RequestError for a duplicated
// resource id in the requested set.
func NewDuplicateResourceError(resourceID string) *RequestError {
	return &RequestError{
		Code:       ErrCodeDuplicateResource,
		Message:    "resource requested more than once",
		ResourceID: resourceID,
	}
}

// DependencyError represents a collaborator read failure.
//
// The validator cannot reach a decision when the ledger, rule provider,
// or resource reader fails; the failure propagates as this error, never
// folded into the Decision Report.
type DependencyError struct {
	// Op names the failed collaborator operation
	// ("resource", "committed_quantity", "rules_for").
	Op string

	// ResourceID identifies the resource being read.
	ResourceID string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency %s failed for resource %s: %v", e.Op, e.ResourceID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DependencyError) Unwrap() error {
	return e.Err
}

// IsDependencyError returns true if the error is a collaborator failure.
// Uses errors.As to handle wrapped errors.
func IsDependencyError(err error) bool {
	var de *DependencyError
	return errors.As(err, &de)
}
