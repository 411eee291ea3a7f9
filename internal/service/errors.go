package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies scheduling failures for the API layer.
type ErrorCode string

const (
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
)

// SchedulingError is a coded engine error. Conflict errors carry the
// human-readable titles of the blocking entities so callers can present
// actionable feedback rather than a bare boolean.
type SchedulingError struct {
	Code      ErrorCode
	Message   string
	Conflicts []string
}

func (e *SchedulingError) Error() string {
	if len(e.Conflicts) > 0 {
		return fmt.Sprintf("%s: %s (conflicts with: %s)", e.Code, e.Message, strings.Join(e.Conflicts, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newBadRequest(msg string) *SchedulingError {
	return &SchedulingError{Code: CodeBadRequest, Message: msg}
}

func newNotFound(msg string) *SchedulingError {
	return &SchedulingError{Code: CodeNotFound, Message: msg}
}

func newUnauthorized(msg string) *SchedulingError {
	return &SchedulingError{Code: CodeUnauthorized, Message: msg}
}

func newConflict(msg string, titles ...string) *SchedulingError {
	return &SchedulingError{Code: CodeConflict, Message: msg, Conflicts: titles}
}

// CodeOf extracts the error code, or "" for uncoded errors.
func CodeOf(err error) ErrorCode {
	var se *SchedulingError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// ConflictTitles extracts the blocking-entity titles from a conflict error.
func ConflictTitles(err error) []string {
	var se *SchedulingError
	if errors.As(err, &se) {
		return se.Conflicts
	}
	return nil
}
