package domain

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure class that callers can branch on.
type ErrorCode string

const (
	CodeSessionNotFound          ErrorCode = "SESSION_NOT_FOUND"
	CodeSessionExpired           ErrorCode = "SESSION_EXPIRED"
	CodeWorkspaceAccessDenied    ErrorCode = "WORKSPACE_ACCESS_DENIED"
	CodePersonNotFound           ErrorCode = "PERSON_NOT_FOUND"
	CodeCircleNotFound           ErrorCode = "CIRCLE_NOT_FOUND"
	CodeRoleNotFound             ErrorCode = "ROLE_NOT_FOUND"
	CodeMeetingNotFound          ErrorCode = "MEETING_NOT_FOUND"
	CodeMeetingCircleMismatch    ErrorCode = "MEETING_CIRCLE_MISMATCH"
	CodeProposalNotFound         ErrorCode = "PROPOSAL_NOT_FOUND"
	CodeProposalInvalidState     ErrorCode = "PROPOSAL_INVALID_STATE"
	CodeProposalAccessDenied     ErrorCode = "PROPOSAL_ACCESS_DENIED"
	CodeProposalWorkspaceMismatch ErrorCode = "PROPOSAL_WORKSPACE_MISMATCH"
	CodeValidationRequiredField  ErrorCode = "VALIDATION_REQUIRED_FIELD"
	CodeGenericError             ErrorCode = "GENERIC_ERROR"
)

// Error pairs a stable code with a human-readable message. Services
// raise these unmodified; the API layer maps codes to HTTP statuses.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a coded error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a coded error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error code from err, or GENERIC_ERROR when err
// carries no code.
func CodeOf(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeGenericError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}
