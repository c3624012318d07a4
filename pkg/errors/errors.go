package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Profile errors
	ErrProfileNotFound ErrorCode = "PROFILE_NOT_FOUND"
	ErrProfileInvalid  ErrorCode = "PROFILE_INVALID"

	// Identity and reconciliation errors
	ErrNoIdentifier  ErrorCode = "NO_IDENTIFIER"
	ErrItemNotFound  ErrorCode = "ITEM_NOT_FOUND"
	ErrItemBusy      ErrorCode = "ITEM_BUSY"
	ErrItemManaged   ErrorCode = "ITEM_MANAGED"
	ErrNoUpdateEntry ErrorCode = "NO_UPDATE_ENTRY"

	// Registry errors
	ErrRegistryFetch   ErrorCode = "REGISTRY_FETCH"
	ErrRegistryDecode  ErrorCode = "REGISTRY_DECODE"
	ErrUnknownPlatform ErrorCode = "UNKNOWN_PLATFORM"

	// File mutation errors
	ErrFileToggle   ErrorCode = "FILE_TOGGLE"
	ErrFileDelete   ErrorCode = "FILE_DELETE"
	ErrFileInstall  ErrorCode = "FILE_INSTALL"
	ErrFileDownload ErrorCode = "FILE_DOWNLOAD"
	ErrFileScan     ErrorCode = "FILE_SCAN"
	ErrFileHash     ErrorCode = "FILE_HASH"
)

// ModpilotError represents a structured error with code and details
type ModpilotError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ModpilotError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ModpilotError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ModpilotError) Is(target error) bool {
	var targetErr *ModpilotError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ModpilotError with the given code and message
func New(code ErrorCode, message string) *ModpilotError {
	return &ModpilotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ModpilotError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ModpilotError {
	return &ModpilotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ModpilotError
func Wrap(err error, code ErrorCode, message string) *ModpilotError {
	if err == nil {
		return nil
	}
	return &ModpilotError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ModpilotError {
	if err == nil {
		return nil
	}
	return &ModpilotError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ModpilotError) WithDetail(key string, value interface{}) *ModpilotError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var merr *ModpilotError
	if errors.As(err, &merr) {
		return merr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ModpilotError
func GetErrorCode(err error) ErrorCode {
	var merr *ModpilotError
	if errors.As(err, &merr) {
		return merr.Code
	}
	return ErrUnknown
}
