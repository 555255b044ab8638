package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies an error category with a stable string for testing.
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Repository errors
	ErrNotARepository ErrorCode = "NOT_A_REPOSITORY"
	ErrAmbiguousRoot  ErrorCode = "AMBIGUOUS_ROOT"
	ErrExternalTool   ErrorCode = "EXTERNAL_TOOL"

	// Worktree lifecycle errors
	ErrBranchNotFound   ErrorCode = "BRANCH_NOT_FOUND"
	ErrWorktreeNotFound ErrorCode = "WORKTREE_NOT_FOUND"
	ErrDirtyWorktree    ErrorCode = "DIRTY_WORKTREE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Sync errors (per-item, surfaced as warnings by the engine)
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrFileCopy      ErrorCode = "FILE_COPY"
	ErrInstallFailed ErrorCode = "INSTALL_FAILED"
)

// GroveError is a structured error carrying a code and optional details.
type GroveError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *GroveError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *GroveError) Unwrap() error {
	return e.Wrapped
}

// Is matches two GroveErrors by code.
func (e *GroveError) Is(target error) bool {
	var targetErr *GroveError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a GroveError with the given code and message.
func New(code ErrorCode, message string) *GroveError {
	return &GroveError{Code: code, Message: message}
}

// Newf creates a GroveError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *GroveError {
	return &GroveError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error. Returns nil when err is nil.
func Wrap(err error, code ErrorCode, message string) *GroveError {
	if err == nil {
		return nil
	}
	return &GroveError{Code: code, Message: message, Wrapped: err}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *GroveError {
	if err == nil {
		return nil
	}
	return &GroveError{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// WithDetail attaches a key/value detail to the error and returns it.
func (e *GroveError) WithDetail(key string, value interface{}) *GroveError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode reports whether err carries the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var groveErr *GroveError
	if errors.As(err, &groveErr) {
		return groveErr.Code == code
	}
	return false
}

// GetErrorCode returns the code of err, or ErrUnknown for foreign errors.
func GetErrorCode(err error) ErrorCode {
	var groveErr *GroveError
	if errors.As(err, &groveErr) {
		return groveErr.Code
	}
	return ErrUnknown
}
