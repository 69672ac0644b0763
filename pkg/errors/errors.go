package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigSave  ErrorCode = "CONFIG_SAVE"

	// Cleanup errors
	ErrCleanupDuplicate ErrorCode = "CLEANUP_DUPLICATE"
	ErrCleanupNotFound  ErrorCode = "CLEANUP_NOT_FOUND"
	ErrCleanupDisabled  ErrorCode = "CLEANUP_DISABLED"
	ErrCleanupExecute   ErrorCode = "CLEANUP_EXECUTE"
	ErrCleanupCopy      ErrorCode = "CLEANUP_COPY"

	// Menu / layout errors
	ErrLayoutParse ErrorCode = "LAYOUT_PARSE"

	// Tree errors
	ErrTreeScan ErrorCode = "TREE_SCAN"
)

// TreesweepError represents a structured error with code and details
type TreesweepError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *TreesweepError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *TreesweepError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *TreesweepError) Is(target error) bool {
	var targetErr *TreesweepError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new TreesweepError with the given code and message
func New(code ErrorCode, message string) *TreesweepError {
	return &TreesweepError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new TreesweepError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *TreesweepError {
	return &TreesweepError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a TreesweepError
func Wrap(err error, code ErrorCode, message string) *TreesweepError {
	if err == nil {
		return nil
	}
	return &TreesweepError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *TreesweepError {
	if err == nil {
		return nil
	}
	return &TreesweepError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *TreesweepError) WithDetail(key string, value interface{}) *TreesweepError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var tsErr *TreesweepError
	if errors.As(err, &tsErr) {
		return tsErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a TreesweepError
func GetErrorCode(err error) ErrorCode {
	var tsErr *TreesweepError
	if errors.As(err, &tsErr) {
		return tsErr.Code
	}
	return ErrUnknown
}

// BroadcastError aggregates per-cleanup failures collected while a broadcast
// walks a collection. The broadcast always reaches every cleanup; a failing
// cleanup is recorded here and the iteration continues.
type BroadcastError struct {
	// Op is the broadcast operation that was running, e.g. "readConfig".
	Op string
	// Failures maps cleanup ids to the error their handler returned.
	Failures map[string]error

	// order preserves the sequence failures were recorded in.
	order []string
}

// NewBroadcastError creates an empty aggregate for the named operation.
func NewBroadcastError(op string) *BroadcastError {
	return &BroadcastError{
		Op:       op,
		Failures: make(map[string]error),
	}
}

// Record stores a per-cleanup failure. Nil errors are ignored.
func (e *BroadcastError) Record(id string, err error) {
	if err == nil {
		return
	}
	if _, seen := e.Failures[id]; !seen {
		e.order = append(e.order, id)
	}
	e.Failures[id] = err
}

// Len returns the number of recorded failures.
func (e *BroadcastError) Len() int {
	return len(e.Failures)
}

// OrNil returns the aggregate itself when at least one failure was recorded,
// nil otherwise. Broadcast implementations return this directly so an
// all-good broadcast yields a nil error.
func (e *BroadcastError) OrNil() error {
	if e == nil || len(e.Failures) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *BroadcastError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "broadcast %s failed for %d cleanup(s)", e.Op, len(e.Failures))
	for _, id := range e.order {
		fmt.Fprintf(&sb, "; %s: %v", id, e.Failures[id])
	}
	return sb.String()
}
