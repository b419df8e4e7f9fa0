package prefork

import "fmt"

// Code classifies coordinator failures.
type Code string

const (
	CodeValidation Code = "VALIDATION"
	CodeLoad       Code = "LOAD"
	CodeCallback   Code = "CALLBACK"
	CodeDuplicate  Code = "DUPLICATE"
)

// Error is the coordinator error type with structured context.
type Error struct {
	Code    Code   // machine-readable failure class
	Module  string // module identifier, when one is involved
	Message string
	Cause   error // wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Module != "" {
		msg = e.Module + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("prefork: %s: %v", msg, e.Cause)
	}
	return "prefork: " + msg
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinel values for errors.Is checks against each failure class.
var (
	ErrValidation = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrLoad       = &Error{Code: CodeLoad, Message: "load failed"}
	ErrCallback   = &Error{Code: CodeCallback, Message: "callback failed"}
	ErrDuplicate  = &Error{Code: CodeDuplicate, Message: "duplicate callback"}
)

func newError(code Code, module, message string) *Error {
	return &Error{
		Code:    code,
		Module:  module,
		Message: message,
	}
}

func wrapError(code Code, module, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Module:  module,
		Message: message,
		Cause:   cause,
	}
}
