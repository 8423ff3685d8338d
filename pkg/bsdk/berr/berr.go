package berr

import "fmt"

// Code represents a stable error category that callers can switch on.
type Code string

const (
	CodeUnknown        Code = "unknown"
	CodeInvalidRequest Code = "invalid_request"
	CodeInitFailed     Code = "init_failed"
	CodeTaskFailed     Code = "task_failed"
	CodeSubmitFailed   Code = "submit_failed"
)

// Error is a simple value type that carries a Code, the exit status of the
// external process that produced it (-1 when no process ran), and the
// underlying error.
type Error struct {
	Code     Code
	ExitCode int
	err      error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// New wraps an error with the provided code. If err is nil a nil is returned.
func New(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, ExitCode: -1, err: err}
}

// NewExit wraps an error from an external process along with its exit status.
func NewExit(code Code, exitCode int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, ExitCode: exitCode, err: err}
}

// IsCode helps callers compare codes without type assertions.
func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok {
		return e.Code == code
	}
	return false
}

// ExitCodeOf returns the exit status carried by err, or -1 when err is not a
// *Error or no process ran.
func ExitCodeOf(err error) int {
	if e, ok := err.(*Error); ok {
		return e.ExitCode
	}
	return -1
}
