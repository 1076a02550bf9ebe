package convert

import (
	"errors"
	"fmt"
)

// ErrOutputBusy is returned when another conversion already holds the
// output path.
var ErrOutputBusy = errors.New("another conversion is writing to this output")

// ValidationError reports a request rejected before the encoder is started.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// LaunchError means the encoder process could not be started at all
// (binary missing, not executable, pipe setup failed).
type LaunchError struct {
	Binary string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Binary, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// InvocationError means the encoder ran and did not exit cleanly. Diagnostic
// holds everything it wrote to stderr, untouched.
type InvocationError struct {
	Binary     string
	ExitCode   int
	Diagnostic string
	Err        error
}

func (e *InvocationError) Error() string {
	if e.Diagnostic != "" {
		return fmt.Sprintf("%s error: %s", e.Binary, e.Diagnostic)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %v", e.Binary, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Binary, e.ExitCode)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsLaunch reports whether err is (or wraps) a LaunchError.
func IsLaunch(err error) bool {
	var e *LaunchError
	return errors.As(err, &e)
}

// IsInvocation reports whether err is (or wraps) an InvocationError.
func IsInvocation(err error) bool {
	var e *InvocationError
	return errors.As(err, &e)
}
