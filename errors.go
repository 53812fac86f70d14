package svcctl

import (
	"errors"
	"fmt"
)

// Common errors returned by resolution and lifecycle operations
var (
	// ErrDescriptorNotFound indicates the service descriptor file is missing
	ErrDescriptorNotFound = errors.New("svcctl: service descriptor not found")

	// ErrDescriptorInvalid indicates the descriptor could not be parsed or
	// lacks the required structure
	ErrDescriptorInvalid = errors.New("svcctl: service descriptor invalid")

	// ErrConfigNotFound indicates the requested config is not defined in the
	// descriptor's configs section
	ErrConfigNotFound = errors.New("svcctl: config definition not found")

	// ErrTemplate indicates an unresolved placeholder, either in descriptor
	// string formatting or in unit rendering
	ErrTemplate = errors.New("svcctl: template")

	// ErrAssetSync indicates static asset staging failed
	ErrAssetSync = errors.New("svcctl: asset staging")

	// ErrUnsupportedService indicates the service has no registered kind
	ErrUnsupportedService = errors.New("svcctl: unsupported service")

	// ErrUnhealthy indicates the unit did not report healthy after the
	// post-start settle delay
	ErrUnhealthy = errors.New("svcctl: unit not active after start")

	// ErrMissingRunCommand indicates the resolved settings have no run entry
	ErrMissingRunCommand = errors.New("svcctl: settings do not specify a run command")

	// ErrMissingActionCommand indicates the requested action has no command
	ErrMissingActionCommand = errors.New("svcctl: settings do not specify an action command")
)

// OpError represents a failed lifecycle operation against a unit
type OpError struct {
	// Op is the operation that failed
	Op Operation
	// Unit is the unit name involved in the operation
	Unit string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("svcctl %s %q: %v", e.Op.String(), e.Unit, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

// ExitError reports a child process that terminated with a nonzero exit
// code. The code is propagated verbatim as the tool's own exit code so
// operators can distinguish tooling failures from failures of the managed
// program.
type ExitError struct {
	// Code is the child's exit code
	Code int
}

// Error returns a formatted error message
func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}
