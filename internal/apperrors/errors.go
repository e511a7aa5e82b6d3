// Package apperrors defines the closed set of failure modes hellod can
// report, so callers match on a stable code instead of inspecting error
// strings or loosely-typed fields.
package apperrors

import (
	"errors"
	"fmt"
	"syscall"
)

// Code represents stable error codes for all failure modes
type Code string

const (
	// PortInUse indicates the listen port is already bound by another process
	PortInUse Code = "PORT_IN_USE"
	// BindFailed indicates any other failure to bind the listen socket
	BindFailed Code = "BIND_FAILED"
	// ConfigInvalid indicates configuration failed validation
	ConfigInvalid Code = "CONFIG_INVALID"
	// RouteNotFound indicates no handler matched the request
	RouteNotFound Code = "ROUTE_NOT_FOUND"
	// HandlerFailure indicates a handler panicked or failed mid-request
	HandlerFailure Code = "HANDLER_FAILURE"
	// Unknown indicates an unexpected error
	Unknown Code = "UNKNOWN"
)

// Error represents a hellod error with a stable code and message
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New creates an Error with the given code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that records an underlying cause
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf extracts the error code from err, or Unknown if err is not an
// *Error anywhere in its chain.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return Unknown
}

// ClassifyBind converts a listener bind failure into an Error. Address
// conflicts get a dedicated code with remediation text naming the port so
// the operator can find the offending process.
func ClassifyBind(addr string, err error) *Error {
	if errors.Is(err, syscall.EADDRINUSE) {
		return Wrap(PortInUse,
			fmt.Sprintf("address %s is already in use; stop the other process or set a different PORT", addr),
			err)
	}
	if errors.Is(err, syscall.EACCES) {
		return Wrap(BindFailed,
			fmt.Sprintf("permission denied binding %s; ports below 1024 require elevated privileges", addr),
			err)
	}
	return Wrap(BindFailed, fmt.Sprintf("failed to bind %s", addr), err)
}
