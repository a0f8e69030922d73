// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package status defines the outcome taxonomy reported by the engine, and the error type that
// carries it.
//
// Errors are created with Errorf or Wrapf and carry a stack trace (see github.com/pkg/errors).
// Any error returned by the engine can be classified with Of, which sees through wrapping done
// with errors.WithMessagef and similar.
package status

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status of an operation. The numeric values are stable, since they are also used by bindings.
type Status int

//go:generate go tool enumer -type=Status -output=gen_status_enumer.go status.go

const (
	Ok               Status = 0
	Error            Status = 1
	NoAcceleration   Status = 2
	PlatformNotFound Status = 3
	DeviceNotFound   Status = 4
	InvalidState     Status = 5
	InvalidArgument  Status = 6
	NoValue          Status = 7

	// CompilationError is returned when an operator fragment or a specialized kernel fails to compile.
	CompilationError Status = 8

	// DispatchError is returned when a kernel fails while running on the accelerator.
	DispatchError Status = 9

	NotImplemented Status = 1024
)

// StatusError is an error that carries a Status.
type StatusError struct {
	status Status
	err    error
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.status, e.err.Error())
}

// Unwrap returns the underlying error.
func (e *StatusError) Unwrap() error { return e.err }

// Cause allows errors.Cause to reach the original error.
func (e *StatusError) Cause() error { return e.err }

// Status of the error.
func (e *StatusError) Status() Status { return e.status }

// Format implements fmt.Formatter: "%+v" includes the stack trace.
func (e *StatusError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "%s: %+v", e.status, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// Errorf creates a new error with the given status, a formatted message and a stack trace.
func Errorf(status Status, format string, args ...any) error {
	return &StatusError{status: status, err: errors.Errorf(format, args...)}
}

// Wrapf wraps err with a message and assigns it the given status.
// If err is nil, it returns nil.
func Wrapf(err error, status Status, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &StatusError{status: status, err: errors.Wrapf(err, format, args...)}
}

// Of returns the status of err: Ok for nil, the status of the outermost StatusError in the chain,
// or Error for errors that carry no status.
func Of(err error) Status {
	if err == nil {
		return Ok
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.status
	}
	return Error
}

// Is returns whether err carries the given status.
func Is(err error, status Status) bool {
	return Of(err) == status
}
