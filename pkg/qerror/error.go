// Package qerror provides errors that carry the module they were raised
// in and structured metadata about the failure.
//
// It also provides helper methods for working with zerolog's context
package qerror

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
	"github.com/pkg/errors"
)

type Error struct {
	Module  string         `json:"module"`  // The module the error was raised in (normally the package name)
	Message string         `json:"message"` // Human-readable and low entropy, so multiple errors of the same kind can be grouped
	Meta    map[string]any `json:"meta"`    // Metadata about the error; can be high entropy as it isn't used to group errors
	Stack   []uintptr      `json:"stack"`   // The stack trace of the error
	cause   error          // The underlying error, not serialized
}

var _ error = (*Error)(nil)
var _ errbase.StackTraceProvider = (*Error)(nil)

// New creates a new error with the given module, message and metadata.
func New(module string, msg string, meta map[string]any) error {
	return &Error{
		Module:  module,
		Message: msg,
		Meta:    meta,
		Stack:   getStack(),
	}
}

// Wrap wraps the cause error with the given message and meta.
// If cause is nil, Wrap returns nil.
func Wrap(cause error, module string, msg string, meta map[string]any) error {
	if cause == nil {
		return nil
	}
	return &Error{
		Module:  module,
		Message: msg,
		Meta:    meta,
		Stack:   getStack(),
		cause:   cause,
	}
}

// WithMeta merges meta into the closest *Error in err's chain,
// or wraps err in a new *Error when none is found.
func WithMeta(err error, meta map[string]any) error {
	loopErr := err
	for loopErr != nil {
		if e, ok := loopErr.(*Error); ok {
			for key, value := range meta {
				e.Meta[key] = value
			}
			return err
		}

		switch e := loopErr.(type) {
		case interface{ Unwrap() error }:
			loopErr = e.Unwrap()
		case interface{ Cause() error }:
			loopErr = e.Cause()
		default:
			loopErr = nil
		}
	}

	return &Error{
		Module:  "",
		Message: err.Error(),
		Meta:    meta,
		Stack:   getStack(),
		cause:   err,
	}
}

// Error returns a simple string of the error
func (e *Error) Error() string {
	if e.cause != nil {
		cause := e.cause.Error()

		// Remove the module prefix if it's the same
		cause = strings.TrimPrefix(cause, "["+e.Module+"]: ")

		return fmt.Sprintf("[%s]: %s: %s", e.Module, e.Message, cause)
	}
	return fmt.Sprintf("[%s]: %s", e.Module, e.Message)
}

// Cause implements Causer for some libraries and returns the underlying cause
func (e *Error) Cause() error {
	return e.cause
}

// Unwrap implements the Go 2 unwrap interface used by xerrors and errors
func (e *Error) Unwrap() error {
	return e.cause
}

// StackTrace implements the StackTraceProvider interface for some libraries
// including zerolog, xerrors and Sentry
func (e *Error) StackTrace() errors.StackTrace {
	frames := make([]errors.Frame, len(e.Stack))
	for i, pc := range e.Stack {
		// Note: for historic reasons the PC is off by 1 in github.com/pkg/errors
		frames[i] = errors.Frame(pc + 1)
	}
	return frames
}

// MetaFrom returns the merged metadata from any qerror.Error objects in
// the error chain, unwrapping as it descends.
func MetaFrom(err error) map[string]any {
	meta := make(map[string]any)
	mergeMeta(err, meta)
	return meta
}

func mergeMeta(err error, meta map[string]any) {
	if err == nil {
		return
	}

	// Merge in the data from the deepest error first
	switch err := err.(type) {
	case interface{ Unwrap() error }:
		mergeMeta(err.Unwrap(), meta)

	case interface{ Cause() error }:
		mergeMeta(err.Cause(), meta)
	}

	// Then merge in our data
	if e, ok := err.(*Error); ok {
		for key, value := range e.Meta {
			meta[key] = value
		}
	}
}

// getStack captures the callers of this package, skipping runtime
// internals and the qerror frames themselves.
func getStack() []uintptr {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	stack := make([]uintptr, n)
	copy(stack, pcs[:n])
	return stack
}
