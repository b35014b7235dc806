// Package agenterrors implements the runtime's error taxonomy: a single
// typed error carrying a Kind, a message, an optional cause, and structured
// context, following the shape of the teacher's plugins.PluginError.
package agenterrors

import (
	"errors"
	"fmt"
)

// Kind enumerates the error taxonomy from the specification.
type Kind string

const (
	// KindConfiguration covers construction/validation failures, missing defaults.
	KindConfiguration Kind = "configuration"
	// KindValidation covers tool parameter / input validation failures.
	KindValidation Kind = "validation"
	// KindToolExecution covers tool-not-found, not-allowed, or tool-threw failures.
	KindToolExecution Kind = "tool_execution"
	// KindProvider covers provider transport or protocol failures.
	KindProvider Kind = "provider"
	// KindPlugin covers plugin hook failures (non-fatal by default).
	KindPlugin Kind = "plugin"
	// KindModule covers module initialize/execute/dispose failures.
	KindModule Kind = "module"
	// KindCancellation covers caller-initiated cancellation.
	KindCancellation Kind = "cancellation"
)

// Error is the runtime's typed error. It wraps an optional cause and carries
// free-form context for diagnostics.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]any
}

// New creates an Error of the given kind with no cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithContext returns a copy of e with the given key/value merged into Context.
func (e *Error) WithContext(key string, value any) *Error {
	ctx := make(map[string]any, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &Error{Kind: e.Kind, Message: e.Message, Cause: e.Cause, Context: ctx}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to reach the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, agenterrors.New(agenterrors.KindProvider, "")).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func Configuration(message string) *Error         { return New(KindConfiguration, message) }
func Validation(message string) *Error            { return New(KindValidation, message) }
func ToolExecution(message string) *Error         { return New(KindToolExecution, message) }
func Provider(message string, cause error) *Error { return Wrap(KindProvider, message, cause) }
func Plugin(message string, cause error) *Error   { return Wrap(KindPlugin, message, cause) }
func Module(message string, cause error) *Error   { return Wrap(KindModule, message, cause) }
func Cancellation(message string) *Error          { return New(KindCancellation, message) }
