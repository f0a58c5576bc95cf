package manager

import (
	"errors"
	"strings"
)

var (
	// ErrCatalogFetchFailed is the kind of errors retrieving or parsing the
	// remote package list.
	ErrCatalogFetchFailed = errors.New("catalog fetch failed")

	// ErrManifestReadFailed is the kind of errors reading or parsing the
	// local manifest.
	ErrManifestReadFailed = errors.New("manifest read failed")

	// ErrActionDispatchFailed is the kind of errors where the executor could
	// not be started at all.
	ErrActionDispatchFailed = errors.New("action dispatch failed")

	// ErrActionExecutionFailed is the kind of errors where the executor ran
	// but reported failure.
	ErrActionExecutionFailed = errors.New("action execution failed")
)

// Error is a structured error carrying one of the kinds above.
type Error struct {
	Kind   error  // One of the Err* kinds
	Op     string // What was being attempted, e.g. a URL or "install foo"
	Detail string // Diagnostic text from the executor, if any
	Err    error  // Underlying cause
}

// NewError creates an Error of the given kind.
func NewError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Op != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Op)
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(e.Detail))
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error against its kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// KindOf returns the kind of err, or nil when err is not a manager error.
func KindOf(err error) error {
	var merr *Error
	if errors.As(err, &merr) {
		return merr.Kind
	}
	return nil
}
