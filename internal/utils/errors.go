// Package utils provides low-level helpers shared across the resolver,
// binder, and orchestrator: contextual error wrapping, endian-aware
// stream access, overflow-checked arithmetic, and scratch buffer reuse.
package utils

import (
	"errors"
	"fmt"
)

// Sentinel error kinds from spec.md §7. Callers distinguish them with
// errors.Is/errors.As instead of string matching.
var (
	// ErrSchema marks a build-time schema violation (unknown attribute
	// value, a reference on a name attribute, hint without signature).
	ErrSchema = errors.New("schema error")

	// ErrSignatureMismatch marks bytes at a node's address not matching
	// its declared signature (and the node was not optional).
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrReference marks a named referent that is not found or is
	// ambiguous. A reference cycle surfaces as ErrRecursionDepth instead.
	ErrReference = errors.New("reference error")

	// ErrStream marks a read or write outside the stream under a
	// non-backed binding context.
	ErrStream = errors.New("stream error")

	// ErrRecursionDepth marks the resolver's recursion-depth cap being
	// exceeded, guarding against cyclic attribute graphs.
	ErrRecursionDepth = errors.New("recursion depth exceeded")
)

// LayoutError is a structured, contextual error carrying the operation
// that failed and the underlying cause.
type LayoutError struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// Unwrap provides compatibility with errors.Unwrap() and, transitively,
// errors.Is/errors.As against both the cause and any sentinel it wraps.
func (e *LayoutError) Unwrap() error {
	return e.Cause
}

// WrapError creates a contextual error. Returns nil if cause is nil, so
// callers can unconditionally wrap a just-returned error.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &LayoutError{
		Context: context,
		Cause:   cause,
	}
}

// Schemaf builds a schema error (ErrSchema) with a formatted message.
func Schemaf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrSchema}, args...)...)
}

// Referencef builds a reference error (ErrReference) with a formatted message.
func Referencef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrReference}, args...)...)
}

// Streamf builds a stream error (ErrStream) with a formatted message.
func Streamf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrStream}, args...)...)
}
