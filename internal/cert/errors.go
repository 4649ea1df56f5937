package cert

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes pipeline failures. A certificate is valid only as a
// whole, so every kind aborts its stage immediately; there is no partial
// success and no artifact from a failed run is certified.
type ErrorKind string

const (
	// KindStructuralMismatch indicates a stored derived value disagrees
	// with independent recomputation (congruence, affine parameters,
	// threshold, or funnel trajectory).
	KindStructuralMismatch ErrorKind = "STRUCTURAL_MISMATCH"

	// KindMissingInput indicates a required artifact is absent.
	KindMissingInput ErrorKind = "MISSING_INPUT"

	// KindInsufficientDepth indicates the funnel search exhausted its
	// depth bound without reaching the window set.
	KindInsufficientDepth ErrorKind = "INSUFFICIENT_DEPTH"

	// KindMalformedRow indicates a field failed to parse or a structural
	// invariant (parity, pattern length) failed before arithmetic.
	KindMalformedRow ErrorKind = "MALFORMED_ROW"
)

// Error is a pipeline failure with enough context to be diagnosed without
// re-running: the error kind, the offending row (1-based, 0 when the error
// is not tied to a row), and an expected-vs-actual description.
type Error struct {
	Kind    ErrorKind
	Row     int
	Message string
}

func (e *Error) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: %s", e.Kind, e.Row, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError creates an Error without a row reference.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewRowError creates an Error pointing at a specific data row.
func NewRowError(kind ErrorKind, row int, format string, args ...any) *Error {
	return &Error{Kind: kind, Row: row, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from an error chain, or "" if the chain contains
// no pipeline Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
