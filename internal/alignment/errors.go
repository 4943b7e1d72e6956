package alignment

import "fmt"

// AlignmentError is implemented by the errors raised by this package itself.
// Scoring lookups that fail during a fill surface as *scoring.LookupError.
type AlignmentError interface {
	error
	IsAlignmentError()
}

// InvariantViolationError means traceback met a cell it cannot follow. It
// points at a bug in matrix construction and is never recoverable.
type InvariantViolationError struct {
	Row   int
	Col   int
	Trace Trace
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("traceback invariant violated at cell (%d, %d): unexpected direction %s", e.Row, e.Col, e.Trace)
}

func (e *InvariantViolationError) IsAlignmentError() {}

// UsageError reports a request the aligner or renderer cannot honor, such as
// a positive gap cost or rendering a result that was never traced.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string {
	return "alignment usage error: " + e.Reason
}

func (e *UsageError) IsAlignmentError() {}

func usageErrorf(format string, a ...interface{}) error {
	return &UsageError{Reason: fmt.Sprintf(format, a...)}
}
