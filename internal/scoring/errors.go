package scoring

import "fmt"

// ScoringError is implemented by every error this package returns.
type ScoringError interface {
	error
	IsScoringError()
}

// ConfigurationError reports an unsupported matrix name, a missing resource
// or malformed matrix text.
type ConfigurationError struct {
	Matrix string
	Line   int // 0 when the problem is not tied to one line
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("substitution matrix %s, line %d: %s", e.Matrix, e.Line, e.Reason)
	}
	return fmt.Sprintf("substitution matrix %s: %s", e.Matrix, e.Reason)
}

func (e *ConfigurationError) IsScoringError() {}

// LookupError reports a symbol pair with no entry in the matrix.
type LookupError struct {
	Matrix string
	A, B   byte
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("substitution matrix %s has no score for pair (%q, %q)", e.Matrix, e.A, e.B)
}

func (e *LookupError) IsScoringError() {}
