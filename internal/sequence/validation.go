package sequence

import "fmt"

// SequenceError is implemented by every error this package returns for bad input.
type SequenceError interface {
	error
	IsSequenceError()
}

// EmptySequenceError is returned when a sequence has no symbols.
type EmptySequenceError struct {
	ID string
}

func (e *EmptySequenceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("sequence %q must have at least one symbol", e.ID)
	}
	return "sequence must have at least one symbol"
}

func (e *EmptySequenceError) IsSequenceError() {}

// InvalidSymbolError is returned when a symbol is outside the expected alphabet.
type InvalidSymbolError struct {
	Position int
	Found    byte
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("invalid symbol '%c' at position %d", e.Found, e.Position)
}

func (e *InvalidSymbolError) IsSequenceError() {}

// FormatError is returned when FASTA input cannot be parsed.
type FormatError struct {
	Line   int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *FormatError) IsSequenceError() {}

// ValidateSymbols checks that every byte of symbols is accepted by inAlphabet.
func ValidateSymbols(symbols string, inAlphabet func(byte) bool) error {
	for i := 0; i < len(symbols); i++ {
		if !inAlphabet(symbols[i]) {
			return &InvalidSymbolError{Position: i, Found: symbols[i]}
		}
	}
	return nil
}
