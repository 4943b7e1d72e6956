// Package sequence provides the immutable sequence value consumed by the aligners.
//
// A Sequence is an identifier plus a string of symbols. The symbols are opaque
// to this package: whether they belong to an amino acid or nucleotide alphabet
// is decided by whoever supplies the substitution scores, which is why
// validation takes an alphabet predicate instead of a fixed base set.
package sequence

import (
	"fmt"
	"strings"
)

// Sequence is an identifier and a symbol string. It cannot be changed once
// built; every method that derives a new sequence returns a fresh value.
type Sequence struct {
	id          string
	symbols     string
	description string
}

// New creates a sequence from an identifier and its symbols. The symbols are
// kept exactly as given.
func New(id, symbols string) (*Sequence, error) {
	if len(symbols) == 0 {
		return nil, &EmptySequenceError{ID: id}
	}
	return &Sequence{id: id, symbols: symbols}, nil
}

// WithDescription creates a sequence carrying the free text that follows the
// identifier on a FASTA header line.
func WithDescription(id, description, symbols string) (*Sequence, error) {
	s, err := New(id, symbols)
	if err != nil {
		return nil, err
	}
	s.description = description
	return s, nil
}

// FromLiteral builds a sequence from text typed by a user. Surrounding and
// embedded white space is dropped and the symbols are upper-cased.
func FromLiteral(id, raw string) (*Sequence, error) {
	return New(id, Normalize(raw))
}

// Normalize removes white space and upper-cases the remaining symbols.
func Normalize(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, f := range strings.Fields(raw) {
		sb.WriteString(strings.ToUpper(f))
	}
	return sb.String()
}

// ID returns the identifier or accession of the sequence.
func (s *Sequence) ID() string {
	return s.id
}

// Description returns the FASTA description, which may be empty.
func (s *Sequence) Description() string {
	return s.description
}

// Symbols returns the symbol string.
func (s *Sequence) Symbols() string {
	return s.symbols
}

// Len returns the number of symbols.
func (s *Sequence) Len() int {
	return len(s.symbols)
}

// At returns the symbol at index i, or false if i is out of range.
func (s *Sequence) At(i int) (byte, bool) {
	if i < 0 || i >= len(s.symbols) {
		return 0, false
	}
	return s.symbols[i], true
}

// WithSymbols returns a sequence with the same identifier and description
// but different symbols. The permutation test uses it for shuffled copies.
func (s *Sequence) WithSymbols(symbols string) (*Sequence, error) {
	n, err := New(s.id, symbols)
	if err != nil {
		return nil, err
	}
	n.description = s.description
	return n, nil
}

// Composition counts how often each symbol occurs.
func (s *Sequence) Composition() map[byte]int {
	counts := make(map[byte]int)
	for i := 0; i < len(s.symbols); i++ {
		counts[s.symbols[i]]++
	}
	return counts
}

// Validate checks every symbol against an alphabet predicate and reports the
// first one that is not accepted.
func (s *Sequence) Validate(inAlphabet func(byte) bool) error {
	return ValidateSymbols(s.symbols, inAlphabet)
}

// ToFASTA returns the sequence in FASTA format with 60 symbols per line.
func (s *Sequence) ToFASTA() string {
	header := ">sequence"
	if s.id != "" {
		header = ">" + s.id
		if s.description != "" {
			header += " " + s.description
		}
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')
	for i := 0; i < len(s.symbols); i += 60 {
		end := i + 60
		if end > len(s.symbols) {
			end = len(s.symbols)
		}
		sb.WriteString(s.symbols[i:end])
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String returns a short printable form.
func (s *Sequence) String() string {
	if s.id != "" {
		return fmt.Sprintf(">%s\n%s", s.id, s.symbols)
	}
	return s.symbols
}

