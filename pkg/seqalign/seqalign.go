// Package seqalign provides a high-level API for pairwise sequence alignment.
//
// Example usage:
//
//	svc := seqalign.NewService("")
//	al, err := svc.Aligner(seqalign.Params{Mode: seqalign.Local, Matrix: "BLOSUM62", GapCost: -4})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := al.Align(seq1, seq2, true)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := result.Format(60)
//	fmt.Print(out)
package seqalign

import (
	"context"
	"fmt"
	"io"

	"github.com/aria-lang/seqalign-go/internal/alignment"
	"github.com/aria-lang/seqalign-go/internal/pvalue"
	"github.com/aria-lang/seqalign-go/internal/scoring"
	"github.com/aria-lang/seqalign-go/internal/sequence"
	"github.com/aria-lang/seqalign-go/internal/stats"
)

// Re-export types for convenience
type (
	Sequence           = sequence.Sequence
	Result             = alignment.Result
	Matrix             = alignment.Matrix
	Mode               = alignment.Mode
	Aligner            = alignment.MatrixAligner
	ScoreProvider      = scoring.Provider
	SubstitutionMatrix = scoring.Matrix
	Estimate           = pvalue.Estimate
	PValueOptions      = pvalue.Options
	ScoreSummary       = stats.Summary
)

// Alignment modes
const (
	Local  = alignment.Local
	Global = alignment.Global
)

// NewSequence creates a sequence from an identifier and its symbols.
func NewSequence(id, symbols string) (*Sequence, error) {
	return sequence.New(id, symbols)
}

// SequenceFromLiteral creates a sequence from user-typed text, dropping
// white space and upper-casing the symbols.
func SequenceFromLiteral(id, raw string) (*Sequence, error) {
	return sequence.FromLiteral(id, raw)
}

// ReadFASTA reads every record of a FASTA file.
func ReadFASTA(filename string) ([]*Sequence, error) {
	return sequence.ReadFASTA(filename)
}

// ParseFASTA reads every record from r.
func ParseFASTA(r io.Reader) ([]*Sequence, error) {
	return sequence.ParseFASTA(r)
}

// ParseMode accepts "local" or "global".
func ParseMode(s string) (Mode, error) {
	return alignment.ParseMode(s)
}

// Params selects an aligner.
type Params struct {
	Mode    Mode
	Matrix  string
	GapCost int
}

// Service hands out aligners over a shared, lazily loaded set of
// substitution matrices. It is safe for concurrent use.
type Service struct {
	matrices *scoring.Registry
}

// NewService creates a service that resolves matrix names against
// matrixDir before the built-in matrices. An empty dir means built-ins only.
func NewService(matrixDir string) *Service {
	return &Service{matrices: scoring.NewRegistry(matrixDir)}
}

// Matrix returns the named substitution matrix.
func (s *Service) Matrix(name string) (*SubstitutionMatrix, error) {
	return s.matrices.Get(name)
}

// Matrices lists the matrix names the service can load.
func (s *Service) Matrices() ([]string, error) {
	return s.matrices.Names()
}

// Aligner returns an aligner for p.
func (s *Service) Aligner(p Params) (Aligner, error) {
	m, err := s.matrices.Get(p.Matrix)
	if err != nil {
		return nil, err
	}
	return alignment.New(p.Mode, m, p.GapCost)
}

// PValue scores a against b without traceback and runs the permutation test
// for that score.
func (s *Service) PValue(ctx context.Context, p Params, a, b *Sequence, opts PValueOptions) (*Estimate, error) {
	al, err := s.Aligner(p)
	if err != nil {
		return nil, err
	}
	observed, err := al.Align(a, b, false)
	if err != nil {
		return nil, err
	}
	calc, err := pvalue.New(al, opts)
	if err != nil {
		return nil, err
	}
	return calc.Estimate(ctx, a, b, observed.Score)
}

// Version returns the seqalign version.
func Version() string {
	return "1.0.0"
}

// Info returns information about seqalign.
func Info() string {
	return fmt.Sprintf(`seqalign v%s - Pairwise Sequence Alignment

Features:
  - Needleman-Wunsch global alignment
  - Smith-Waterman local alignment
  - Linear gap cost, BLOSUM50/BLOSUM62 or custom substitution matrices
  - Block-wrapped alignment rendering
  - Full dynamic-programming matrix dump as CSV
  - Empirical p-values from permutation tests
  - Sequence retrieval by accession with a local FASTA cache
`, Version())
}
