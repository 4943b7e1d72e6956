// Package alignment implements pairwise sequence alignment with a linear gap
// cost: Needleman-Wunsch for global alignment and Smith-Waterman for local
// alignment.
//
// Every Align call builds and owns its own matrix, so an aligner holds no
// mutable state and may be shared by concurrent callers.
package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/seqalign-go/internal/scoring"
	"github.com/aria-lang/seqalign-go/internal/sequence"
)

const gap = '-'

// Mode selects global or local alignment.
type Mode int

const (
	Local Mode = iota
	Global
)

func (m Mode) String() string {
	switch m {
	case Local:
		return "local"
	case Global:
		return "global"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "local" or "global" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return Local, nil
	case "global":
		return Global, nil
	}
	return 0, usageErrorf("unknown alignment mode %q, expected local or global", s)
}

// Aligner aligns two sequences. With traceBack false only the score (and
// for local mode the end cell) is computed, in linear space.
type Aligner interface {
	Align(a, b *sequence.Sequence, traceBack bool) (*Result, error)
	Mode() Mode
}

// MatrixAligner can also hand back the full matrix it filled.
type MatrixAligner interface {
	Aligner
	AlignMatrix(a, b *sequence.Sequence, traceBack bool) (*Result, *Matrix, error)
}

// New returns the aligner for mode.
func New(mode Mode, scores scoring.Provider, gapCost int) (MatrixAligner, error) {
	switch mode {
	case Global:
		return NewNeedlemanWunsch(scores, gapCost)
	case Local:
		return NewSmithWaterman(scores, gapCost)
	}
	return nil, usageErrorf("unknown alignment mode %s", mode)
}

// params is the configuration shared by both aligners.
type params struct {
	scores scoring.Provider
	gap    int
}

func newParams(scores scoring.Provider, gapCost int) (params, error) {
	if scores == nil {
		return params{}, usageErrorf("a substitution score provider is required")
	}
	if gapCost > 0 {
		return params{}, usageErrorf("gap cost must be zero or negative, got %d", gapCost)
	}
	return params{scores: scores, gap: gapCost}, nil
}

func checkInputs(a, b *sequence.Sequence) error {
	if a == nil || b == nil {
		return usageErrorf("two sequences are required")
	}
	if a.Len() == 0 || b.Len() == 0 {
		return usageErrorf("sequences must be non-empty")
	}
	return nil
}

// IndexedResult pairs a result with the position of its target.
type IndexedResult struct {
	Index  int
	Result *Result
}

// AlignAgainstMultiple aligns query against every target in order.
func AlignAgainstMultiple(al Aligner, query *sequence.Sequence, targets []*sequence.Sequence, traceBack bool) ([]IndexedResult, error) {
	if len(targets) == 0 {
		return nil, usageErrorf("target list cannot be empty")
	}

	results := make([]IndexedResult, len(targets))
	for i, target := range targets {
		r, err := al.Align(query, target, traceBack)
		if err != nil {
			return nil, fmt.Errorf("aligning against target %d (%s): %w", i, target.ID(), err)
		}
		results[i] = IndexedResult{Index: i, Result: r}
	}
	return results, nil
}

// FindBest returns the highest-scoring target; the earliest wins a tie.
func FindBest(al Aligner, query *sequence.Sequence, targets []*sequence.Sequence, traceBack bool) (*IndexedResult, error) {
	results, err := AlignAgainstMultiple(al, query, targets, traceBack)
	if err != nil {
		return nil, err
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Result.Score > best.Result.Score {
			best = r
		}
	}
	return &best, nil
}
