package alignment

import (
	"fmt"
	"strings"

	"github.com/aria-lang/seqalign-go/internal/scoring"
)

// Result is the outcome of one Align call.
//
// AlignedA and AlignedB have equal length and never hold a gap in the same
// column. They are empty when traceback was not requested. Start and end
// positions are 1-based and inclusive; they are -1 for global results and
// for a local result whose best score is 0. A local result computed without
// traceback still carries EndA and EndB.
type Result struct {
	Mode     Mode
	Score    int
	AlignedA string
	AlignedB string
	StartA   int
	EndA     int
	StartB   int
	EndB     int

	traced bool
	scores scoring.Provider
}

// Traced reports whether the aligned strings were reconstructed.
func (r *Result) Traced() bool {
	return r.traced
}

// Empty reports a traced result with no aligned columns, the local outcome
// when no pair of symbols scores above zero.
func (r *Result) Empty() bool {
	return r.traced && len(r.AlignedA) == 0
}

// Length returns the number of alignment columns.
func (r *Result) Length() int {
	return len(r.AlignedA)
}

// MatchCount returns the number of columns with identical symbols.
func (r *Result) MatchCount() int {
	count := 0
	for i := 0; i < len(r.AlignedA); i++ {
		if r.AlignedA[i] == r.AlignedB[i] && r.AlignedA[i] != gap {
			count++
		}
	}
	return count
}

// MismatchCount returns the number of gap-free columns with different symbols.
func (r *Result) MismatchCount() int {
	count := 0
	for i := 0; i < len(r.AlignedA); i++ {
		if r.AlignedA[i] != r.AlignedB[i] &&
			r.AlignedA[i] != gap && r.AlignedB[i] != gap {
			count++
		}
	}
	return count
}

// Identity is the fraction of columns that are matches.
func (r *Result) Identity() float64 {
	if len(r.AlignedA) == 0 {
		return 0.0
	}
	return float64(r.MatchCount()) / float64(len(r.AlignedA))
}

// GapsA returns the number of gap characters in AlignedA.
func (r *Result) GapsA() int {
	return strings.Count(r.AlignedA, string(gap))
}

// GapsB returns the number of gap characters in AlignedB.
func (r *Result) GapsB() int {
	return strings.Count(r.AlignedB, string(gap))
}

// TotalGaps returns the total number of gap characters.
func (r *Result) TotalGaps() int {
	return r.GapsA() + r.GapsB()
}

// GapOpenings counts runs of gaps in either row.
func (r *Result) GapOpenings() int {
	openings := 0
	inGapA, inGapB := false, false

	for i := 0; i < len(r.AlignedA); i++ {
		if r.AlignedA[i] == gap && !inGapA {
			openings++
			inGapA = true
		} else if r.AlignedA[i] != gap {
			inGapA = false
		}

		if r.AlignedB[i] == gap && !inGapB {
			openings++
			inGapB = true
		} else if r.AlignedB[i] != gap {
			inGapB = false
		}
	}

	return openings
}

// CIGAR encodes the columns as M (match), X (mismatch), I (gap in A) and
// D (gap in B).
func (r *Result) CIGAR() string {
	if len(r.AlignedA) == 0 {
		return ""
	}

	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for i := 0; i < len(r.AlignedA); i++ {
		var op byte
		switch {
		case r.AlignedA[i] == gap:
			op = 'I'
		case r.AlignedB[i] == gap:
			op = 'D'
		case r.AlignedA[i] == r.AlignedB[i]:
			op = 'M'
		default:
			op = 'X'
		}

		if op == currentOp {
			count++
			continue
		}
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, currentOp)
		}
		currentOp = op
		count = 1
	}

	fmt.Fprintf(&cigar, "%d%c", count, currentOp)
	return cigar.String()
}

func (r *Result) String() string {
	if !r.traced {
		return fmt.Sprintf("Alignment { mode: %s, score: %d }", r.Mode, r.Score)
	}
	return fmt.Sprintf("Alignment { mode: %s, score: %d, identity: %.1f%%, length: %d }",
		r.Mode, r.Score, r.Identity()*100, r.Length())
}
