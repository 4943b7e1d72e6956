package alignment

import (
	"github.com/aria-lang/seqalign-go/internal/scoring"
	"github.com/aria-lang/seqalign-go/internal/sequence"
)

// SmithWaterman is the local aligner. It reports the highest-scoring pair of
// substrings, so its score is never negative.
type SmithWaterman struct {
	params
}

// NewSmithWaterman creates a local aligner. gapCost is added once per gap
// column and must not be positive.
func NewSmithWaterman(scores scoring.Provider, gapCost int) (*SmithWaterman, error) {
	p, err := newParams(scores, gapCost)
	if err != nil {
		return nil, err
	}
	return &SmithWaterman{params: p}, nil
}

// Mode implements Aligner.
func (l *SmithWaterman) Mode() Mode {
	return Local
}

// Align implements Aligner.
func (l *SmithWaterman) Align(a, b *sequence.Sequence, traceBack bool) (*Result, error) {
	if !traceBack {
		if err := checkInputs(a, b); err != nil {
			return nil, err
		}
		score, endA, endB, err := l.scoreOnly(a.Symbols(), b.Symbols())
		if err != nil {
			return nil, err
		}
		r := l.result(score, false)
		r.EndA, r.EndB = endA, endB
		return r, nil
	}
	r, _, err := l.AlignMatrix(a, b, true)
	return r, err
}

// AlignMatrix implements MatrixAligner.
func (l *SmithWaterman) AlignMatrix(a, b *sequence.Sequence, traceBack bool) (*Result, *Matrix, error) {
	if err := checkInputs(a, b); err != nil {
		return nil, nil, err
	}
	m, err := l.fill(a.Symbols(), b.Symbols())
	if err != nil {
		return nil, nil, err
	}

	score, maxI, maxJ := maxCell(m)
	if score == 0 {
		return l.result(0, traceBack), m, nil
	}
	if !traceBack {
		r := l.result(score, false)
		r.EndA, r.EndB = maxI, maxJ
		return r, m, nil
	}

	alignedA, alignedB, i, j, err := m.traceback(maxI, maxJ)
	if err != nil {
		return nil, nil, err
	}
	r := l.result(score, true)
	r.AlignedA, r.AlignedB = alignedA, alignedB
	r.StartA, r.EndA = i+1, maxI
	r.StartB, r.EndB = j+1, maxJ
	return r, m, nil
}

// result returns a result with every position unset.
func (l *SmithWaterman) result(score int, traced bool) *Result {
	return &Result{
		Mode:   Local,
		Score:  score,
		StartA: -1,
		EndA:   -1,
		StartB: -1,
		EndB:   -1,
		traced: traced,
		scores: l.scores,
	}
}

// fill builds the floor-clamped matrix. The floor {0, None} is the initial
// best; Diagonal, Up and Left replace it in turn only when strictly greater.
func (l *SmithWaterman) fill(a, b string) (*Matrix, error) {
	m := newMatrix(a, b)
	rows, cols := m.Dims()

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			s, err := l.scores.Score(a[i-1], b[j-1])
			if err != nil {
				return nil, err
			}

			score, trace := 0, None
			if diag := int(m.At(i-1, j-1).Score) + s; diag > score {
				score, trace = diag, Diagonal
			}
			if up := int(m.At(i-1, j).Score) + l.gap; up > score {
				score, trace = up, Up
			}
			if left := int(m.At(i, j-1).Score) + l.gap; left > score {
				score, trace = left, Left
			}
			c, err := newCell(score, trace)
			if err != nil {
				return nil, err
			}
			m.set(i, j, c)
		}
	}
	return m, nil
}

// maxCell scans in row-major order and returns the first cell holding the
// maximum score. A zero maximum reports position (-1, -1).
func maxCell(m *Matrix) (score, row, col int) {
	rows, cols := m.Dims()
	row, col = -1, -1
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if s := int(m.At(i, j).Score); s > score {
				score, row, col = s, i, j
			}
		}
	}
	return score, row, col
}

// scoreOnly keeps two rows and tracks the first maximal cell the same way
// maxCell does.
func (l *SmithWaterman) scoreOnly(a, b string) (score, endA, endB int, err error) {
	n := len(b)
	prevRow := make([]int, n+1)
	currRow := make([]int, n+1)
	endA, endB = -1, -1

	for i := 1; i <= len(a); i++ {
		currRow[0] = 0

		for j := 1; j <= n; j++ {
			s, err := l.scores.Score(a[i-1], b[j-1])
			if err != nil {
				return 0, -1, -1, err
			}

			best := 0
			if diag := prevRow[j-1] + s; diag > best {
				best = diag
			}
			if up := prevRow[j] + l.gap; up > best {
				best = up
			}
			if left := currRow[j-1] + l.gap; left > best {
				best = left
			}
			currRow[j] = best

			if best > score {
				score, endA, endB = best, i, j
			}
		}

		prevRow, currRow = currRow, prevRow
	}

	return score, endA, endB, nil
}
