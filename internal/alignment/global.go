package alignment

import (
	"github.com/aria-lang/seqalign-go/internal/scoring"
	"github.com/aria-lang/seqalign-go/internal/sequence"
)

// NeedlemanWunsch is the global aligner. The alignment always spans both
// sequences end to end.
type NeedlemanWunsch struct {
	params
}

// NewNeedlemanWunsch creates a global aligner. gapCost is added once per gap
// column and must not be positive.
func NewNeedlemanWunsch(scores scoring.Provider, gapCost int) (*NeedlemanWunsch, error) {
	p, err := newParams(scores, gapCost)
	if err != nil {
		return nil, err
	}
	return &NeedlemanWunsch{params: p}, nil
}

// Mode implements Aligner.
func (g *NeedlemanWunsch) Mode() Mode {
	return Global
}

// Align implements Aligner.
func (g *NeedlemanWunsch) Align(a, b *sequence.Sequence, traceBack bool) (*Result, error) {
	if !traceBack {
		if err := checkInputs(a, b); err != nil {
			return nil, err
		}
		score, err := g.scoreOnly(a.Symbols(), b.Symbols())
		if err != nil {
			return nil, err
		}
		return g.result(score, "", "", false), nil
	}
	r, _, err := g.AlignMatrix(a, b, true)
	return r, err
}

// AlignMatrix implements MatrixAligner.
func (g *NeedlemanWunsch) AlignMatrix(a, b *sequence.Sequence, traceBack bool) (*Result, *Matrix, error) {
	if err := checkInputs(a, b); err != nil {
		return nil, nil, err
	}
	m, err := g.fill(a.Symbols(), b.Symbols())
	if err != nil {
		return nil, nil, err
	}

	rows, cols := m.Dims()
	score := int(m.At(rows-1, cols-1).Score)
	if !traceBack {
		return g.result(score, "", "", false), m, nil
	}

	alignedA, alignedB, i, j, err := m.traceback(rows-1, cols-1)
	if err != nil {
		return nil, nil, err
	}
	if i != 0 || j != 0 {
		return nil, nil, &InvariantViolationError{Row: i, Col: j, Trace: None}
	}
	return g.result(score, alignedA, alignedB, true), m, nil
}

func (g *NeedlemanWunsch) result(score int, alignedA, alignedB string, traced bool) *Result {
	return &Result{
		Mode:     Global,
		Score:    score,
		AlignedA: alignedA,
		AlignedB: alignedB,
		StartA:   -1,
		EndA:     -1,
		StartB:   -1,
		EndB:     -1,
		traced:   traced,
		scores:   g.scores,
	}
}

// fill builds the full matrix. Diagonal is the initial best; Up and then
// Left replace it only when strictly greater.
func (g *NeedlemanWunsch) fill(a, b string) (*Matrix, error) {
	m := newMatrix(a, b)
	rows, cols := m.Dims()

	for i := 1; i < rows; i++ {
		c, err := newCell(i*g.gap, Up)
		if err != nil {
			return nil, err
		}
		m.set(i, 0, c)
	}
	for j := 1; j < cols; j++ {
		c, err := newCell(j*g.gap, Left)
		if err != nil {
			return nil, err
		}
		m.set(0, j, c)
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			s, err := g.scores.Score(a[i-1], b[j-1])
			if err != nil {
				return nil, err
			}

			score, trace := int(m.At(i-1, j-1).Score)+s, Diagonal
			if up := int(m.At(i-1, j).Score) + g.gap; up > score {
				score, trace = up, Up
			}
			if left := int(m.At(i, j-1).Score) + g.gap; left > score {
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

// scoreOnly computes cell (m, n) keeping two rows.
func (g *NeedlemanWunsch) scoreOnly(a, b string) (int, error) {
	n := len(b)
	prevRow := make([]int, n+1)
	currRow := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prevRow[j] = j * g.gap
	}

	for i := 1; i <= len(a); i++ {
		currRow[0] = i * g.gap

		for j := 1; j <= n; j++ {
			s, err := g.scores.Score(a[i-1], b[j-1])
			if err != nil {
				return 0, err
			}

			best := prevRow[j-1] + s
			if up := prevRow[j] + g.gap; up > best {
				best = up
			}
			if left := currRow[j-1] + g.gap; left > best {
				best = left
			}
			currRow[j] = best
		}

		prevRow, currRow = currRow, prevRow
	}

	return prevRow[n], nil
}
