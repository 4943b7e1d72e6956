package alignment

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
)

// Trace is the predecessor direction stored in a matrix cell.
type Trace uint8

const (
	// None marks a cell with no predecessor: the origin, or a local-mode
	// boundary or floor cell.
	None Trace = iota
	Diagonal
	Up
	Left
)

func (t Trace) String() string {
	switch t {
	case None:
		return "None"
	case Diagonal:
		return "Diagonal"
	case Up:
		return "Up"
	case Left:
		return "Left"
	default:
		return "Trace(" + strconv.Itoa(int(t)) + ")"
	}
}

// Cell is one entry of the dynamic-programming table. Scores are stored in
// 32 bits so a cell takes 8 bytes.
type Cell struct {
	Score int32
	Trace Trace
}

// newCell narrows score to the stored width.
func newCell(score int, t Trace) (Cell, error) {
	if score < math.MinInt32 || score > math.MaxInt32 {
		return Cell{}, usageErrorf("cell score %d does not fit in 32 bits", score)
	}
	return Cell{Score: int32(score), Trace: t}, nil
}

// Matrix is the (m+1) x (n+1) table built by one Align call. Cells live in
// a single row-major slice. Row i stands for the prefix A[:i], column j for
// the prefix B[:j].
type Matrix struct {
	a, b  string
	cols  int
	cells []Cell
}

func newMatrix(a, b string) *Matrix {
	rows, cols := len(a)+1, len(b)+1
	return &Matrix{a: a, b: b, cols: cols, cells: make([]Cell, rows*cols)}
}

// Dims returns the number of rows and columns, boundary included.
func (m *Matrix) Dims() (rows, cols int) {
	return len(m.cells) / m.cols, m.cols
}

// At returns cell (i, j).
func (m *Matrix) At(i, j int) Cell {
	return m.cells[i*m.cols+j]
}

func (m *Matrix) set(i, j int, c Cell) {
	m.cells[i*m.cols+j] = c
}

// traceback follows the stored directions from (i, j) until it reaches a
// cell whose trace is None. It returns the aligned strings and the row and
// column of the stopping cell.
func (m *Matrix) traceback(i, j int) (alignedA, alignedB string, stopI, stopJ int, err error) {
	var ra, rb []byte
	for {
		c := m.At(i, j)
		switch {
		case c.Trace == None:
			return reverse(ra), reverse(rb), i, j, nil
		case c.Trace == Diagonal && i > 0 && j > 0:
			ra = append(ra, m.a[i-1])
			rb = append(rb, m.b[j-1])
			i--
			j--
		case c.Trace == Up && i > 0:
			ra = append(ra, m.a[i-1])
			rb = append(rb, gap)
			i--
		case c.Trace == Left && j > 0:
			ra = append(ra, gap)
			rb = append(rb, m.b[j-1])
			j--
		default:
			return "", "", i, j, &InvariantViolationError{Row: i, Col: j, Trace: c.Trace}
		}
	}
}

// reverse returns the bytes of s in reverse order as a string.
func reverse(s []byte) string {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	return string(s)
}

// WriteCSV dumps the cell scores. The header row holds the symbols of B
// after two empty fields; every following row starts with the symbol of A
// for that row, left empty for the boundary row.
func (m *Matrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	rows, cols := m.Dims()

	record := make([]string, cols+1)
	record[0], record[1] = "", ""
	for j := 0; j < len(m.b); j++ {
		record[j+2] = string(m.b[j])
	}
	if err := cw.Write(record); err != nil {
		return err
	}

	for i := 0; i < rows; i++ {
		record[0] = ""
		if i > 0 {
			record[0] = string(m.a[i-1])
		}
		for j := 0; j < cols; j++ {
			record[j+1] = strconv.FormatInt(int64(m.At(i, j).Score), 10)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
