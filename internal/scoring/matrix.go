package scoring

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const notSet int16 = -1

// Matrix is a substitution matrix read from text. It is read-only after
// Parse returns, so one Matrix can serve any number of concurrent aligners.
type Matrix struct {
	name     string
	alphabet []byte
	index    [256]int16
	scores   []int // len(alphabet)^2, row-major in header order
}

// commentScanner wraps bufio.Scanner, skipping blank lines and lines whose
// first non-blank character is the comment character.
type commentScanner struct {
	*bufio.Scanner
	cmmt byte
	line int
}

func newCommentScanner(r io.Reader, cmmt byte) *commentScanner {
	return &commentScanner{Scanner: bufio.NewScanner(r), cmmt: cmmt}
}

// next returns the next content line, trimmed, or false at end of input.
func (s *commentScanner) next() (string, bool) {
	for s.Scan() {
		s.line++
		text := strings.TrimSpace(s.Text())
		if len(text) == 0 || text[0] == s.cmmt {
			continue
		}
		return text, true
	}
	return "", false
}

// Parse reads a matrix in the BLOSUM text layout. The first content line
// lists the alphabet, one single-character symbol per field, and fixes the
// column order. Each further line is a symbol from that header followed by
// its scores in header order. Every header symbol needs exactly one row.
func Parse(name string, r io.Reader) (*Matrix, error) {
	m := &Matrix{name: name}
	for i := range m.index {
		m.index[i] = notSet
	}
	cfgErr := func(line int, format string, a ...interface{}) error {
		return &ConfigurationError{Matrix: name, Line: line, Reason: fmt.Sprintf(format, a...)}
	}

	scnr := newCommentScanner(r, '#')
	header, ok := scnr.next()
	if !ok {
		if err := scnr.Err(); err != nil {
			return nil, fmt.Errorf("reading matrix %s: %w", name, err)
		}
		return nil, cfgErr(0, "missing header row")
	}
	for _, f := range strings.Fields(header) {
		if len(f) != 1 {
			return nil, cfgErr(scnr.line, "header expects single-character symbols, got %q", f)
		}
		c := f[0]
		if m.index[c] != notSet {
			return nil, cfgErr(scnr.line, "symbol %q repeated in header", c)
		}
		m.index[c] = int16(len(m.alphabet))
		m.alphabet = append(m.alphabet, c)
	}
	n := len(m.alphabet)
	m.scores = make([]int, n*n)

	seen := make([]bool, n)
	for {
		line, ok := scnr.next()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields[0]) != 1 || m.index[fields[0][0]] == notSet {
			return nil, cfgErr(scnr.line, "row symbol %q is not in the header", fields[0])
		}
		row := int(m.index[fields[0][0]])
		if seen[row] {
			return nil, cfgErr(scnr.line, "second row for symbol %q", fields[0])
		}
		if len(fields) != n+1 {
			return nil, cfgErr(scnr.line, "expected %d scores, got %d", n, len(fields)-1)
		}
		for j, s := range fields[1:] {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, cfgErr(scnr.line, "score %q is not an integer", s)
			}
			m.scores[row*n+j] = v
		}
		seen[row] = true
	}
	if err := scnr.Err(); err != nil {
		return nil, fmt.Errorf("reading matrix %s: %w", name, err)
	}

	var missing []string
	for i, ok := range seen {
		if !ok {
			missing = append(missing, string(m.alphabet[i]))
		}
	}
	if len(missing) > 0 {
		return nil, cfgErr(0, "no rows for symbols %s", strings.Join(missing, " "))
	}
	m.foldCase()
	return m, nil
}

// foldCase lets the lower and upper case form of a header symbol share its
// index unless the header defines both forms itself.
func (m *Matrix) foldCase() {
	for i, c := range m.alphabet {
		l, u := c, c
		switch {
		case 'A' <= c && c <= 'Z':
			l = c + 'a' - 'A'
		case 'a' <= c && c <= 'z':
			u = c - ('a' - 'A')
		}
		if m.index[l] == notSet {
			m.index[l] = int16(i)
		}
		if m.index[u] == notSet {
			m.index[u] = int16(i)
		}
	}
}

// Score implements Provider.
func (m *Matrix) Score(a, b byte) (int, error) {
	i, j := m.index[a], m.index[b]
	if i == notSet || j == notSet {
		return 0, &LookupError{Matrix: m.name, A: a, B: b}
	}
	return m.scores[int(i)*len(m.alphabet)+int(j)], nil
}

// Name returns the name the matrix was loaded under.
func (m *Matrix) Name() string {
	return m.name
}

// Alphabet returns the header symbols in column order.
func (m *Matrix) Alphabet() string {
	return string(m.alphabet)
}

// Contains reports whether c, or its other case, has a row in the matrix.
func (m *Matrix) Contains(c byte) bool {
	return m.index[c] != notSet
}

// Symmetric reports whether score(a, b) == score(b, a) for every pair. The
// aligners do not require it.
func (m *Matrix) Symmetric() bool {
	n := len(m.alphabet)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m.scores[i*n+j] != m.scores[j*n+i] {
				return false
			}
		}
	}
	return true
}

// String prints the matrix in the layout it was read from.
func (m *Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("  ")
	for _, c := range m.alphabet {
		fmt.Fprintf(&sb, "%4c", c)
	}
	sb.WriteByte('\n')
	n := len(m.alphabet)
	for i, c := range m.alphabet {
		fmt.Fprintf(&sb, "%c ", c)
		for j := 0; j < n; j++ {
			fmt.Fprintf(&sb, "%4d", m.scores[i*n+j])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
