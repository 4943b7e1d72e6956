package alignment

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Render writes the alignment in blocks of width columns. Each block is
// three rows followed by a blank line:
//
//	5 AWGHE
//	  AW HE
//	2 AW-HE
//
// The first and last rows start with the 1-based position in A and B of the
// first symbol in the block, right-aligned to a common width. The middle row
// echoes identical symbols and marks a gap-free mismatch with a positive
// substitution score with '+'.
//
// A width below 1 or an untraced result is a *UsageError. An empty local
// result writes nothing.
func (r *Result) Render(w io.Writer, width int) error {
	if width <= 0 {
		return usageErrorf("block width must be positive, got %d", width)
	}
	if !r.traced {
		return usageErrorf("rendering needs a result computed with traceback")
	}
	if len(r.AlignedA) == 0 {
		return nil
	}

	posA, posB := 1, 1
	if r.Mode == Local {
		posA, posB = r.StartA, r.StartB
	}

	bw := bufio.NewWriter(w)
	var rowA, mid, rowB strings.Builder
	for start := 0; start < len(r.AlignedA); start += width {
		end := start + width
		if end > len(r.AlignedA) {
			end = len(r.AlignedA)
		}

		rowA.Reset()
		mid.Reset()
		rowB.Reset()
		labelA, labelB := strconv.Itoa(posA), strconv.Itoa(posB)
		pad := len(labelA)
		if len(labelB) > pad {
			pad = len(labelB)
		}
		rowA.WriteString(strings.Repeat(" ", pad-len(labelA)) + labelA + " ")
		mid.WriteString(strings.Repeat(" ", pad+1))
		rowB.WriteString(strings.Repeat(" ", pad-len(labelB)) + labelB + " ")

		for i := start; i < end; i++ {
			ca, cb := r.AlignedA[i], r.AlignedB[i]
			rowA.WriteByte(ca)
			rowB.WriteByte(cb)
			if ca != gap {
				posA++
			}
			if cb != gap {
				posB++
			}

			annotation, err := r.annotate(ca, cb)
			if err != nil {
				return err
			}
			mid.WriteByte(annotation)
		}

		for _, row := range []*strings.Builder{&rowA, &mid, &rowB} {
			bw.WriteString(row.String())
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func (r *Result) annotate(ca, cb byte) (byte, error) {
	switch {
	case ca == cb:
		return ca, nil
	case ca == gap || cb == gap || r.scores == nil:
		return ' ', nil
	}
	s, err := r.scores.Score(ca, cb)
	if err != nil {
		return 0, err
	}
	if s > 0 {
		return '+', nil
	}
	return ' ', nil
}

// Format returns the rendering as a string.
func (r *Result) Format(width int) (string, error) {
	var sb strings.Builder
	if err := r.Render(&sb, width); err != nil {
		return "", err
	}
	return sb.String(), nil
}
