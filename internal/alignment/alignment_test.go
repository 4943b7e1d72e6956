package alignment

import (
	"bytes"
	"math"
	"math/rand"
	"strings"
	"testing"
	"unsafe"

	"github.com/aria-lang/seqalign-go/internal/scoring"
	"github.com/aria-lang/seqalign-go/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSeq(t testing.TB, id, symbols string) *sequence.Sequence {
	t.Helper()
	s, err := sequence.New(id, symbols)
	require.NoError(t, err)
	return s
}

func mustMatrix(t testing.TB, name string) *scoring.Matrix {
	t.Helper()
	m, err := scoring.Load(name, "")
	require.NoError(t, err)
	return m
}

func unitScores() *scoring.Identity {
	return &scoring.Identity{Match: 1, Mismatch: -1}
}

func mustAligner(t testing.TB, mode Mode, scores scoring.Provider, gapCost int) MatrixAligner {
	t.Helper()
	al, err := New(mode, scores, gapCost)
	require.NoError(t, err)
	return al
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"local", Local, false},
		{"Global", Global, false},
		{" LOCAL ", Local, false},
		{"semi", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				var usage *UsageError
				require.ErrorAs(t, err, &usage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ToLower(strings.TrimSpace(tt.in)), got.String())
		})
	}
}

func TestNewValidation(t *testing.T) {
	t.Run("positive gap cost", func(t *testing.T) {
		for _, mode := range []Mode{Local, Global} {
			_, err := New(mode, unitScores(), 1)
			var usage *UsageError
			require.ErrorAs(t, err, &usage)
		}
	})

	t.Run("missing provider", func(t *testing.T) {
		_, err := NewNeedlemanWunsch(nil, -1)
		require.Error(t, err)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := New(Mode(7), unitScores(), -1)
		require.Error(t, err)
	})

	t.Run("zero gap cost is allowed", func(t *testing.T) {
		al, err := NewSmithWaterman(unitScores(), 0)
		require.NoError(t, err)
		assert.Equal(t, Local, al.Mode())
	})

	t.Run("nil sequence", func(t *testing.T) {
		al := mustAligner(t, Global, unitScores(), -1)
		_, err := al.Align(nil, mustSeq(t, "b", "A"), true)
		var usage *UsageError
		require.ErrorAs(t, err, &usage)
	})
}

func TestNeedlemanWunschTextbook(t *testing.T) {
	tests := []struct {
		name         string
		a, b         string
		scores       scoring.Provider
		gapCost      int
		wantScore    int
		wantA, wantB string
	}{
		{
			name:      "GCATGCU vs GATTACA",
			a:         "GCATGCU",
			b:         "GATTACA",
			scores:    unitScores(),
			gapCost:   -1,
			wantScore: 0,
			wantA:     "GCA-TGCU",
			wantB:     "G-ATTACA",
		},
		{
			name:      "GATTACA vs GCATGCU",
			a:         "GATTACA",
			b:         "GCATGCU",
			scores:    unitScores(),
			gapCost:   -1,
			wantScore: 0,
			wantA:     "G-ATTACA",
			wantB:     "GCA-TGCU",
		},
		{
			name:      "HEAGAWGHEE vs PAWHEAE",
			a:         "HEAGAWGHEE",
			b:         "PAWHEAE",
			scores:    mustMatrix(t, scoring.BLOSUM50),
			gapCost:   -8,
			wantScore: 1,
			wantA:     "HEAGAWGHE-E",
			wantB:     "--P-AW-HEAE",
		},
		{
			name:      "PAWHEAE vs HEAGAWGHEE",
			a:         "PAWHEAE",
			b:         "HEAGAWGHEE",
			scores:    mustMatrix(t, scoring.BLOSUM50),
			gapCost:   -8,
			wantScore: 1,
			wantA:     "--P-AW-HEAE",
			wantB:     "HEAGAWGHE-E",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			al := mustAligner(t, Global, tt.scores, tt.gapCost)
			r, err := al.Align(mustSeq(t, "a", tt.a), mustSeq(t, "b", tt.b), true)
			require.NoError(t, err)

			assert.Equal(t, Global, r.Mode)
			assert.Equal(t, tt.wantScore, r.Score)
			assert.Equal(t, tt.wantA, r.AlignedA)
			assert.Equal(t, tt.wantB, r.AlignedB)
			assert.True(t, r.Traced())
			assert.Equal(t, -1, r.StartA)
			assert.Equal(t, -1, r.EndA)
			assert.Equal(t, -1, r.StartB)
			assert.Equal(t, -1, r.EndB)
		})
	}
}

func TestSmithWatermanTextbook(t *testing.T) {
	al := mustAligner(t, Local, mustMatrix(t, scoring.BLOSUM50), -8)

	r, err := al.Align(mustSeq(t, "a", "HEAGAWGHEE"), mustSeq(t, "b", "PAWHEAE"), true)
	require.NoError(t, err)

	assert.Equal(t, Local, r.Mode)
	assert.Equal(t, 28, r.Score)
	assert.Equal(t, "AWGHE", r.AlignedA)
	assert.Equal(t, "AW-HE", r.AlignedB)
	assert.Equal(t, 5, r.StartA)
	assert.Equal(t, 9, r.EndA)
	assert.Equal(t, 2, r.StartB)
	assert.Equal(t, 5, r.EndB)
	assert.Equal(t, "2M1D2M", r.CIGAR())
}

func TestSmithWatermanUnitScores(t *testing.T) {
	al := mustAligner(t, Local, unitScores(), -1)

	r, err := al.Align(mustSeq(t, "a", "GCATGCU"), mustSeq(t, "b", "GATTACA"), true)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Score)
	assert.Equal(t, "CA", r.AlignedA)
	assert.Equal(t, "CA", r.AlignedB)
	assert.Equal(t, []int{2, 3, 6, 7}, []int{r.StartA, r.EndA, r.StartB, r.EndB})
}

func TestSmithWatermanFirstMaximumWins(t *testing.T) {
	al := mustAligner(t, Local, unitScores(), -1)

	// (1,1) and (3,2) both score 1; the earlier row is kept.
	r, err := al.Align(mustSeq(t, "a", "ACG"), mustSeq(t, "b", "AG"), true)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Score)
	assert.Equal(t, "A", r.AlignedA)
	assert.Equal(t, "A", r.AlignedB)
	assert.Equal(t, []int{1, 1, 1, 1}, []int{r.StartA, r.EndA, r.StartB, r.EndB})
}

func TestSmithWatermanTieBreak(t *testing.T) {
	scores := &scoring.Identity{Match: 2, Mismatch: -1}
	tests := []struct {
		name         string
		a, b         string
		wantA, wantB string
		wantPos      []int
	}{
		// Diagonal and Left tie at cell (2, 3); Diagonal is kept.
		{"diagonal before left", "ACA", "ACCA", "A-CA", "ACCA", []int{1, 3, 1, 4}},
		// Up and Left tie at cell (2, 2); Up is kept.
		{"up before left", "ACAC", "CAAC", "ACAC", "A-AC", []int{1, 4, 2, 4}},
	}

	al := mustAligner(t, Local, scores, -1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := al.Align(mustSeq(t, "a", tt.a), mustSeq(t, "b", tt.b), true)
			require.NoError(t, err)
			assert.Equal(t, 5, r.Score)
			assert.Equal(t, tt.wantA, r.AlignedA)
			assert.Equal(t, tt.wantB, r.AlignedB)
			assert.Equal(t, tt.wantPos, []int{r.StartA, r.EndA, r.StartB, r.EndB})
		})
	}
}

func TestSmithWatermanNoPositiveCell(t *testing.T) {
	al := mustAligner(t, Local, unitScores(), -1)
	a, b := mustSeq(t, "a", "AAAA"), mustSeq(t, "b", "TTTT")

	r, err := al.Align(a, b, true)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Score)
	assert.True(t, r.Traced())
	assert.True(t, r.Empty())
	assert.Empty(t, r.AlignedA)
	assert.Empty(t, r.AlignedB)
	assert.Equal(t, []int{-1, -1, -1, -1}, []int{r.StartA, r.EndA, r.StartB, r.EndB})

	out, err := r.Format(10)
	require.NoError(t, err)
	assert.Empty(t, out)

	r, err = al.Align(a, b, false)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, -1, r.EndA)
	assert.Equal(t, -1, r.EndB)
}

func TestIdenticalSequencesGlobal(t *testing.T) {
	blosum := mustMatrix(t, scoring.BLOSUM62)
	al := mustAligner(t, Global, blosum, -4)
	s := "MKTAYIAKQRQISFVKSHFSRQ"

	want := 0
	for i := 0; i < len(s); i++ {
		v, err := blosum.Score(s[i], s[i])
		require.NoError(t, err)
		want += v
	}

	r, err := al.Align(mustSeq(t, "a", s), mustSeq(t, "b", s), true)
	require.NoError(t, err)
	assert.Equal(t, want, r.Score)
	assert.Equal(t, s, r.AlignedA)
	assert.Equal(t, s, r.AlignedB)
	assert.Equal(t, 0, r.TotalGaps())
	assert.Equal(t, 1.0, r.Identity())
}

func TestGlobalCanBeNegative(t *testing.T) {
	al := mustAligner(t, Global, unitScores(), -1)
	r, err := al.Align(mustSeq(t, "a", "AAAA"), mustSeq(t, "b", "TT"), false)
	require.NoError(t, err)
	assert.Equal(t, -4, r.Score)
	assert.False(t, r.Traced())
}

func TestLookupErrorPropagates(t *testing.T) {
	blosum := mustMatrix(t, scoring.BLOSUM62)
	a, b := mustSeq(t, "a", "ACU"), mustSeq(t, "b", "AC")

	for _, mode := range []Mode{Local, Global} {
		for _, traceBack := range []bool{true, false} {
			al := mustAligner(t, mode, blosum, -4)
			_, err := al.Align(a, b, traceBack)
			var lookup *scoring.LookupError
			require.ErrorAs(t, err, &lookup, "%s traceBack=%v", mode, traceBack)
			assert.Equal(t, byte('U'), lookup.A)
		}
	}
}

func TestScoreOnlyMatchesFullAlignment(t *testing.T) {
	blosum := mustMatrix(t, scoring.BLOSUM62)
	pairs := [][2]string{
		{"HEAGAWGHEE", "PAWHEAE"},
		{"MKTAYIAKQRQISFVKSHFSRQ", "MKAYIAKQRQISFVKSHFSRQLEERLG"},
		{"W", "W"},
		{"AAAA", "WWWW"},
		{"ACDEFGHIKLMNPQRSTVWY", "YWVTSRQPNMLKIHGFEDCA"},
	}

	for _, mode := range []Mode{Local, Global} {
		al := mustAligner(t, mode, blosum, -4)
		for _, p := range pairs {
			t.Run(mode.String()+"/"+p[0], func(t *testing.T) {
				a, b := mustSeq(t, "a", p[0]), mustSeq(t, "b", p[1])

				full, err := al.Align(a, b, true)
				require.NoError(t, err)
				fast, err := al.Align(a, b, false)
				require.NoError(t, err)

				assert.Equal(t, full.Score, fast.Score)
				assert.Equal(t, full.EndA, fast.EndA)
				assert.Equal(t, full.EndB, fast.EndB)
				assert.False(t, fast.Traced())
				assert.Equal(t, -1, fast.StartA)
				assert.Equal(t, -1, fast.StartB)

				_, m, err := al.AlignMatrix(a, b, false)
				require.NoError(t, err)
				rows, cols := m.Dims()
				assert.Equal(t, len(p[0])+1, rows)
				assert.Equal(t, len(p[1])+1, cols)
				if mode == Global {
					assert.Equal(t, full.Score, int(m.At(rows-1, cols-1).Score))
				}
			})
		}
	}
}

func randomSymbols(rng *rand.Rand, alphabet string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}

func TestAlignmentProperties(t *testing.T) {
	blosum := mustMatrix(t, scoring.BLOSUM62)
	rng := rand.New(rand.NewSource(42))
	const alphabet = "ARNDCQEGHILKMFPSTWYV"

	global := mustAligner(t, Global, blosum, -6)
	local := mustAligner(t, Local, blosum, -6)

	for n := 0; n < 40; n++ {
		a := mustSeq(t, "a", randomSymbols(rng, alphabet, 1+rng.Intn(30)))
		b := mustSeq(t, "b", randomSymbols(rng, alphabet, 1+rng.Intn(30)))

		g, err := global.Align(a, b, true)
		require.NoError(t, err)
		gRev, err := global.Align(b, a, false)
		require.NoError(t, err)
		assert.Equal(t, g.Score, gRev.Score, "global score is symmetric for %s / %s", a, b)
		assert.Equal(t, a.Symbols(), strings.ReplaceAll(g.AlignedA, "-", ""))
		assert.Equal(t, b.Symbols(), strings.ReplaceAll(g.AlignedB, "-", ""))

		l, err := local.Align(a, b, true)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, l.Score, 0)
		if !l.Empty() {
			assert.Equal(t, a.Symbols()[l.StartA-1:l.EndA], strings.ReplaceAll(l.AlignedA, "-", ""))
			assert.Equal(t, b.Symbols()[l.StartB-1:l.EndB], strings.ReplaceAll(l.AlignedB, "-", ""))
		}

		for _, r := range []*Result{g, l} {
			require.Equal(t, len(r.AlignedA), len(r.AlignedB))
			for i := 0; i < len(r.AlignedA); i++ {
				assert.False(t, r.AlignedA[i] == '-' && r.AlignedB[i] == '-', "double gap column %d", i)
			}
			assert.Equal(t, r.Score, columnScore(t, blosum, -6, r))
		}
	}
}

// columnScore recomputes an alignment score from its columns.
func columnScore(t *testing.T, scores scoring.Provider, gapCost int, r *Result) int {
	t.Helper()
	total := 0
	for i := 0; i < len(r.AlignedA); i++ {
		if r.AlignedA[i] == '-' || r.AlignedB[i] == '-' {
			total += gapCost
			continue
		}
		v, err := scores.Score(r.AlignedA[i], r.AlignedB[i])
		require.NoError(t, err)
		total += v
	}
	return total
}

func TestAlignIsIdempotent(t *testing.T) {
	al := mustAligner(t, Local, mustMatrix(t, scoring.BLOSUM50), -8)
	a, b := mustSeq(t, "a", "HEAGAWGHEE"), mustSeq(t, "b", "PAWHEAE")

	first, err := al.Align(a, b, true)
	require.NoError(t, err)
	second, err := al.Align(a, b, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "HEAGAWGHEE", a.Symbols())
	assert.Equal(t, "PAWHEAE", b.Symbols())
}

func TestMatrixWriteCSV(t *testing.T) {
	al := mustAligner(t, Global, unitScores(), -1)
	_, m, err := al.AlignMatrix(mustSeq(t, "a", "ACG"), mustSeq(t, "b", "AG"), true)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.WriteCSV(&buf))
	assert.Equal(t, ",,A,G\n,0,-1,-2\nA,-1,1,0\nC,-2,0,0\nG,-3,-1,1\n", buf.String())

	assert.Equal(t, Cell{Score: 0, Trace: None}, m.At(0, 0))
	assert.Equal(t, Cell{Score: -2, Trace: Up}, m.At(2, 0))
	assert.Equal(t, Cell{Score: -2, Trace: Left}, m.At(0, 2))
	assert.Equal(t, Cell{Score: 1, Trace: Diagonal}, m.At(1, 1))
}

func TestLocalMatrixFloor(t *testing.T) {
	al := mustAligner(t, Local, unitScores(), -1)
	_, m, err := al.AlignMatrix(mustSeq(t, "a", "ACG"), mustSeq(t, "b", "AG"), false)
	require.NoError(t, err)

	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			c := m.At(i, j)
			assert.GreaterOrEqual(t, c.Score, int32(0))
			if i == 0 || j == 0 || c.Score == 0 {
				assert.Equal(t, None, c.Trace, "cell (%d, %d)", i, j)
			}
		}
	}
}

func TestCellScoreWidth(t *testing.T) {
	assert.Equal(t, uintptr(8), unsafe.Sizeof(Cell{}))

	al := mustAligner(t, Global, unitScores(), math.MinInt32)
	_, err := al.Align(mustSeq(t, "a", "AC"), mustSeq(t, "b", "A"), true)
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, err.Error(), "32 bits")
}

func TestTracebackInvariantViolation(t *testing.T) {
	t.Run("unknown direction", func(t *testing.T) {
		m := newMatrix("AC", "AC")
		m.set(2, 2, Cell{Score: 2, Trace: Trace(9)})

		_, _, _, _, err := m.traceback(2, 2)
		var violation *InvariantViolationError
		require.ErrorAs(t, err, &violation)
		assert.Equal(t, 2, violation.Row)
		assert.Equal(t, 2, violation.Col)
		assert.Equal(t, Trace(9), violation.Trace)
		assert.Contains(t, err.Error(), "Trace(9)")
	})

	t.Run("direction leaves the matrix", func(t *testing.T) {
		m := newMatrix("AC", "AC")
		m.set(0, 1, Cell{Trace: Up})

		_, _, _, _, err := m.traceback(0, 1)
		var violation *InvariantViolationError
		require.ErrorAs(t, err, &violation)
	})
}

func TestTraceString(t *testing.T) {
	assert.Equal(t, "None", None.String())
	assert.Equal(t, "Diagonal", Diagonal.String())
	assert.Equal(t, "Up", Up.String())
	assert.Equal(t, "Left", Left.String())
}

func TestResultMetrics(t *testing.T) {
	tests := []struct {
		name         string
		alignedA     string
		alignedB     string
		wantIdentity float64
		wantCIGAR    string
		wantOpenings int
	}{
		{"perfect match", "ATGC", "ATGC", 1.0, "4M", 0},
		{"50% match", "ATGC", "ATTT", 0.5, "2M2X", 0},
		{"no match", "AAAA", "TTTT", 0.0, "4X", 0},
		{"with gap in A", "AT-GC", "ATGGC", 0.8, "2M1I2M", 1},
		{"with gap in B", "ATGGC", "AT-GC", 0.8, "2M1D2M", 1},
		{"long gap", "AT--GC", "ATGGGC", 4.0 / 6.0, "2M2I2M", 1},
		{"gaps in both", "AT-GC-", "ATGG-C", 0.5, "2M1I1M1D1I", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{AlignedA: tt.alignedA, AlignedB: tt.alignedB, traced: true}
			assert.InDelta(t, tt.wantIdentity, r.Identity(), 0.0001)
			assert.Equal(t, tt.wantCIGAR, r.CIGAR())
			assert.Equal(t, tt.wantOpenings, r.GapOpenings())
			assert.Equal(t, len(tt.alignedA), r.Length())
			assert.Equal(t, r.Length(), r.MatchCount()+r.MismatchCount()+r.TotalGaps())
		})
	}
}

func TestAlignAgainstMultiple(t *testing.T) {
	al := mustAligner(t, Local, &scoring.Identity{Match: 2, Mismatch: -1}, -2)
	query := mustSeq(t, "q", "ATGCATGC")
	targets := []*sequence.Sequence{
		mustSeq(t, "t1", "GCTAGCTA"),
		mustSeq(t, "t2", "ATGCATGC"),
		mustSeq(t, "t3", "AAAAAAAA"),
	}

	results, err := AlignAgainstMultiple(al, query, targets, false)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Greater(t, results[1].Result.Score, results[0].Result.Score)

	best, err := FindBest(al, query, targets, true)
	require.NoError(t, err)
	assert.Equal(t, 1, best.Index)
	assert.Equal(t, 16, best.Result.Score)

	_, err = AlignAgainstMultiple(al, query, nil, false)
	require.Error(t, err)
}

func BenchmarkSmithWaterman(b *testing.B) {
	benchmarkAlign(b, Local, true)
}

func BenchmarkNeedlemanWunsch(b *testing.B) {
	benchmarkAlign(b, Global, true)
}

func BenchmarkScoreOnly(b *testing.B) {
	benchmarkAlign(b, Local, false)
}

func benchmarkAlign(b *testing.B, mode Mode, traceBack bool) {
	s1 := strings.Repeat("ACGT", 250)
	s2 := strings.Repeat("AGCT", 250)
	seq1, seq2 := mustSeq(b, "a", s1), mustSeq(b, "b", s2)
	al := mustAligner(b, mode, &scoring.Identity{Match: 2, Mismatch: -1}, -2)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = al.Align(seq1, seq2, traceBack)
	}
}
