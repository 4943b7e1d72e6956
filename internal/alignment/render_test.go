package alignment

import (
	"bytes"
	"testing"

	"github.com/aria-lang/seqalign-go/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAlignments(t *testing.T) {
	blosum50 := mustMatrix(t, scoring.BLOSUM50)

	tests := []struct {
		name    string
		mode    Mode
		scores  scoring.Provider
		gapCost int
		a, b    string
		width   int
		want    string
	}{
		{
			name: "local single block", mode: Local, scores: blosum50, gapCost: -8,
			a: "HEAGAWGHEE", b: "PAWHEAE", width: 60,
			want: "5 AWGHE\n  AW HE\n2 AW-HE\n\n",
		},
		{
			name: "local wrapped", mode: Local, scores: blosum50, gapCost: -8,
			a: "HEAGAWGHEE", b: "PAWHEAE", width: 2,
			want: "5 AW\n  AW\n2 AW\n\n7 GH\n   H\n4 -H\n\n9 E\n  E\n5 E\n\n",
		},
		{
			name: "global wrapped", mode: Global, scores: blosum50, gapCost: -8,
			a: "HEAGAWGHEE", b: "PAWHEAE", width: 4,
			want: "1 HEAG\n      \n1 --P-\n\n5 AWGH\n  AW H\n2 AW-H\n\n9 E-E\n  E E\n5 EAE\n\n",
		},
		{
			name: "global unit scores", mode: Global, scores: unitScores(), gapCost: -1,
			a: "GCATGCU", b: "GATTACA", width: 3,
			want: "1 GCA\n  G A\n1 G-A\n\n4 -TG\n   T \n3 TTA\n\n6 CU\n  C \n6 CA\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			al := mustAligner(t, tt.mode, tt.scores, tt.gapCost)
			r, err := al.Align(mustSeq(t, "a", tt.a), mustSeq(t, "b", tt.b), true)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, tt.width))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRenderCounters(t *testing.T) {
	t.Run("labels padded to a common width", func(t *testing.T) {
		r := &Result{
			Mode:     Global,
			AlignedA: "ACGTACGTACGT",
			AlignedB: "ACGT--------",
			traced:   true,
			scores:   unitScores(),
		}
		out, err := r.Format(10)
		require.NoError(t, err)
		assert.Equal(t, "1 ACGTACGTAC\n  ACGT      \n1 ACGT------\n\n11 GT\n     \n 5 --\n\n", out)
	})

	t.Run("local counters start at the covered range", func(t *testing.T) {
		r := &Result{
			Mode:     Local,
			AlignedA: "ACGTACGTACGT",
			AlignedB: "AC-TACGAACGT",
			StartA:   95,
			StartB:   8,
			traced:   true,
			scores:   unitScores(),
		}
		out, err := r.Format(100)
		require.NoError(t, err)
		assert.Equal(t, "95 ACGTACGTACGT\n   AC TACG ACGT\n 8 AC-TACGAACGT\n\n", out)
	})

	t.Run("positive mismatches are marked", func(t *testing.T) {
		r := &Result{
			Mode:     Global,
			AlignedA: "KIVE",
			AlignedB: "KVIE",
			traced:   true,
			scores:   mustMatrix(t, scoring.BLOSUM62),
		}
		out, err := r.Format(10)
		require.NoError(t, err)
		assert.Equal(t, "1 KIVE\n  K++E\n1 KVIE\n\n", out)
	})
}

func TestRenderErrors(t *testing.T) {
	al := mustAligner(t, Global, unitScores(), -1)
	a, b := mustSeq(t, "a", "ACGT"), mustSeq(t, "b", "AGT")

	traced, err := al.Align(a, b, true)
	require.NoError(t, err)
	for _, width := range []int{0, -5} {
		_, err := traced.Format(width)
		var usage *UsageError
		require.ErrorAs(t, err, &usage, "width %d", width)
	}

	untraced, err := al.Align(a, b, false)
	require.NoError(t, err)
	_, err = untraced.Format(60)
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
}
