// Package pvalue estimates how significant an alignment score is by
// comparing it with the scores of shuffled sequences.
//
// Each trial permutes the second sequence with a Fisher-Yates shuffle, which
// keeps its symbol composition and destroys the order, then aligns the first
// sequence against it without traceback. The estimate is
//
//	(hits + 1) / (trials + 1)
//
// where a hit is a trial scoring at least the observed score.
package pvalue

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aria-lang/seqalign-go/internal/alignment"
	"github.com/aria-lang/seqalign-go/internal/sequence"
	"github.com/aria-lang/seqalign-go/internal/stats"
)

// Options configures a Calculator.
type Options struct {
	// Trials is the number of permutations, at least 1.
	Trials int
	// Workers bounds how many trials run at once. Values below 1 mean 1.
	Workers int
	// Seed makes the permutations reproducible. 0 picks a seed from the clock.
	Seed int64
	// Progress, if set, is called once per finished trial. It is called from
	// worker goroutines and must be safe for concurrent use.
	Progress func()
}

// Calculator runs permutation trials through one aligner.
type Calculator struct {
	aligner alignment.Aligner
	opts    Options
}

// New creates a calculator. A trial count below 1 is a *alignment.UsageError.
func New(al alignment.Aligner, opts Options) (*Calculator, error) {
	if al == nil {
		return nil, &alignment.UsageError{Reason: "p-value estimation needs an aligner"}
	}
	if opts.Trials < 1 {
		return nil, &alignment.UsageError{Reason: "p-value estimation needs at least one trial"}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	return &Calculator{aligner: al, opts: opts}, nil
}

// Seed returns the seed in use, so a run can be repeated.
func (c *Calculator) Seed() int64 {
	return c.opts.Seed
}

// Estimate is the outcome of a permutation test.
type Estimate struct {
	Observed int
	Trials   int
	Hits     int
	PValue   float64
	Seed     int64
	// Null holds the score of every trial in trial order.
	Null []int
}

// Summary describes the null score distribution.
func (e *Estimate) Summary() (*stats.Summary, error) {
	return stats.FromScores(e.Null)
}

// Estimate runs the trials for a against shuffled copies of b. Trial i
// always uses the i-th seed drawn from the calculator seed, so the result
// does not depend on the number of workers. Cancelling ctx stops the run
// between trials and returns ctx.Err().
func (c *Calculator) Estimate(ctx context.Context, a, b *sequence.Sequence, observed int) (*Estimate, error) {
	if a == nil || b == nil {
		return nil, &alignment.UsageError{Reason: "two sequences are required"}
	}

	master := rand.New(rand.NewSource(c.opts.Seed))
	seeds := make([]int64, c.opts.Trials)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	null := make([]int, c.opts.Trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	for i := range seeds {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[i]))
			shuffled, err := b.WithSymbols(Permute(b.Symbols(), rng))
			if err != nil {
				return err
			}
			r, err := c.aligner.Align(a, shuffled, false)
			if err != nil {
				return err
			}
			null[i] = r.Score
			if c.opts.Progress != nil {
				c.opts.Progress()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hits := 0
	for _, s := range null {
		if s >= observed {
			hits++
		}
	}

	return &Estimate{
		Observed: observed,
		Trials:   c.opts.Trials,
		Hits:     hits,
		PValue:   float64(hits+1) / float64(c.opts.Trials+1),
		Seed:     c.opts.Seed,
		Null:     null,
	}, nil
}

// Permute returns a uniformly random permutation of symbols.
func Permute(symbols string, rng *rand.Rand) string {
	b := []byte(symbols)
	for i := len(b) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
