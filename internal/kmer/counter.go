// Package kmer counts words of length k in a sequence and compares the word
// sets of two sequences.
//
// The search command uses it as a prefilter: targets that share few words
// with the query are dropped before the quadratic alignment runs.
package kmer

import (
	"fmt"
	"sort"

	"github.com/aria-lang/seqalign-go/internal/sequence"
)

// Count is a k-mer with the number of times it occurs.
type Count struct {
	KMer  string
	Count int
}

// Counter holds the k-mer counts of one or more sequences.
type Counter struct {
	K      int
	Counts map[string]int
	Total  int
}

// NewCounter creates an empty counter for words of length k.
func NewCounter(k int) (*Counter, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	return &Counter{K: k, Counts: make(map[string]int)}, nil
}

// CountSymbols adds every word of length K in symbols. Symbols shorter than K
// add nothing.
func (c *Counter) CountSymbols(symbols string) {
	for i := 0; i+c.K <= len(symbols); i++ {
		c.Counts[symbols[i:i+c.K]]++
		c.Total++
	}
}

// CountFromSequence counts all k-mers of seq.
func (c *Counter) CountFromSequence(seq *sequence.Sequence) {
	c.CountSymbols(seq.Symbols())
}

// UniqueCount returns the number of distinct k-mers.
func (c *Counter) UniqueCount() int {
	return len(c.Counts)
}

// MostFrequent returns up to n k-mers, most frequent first. Equal counts are
// ordered by k-mer.
func (c *Counter) MostFrequent(n int) ([]Count, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive")
	}

	counts := make([]Count, 0, len(c.Counts))
	for kmer, count := range c.Counts {
		counts = append(counts, Count{KMer: kmer, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].KMer < counts[j].KMer
	})

	if n > len(counts) {
		n = len(counts)
	}
	return counts[:n], nil
}

// Shared returns how many distinct k-mers both counters hold.
func (c *Counter) Shared(other *Counter) (int, error) {
	if c.K != other.K {
		return 0, fmt.Errorf("cannot compare k=%d with k=%d", c.K, other.K)
	}
	small, large := c.Counts, other.Counts
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for kmer := range small {
		if _, ok := large[kmer]; ok {
			n++
		}
	}
	return n, nil
}

// Jaccard returns |A ∩ B| / |A ∪ B| over the distinct k-mers. Two empty
// counters have similarity 0.
func (c *Counter) Jaccard(other *Counter) (float64, error) {
	shared, err := c.Shared(other)
	if err != nil {
		return 0, err
	}
	union := len(c.Counts) + len(other.Counts) - shared
	if union == 0 {
		return 0, nil
	}
	return float64(shared) / float64(union), nil
}

// CountKMers counts the k-mers of seq.
func CountKMers(seq *sequence.Sequence, k int) (*Counter, error) {
	c, err := NewCounter(k)
	if err != nil {
		return nil, err
	}
	c.CountFromSequence(seq)
	return c, nil
}
