package kmer

import (
	"fmt"
	"sort"

	"github.com/aria-lang/seqalign-go/internal/sequence"
)

// Candidate is a target ranked by the words it shares with a query.
type Candidate struct {
	Index   int
	Shared  int
	Jaccard float64
}

// Rank orders targets by the number of distinct k-mers they share with
// query, most first, keeping input order on ties. Targets sharing nothing are
// kept at the end.
func Rank(query *sequence.Sequence, targets []*sequence.Sequence, k int) ([]Candidate, error) {
	q, err := CountKMers(query, k)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, len(targets))
	for i, t := range targets {
		tc, err := CountKMers(t, k)
		if err != nil {
			return nil, err
		}
		shared, err := q.Shared(tc)
		if err != nil {
			return nil, err
		}
		j, err := q.Jaccard(tc)
		if err != nil {
			return nil, err
		}
		out[i] = Candidate{Index: i, Shared: shared, Jaccard: j}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Shared > out[j].Shared
	})
	return out, nil
}

// Select returns the targets of the n best candidates, in rank order, along
// with their indices into targets.
func Select(query *sequence.Sequence, targets []*sequence.Sequence, k, n int) ([]*sequence.Sequence, []int, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("candidate count must be positive, got %d", n)
	}
	ranked, err := Rank(query, targets, k)
	if err != nil {
		return nil, nil, err
	}
	if n > len(ranked) {
		n = len(ranked)
	}

	kept := make([]*sequence.Sequence, n)
	index := make([]int, n)
	for i, c := range ranked[:n] {
		kept[i] = targets[c.Index]
		index[i] = c.Index
	}
	return kept, index, nil
}
