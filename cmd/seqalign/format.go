package main

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aria-lang/seqalign-go/internal/kmer"
	"github.com/aria-lang/seqalign-go/internal/sequence"
)

// splitList splits a comma-separated flag value and trims each element.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// formatComposition prints symbol counts in symbol order, e.g. "A=2, G=1".
func formatComposition(counts map[byte]int) string {
	syms := make([]byte, 0, len(counts))
	for c := range counts {
		syms = append(syms, c)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	parts := make([]string, len(syms))
	for i, c := range syms {
		parts[i] = fmt.Sprintf("%c=%d", c, counts[c])
	}
	return strings.Join(parts, ", ")
}

// formatKMers reports the number of distinct words of length k in seq and
// its n most frequent words.
func formatKMers(seq *sequence.Sequence, k, n int) (string, error) {
	counter, err := kmer.NewCounter(k)
	if err != nil {
		return "", err
	}
	counter.CountFromSequence(seq)
	top, err := counter.MostFrequent(n)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(top))
	for i, c := range top {
		parts[i] = fmt.Sprintf("%s=%d", c.KMer, c.Count)
	}
	return fmt.Sprintf("Distinct %d-mers: %d  Top: %s", k, counter.UniqueCount(), strings.Join(parts, ", ")), nil
}

func isInf(f float64) bool {
	return math.IsInf(f, 0)
}
