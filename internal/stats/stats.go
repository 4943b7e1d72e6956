// Package stats summarizes a null distribution of alignment scores.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Summary describes a set of alignment scores.
type Summary struct {
	Count  int
	Min    int
	Max    int
	Mean   float64
	Median float64
	StdDev float64
}

// FromScores calculates the summary of scores.
func FromScores(scores []int) (*Summary, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("score list cannot be empty")
	}

	count := len(scores)
	minScore, maxScore := scores[0], scores[0]
	sum := 0
	for _, s := range scores {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
		sum += s
	}
	mean := float64(sum) / float64(count)

	sorted := make([]int, count)
	copy(sorted, scores)
	sort.Ints(sorted)

	mid := count / 2
	var median float64
	if count%2 == 0 {
		median = float64(sorted[mid-1]+sorted[mid]) / 2
	} else {
		median = float64(sorted[mid])
	}

	// Population standard deviation
	sq := 0.0
	for _, s := range scores {
		d := float64(s) - mean
		sq += d * d
	}

	return &Summary{
		Count:  count,
		Min:    minScore,
		Max:    maxScore,
		Mean:   mean,
		Median: median,
		StdDev: math.Sqrt(sq / float64(count)),
	}, nil
}

// ZScore returns how many standard deviations observed lies above the mean.
// A degenerate distribution gives +Inf, -Inf or 0.
func (s *Summary) ZScore(observed int) float64 {
	d := float64(observed) - s.Mean
	if s.StdDev == 0 {
		switch {
		case d > 0:
			return math.Inf(1)
		case d < 0:
			return math.Inf(-1)
		}
		return 0
	}
	return d / s.StdDev
}

func (s *Summary) String() string {
	return fmt.Sprintf(`ScoreSummary {
  count: %d
  score range: %d - %d
  mean: %.2f
  median: %.1f
  std dev: %.2f
}`, s.Count, s.Min, s.Max, s.Mean, s.Median, s.StdDev)
}

// Histogram bins scores into equal-width ranges.
type Histogram struct {
	Bins     []int
	MinScore int
	MaxScore int
	BinWidth int
	NumBins  int
}

// NewHistogram creates a histogram of scores with numBins bins.
func NewHistogram(scores []int, numBins int) (*Histogram, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("score list cannot be empty")
	}
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	minScore, maxScore := scores[0], scores[0]
	for _, s := range scores {
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	binWidth := (maxScore - minScore + numBins) / numBins
	if binWidth < 1 {
		binWidth = 1
	}

	bins := make([]int, numBins)
	for _, s := range scores {
		binIndex := (s - minScore) / binWidth
		if binIndex >= numBins {
			binIndex = numBins - 1
		}
		bins[binIndex]++
	}

	return &Histogram{
		Bins:     bins,
		MinScore: minScore,
		MaxScore: maxScore,
		BinWidth: binWidth,
		NumBins:  numBins,
	}, nil
}

// ModeBin returns the score range of the fullest bin, lowest first on a tie.
func (h *Histogram) ModeBin() (int, int) {
	maxCount := h.Bins[0]
	maxBin := 0

	for i, count := range h.Bins {
		if count > maxCount {
			maxCount = count
			maxBin = i
		}
	}

	start := h.MinScore + maxBin*h.BinWidth
	return start, start + h.BinWidth - 1
}

// String draws one bar per bin, scaled so the fullest bin is 50 marks wide.
func (h *Histogram) String() string {
	maxCount := 0
	for _, c := range h.Bins {
		if c > maxCount {
			maxCount = c
		}
	}

	var sb strings.Builder
	sb.WriteString("Score Histogram:\n")
	for i := 0; i < h.NumBins; i++ {
		start := h.MinScore + i*h.BinWidth
		end := start + h.BinWidth - 1
		count := h.Bins[i]

		bar := 0
		if maxCount > 0 {
			bar = count * 50 / maxCount
		}
		fmt.Fprintf(&sb, "%5d-%5d: %s (%d)\n", start, end, strings.Repeat("#", bar), count)
	}
	return sb.String()
}
