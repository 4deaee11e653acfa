// Package scoring describes the score distribution of one subject offering.
package scoring

import (
	"errors"
	"math"
	"slices"
)

// Default distribution configuration constants.
const (
	defaultBucketWidth = 10
	defaultMaxScore    = 100
)

// ErrNoScores is returned when describing an empty distribution.
var ErrNoScores = errors.New("no scores to describe")

// Option applies a configuration option to the Describer.
type Option func(*Describer)

// WithBucketWidth sets the histogram bucket width. Non-positive values are ignored.
func WithBucketWidth(width int) Option {
	return func(d *Describer) {
		if width > 0 {
			d.bucketWidth = width
		}
	}
}

// WithMaxScore sets the top of the histogram range. Scores above it land in the last bucket.
func WithMaxScore(maxScore int) Option {
	return func(d *Describer) {
		if maxScore > 0 {
			d.maxScore = maxScore
		}
	}
}

// Bucket is one histogram bin covering [Lower, Upper].
type Bucket struct {
	Lower int `json:"lower"`
	Upper int `json:"upper"`
	Count int `json:"count"`
}

// Distribution summarizes a set of scores.
type Distribution struct {
	Count   int      `json:"count"`
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Mean    float64  `json:"mean"`
	Median  float64  `json:"median"`
	StdDev  float64  `json:"std_dev"`
	Buckets []Bucket `json:"buckets"`
}

// Describer computes distributions with a fixed histogram layout.
type Describer struct {
	bucketWidth int
	maxScore    int
}

// NewDescriber creates a Describer with configuration options.
func NewDescriber(opts ...Option) *Describer {
	d := &Describer{
		bucketWidth: defaultBucketWidth,
		maxScore:    defaultMaxScore,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Describe computes summary statistics and a histogram for scores.
func (d *Describer) Describe(scores []int) (Distribution, error) {
	if len(scores) == 0 {
		return Distribution{}, ErrNoScores
	}

	sorted := slices.Clone(scores)
	slices.Sort(sorted)

	var sum float64
	for _, s := range sorted {
		sum += float64(s)
	}
	n := len(sorted)
	mean := sum / float64(n)

	var sq float64
	for _, s := range sorted {
		diff := float64(s) - mean
		sq += diff * diff
	}

	var median float64
	if n%2 == 1 {
		median = float64(sorted[n/2])
	} else {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	return Distribution{
		Count:   n,
		Min:     sorted[0],
		Max:     sorted[n-1],
		Mean:    mean,
		Median:  median,
		StdDev:  math.Sqrt(sq / float64(n)),
		Buckets: d.histogram(sorted),
	}, nil
}

// histogram bins scores into ceil(maxScore/width) buckets. The last bucket is
// closed at maxScore so a perfect score is not alone in its own bin.
func (d *Describer) histogram(scores []int) []Bucket {
	n := (d.maxScore + d.bucketWidth - 1) / d.bucketWidth
	buckets := make([]Bucket, n)
	for i := range buckets {
		buckets[i].Lower = i * d.bucketWidth
		buckets[i].Upper = min((i+1)*d.bucketWidth-1, d.maxScore)
	}
	buckets[n-1].Upper = d.maxScore

	for _, s := range scores {
		i := s / d.bucketWidth
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		buckets[i].Count++
	}
	return buckets
}
