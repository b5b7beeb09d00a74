package pmi

import "math"

// Calculator computes the mutual-information collocation score.
type Calculator struct{}

// NewCalculator creates a new MI calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// MI calculates the log2 association score of a collocate
//
// MI = log2((AB * N) / (A * B * span))
//
// Where:
//   - A = keyword frequency
//   - B = frequency of the collocate anywhere in the document
//   - AB = frequency of the collocate inside keyword windows
//   - span = number of window positions per keyword occurrence (2*w)
//   - N = corpus size in tokens
//
// The second result is false when A, B or span is zero, in which case the
// score is undefined and 0 is returned.
func (c *Calculator) MI(a, b, ab int64, span int, n int64) (float64, bool) {
	if a <= 0 || b <= 0 || span <= 0 {
		return 0, false
	}

	numerator := float64(ab) * float64(n)
	denominator := float64(a) * float64(b) * float64(span)

	return math.Log2(numerator / denominator), true
}
