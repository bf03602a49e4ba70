package media

import "math"

// DefaultMatchTolerance is the Euclidean distance below which two face
// embeddings are considered the same person.
const DefaultMatchTolerance = 0.6

// EuclideanComparator implements the gallery's Comparator using plain
// Euclidean distance between embeddings with a fixed tolerance.
type EuclideanComparator struct {
	Tolerance float64
}

// NewEuclideanComparator builds a comparator; a non-positive tolerance
// falls back to DefaultMatchTolerance.
func NewEuclideanComparator(tolerance float64) EuclideanComparator {
	if tolerance <= 0 {
		tolerance = DefaultMatchTolerance
	}
	return EuclideanComparator{Tolerance: tolerance}
}

// Distance returns the Euclidean distance between two embeddings.
// Mismatched or empty vectors compare as infinitely far apart.
func (c EuclideanComparator) Distance(known, probe []float32) float64 {
	if len(known) != len(probe) || len(known) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range known {
		d := float64(known[i] - probe[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// IsMatch reports whether the probe is within tolerance of the known
// embedding.
func (c EuclideanComparator) IsMatch(known, probe []float32) bool {
	return c.Distance(known, probe) <= c.Tolerance
}
