package embeddings

import (
	"math"
	"strings"
)

// Normalize scales v to unit L2 norm in place and returns it. A zero vector
// is returned unchanged since it has no direction to preserve.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	n := math.Sqrt(sum)
	if n == 0 {
		return v
	}
	inv := float32(1.0 / n)
	for i := range v {
		v[i] *= inv
	}
	return v
}

// ValidateInput rejects batches that contain nothing to embed. Backends call
// this before spending a network round trip.
func ValidateInput(texts []string) error {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return nil
		}
	}
	return ErrEmptyInput
}
