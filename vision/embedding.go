package vision

import (
	"fmt"
	"math"
)

// PostprocessEmbedding extracts the embedding vector from a raw model output.
// It selects the first batch row of the flat output, copies it into a new
// vector of the given length, and L2-normalizes it to unit norm.
//
// A zero-norm output means the model produced a degenerate embedding, which
// cannot happen with a correctly loaded model; it is reported as
// ErrDegenerateEmbedding rather than silently emitting a zero vector.
func PostprocessEmbedding(raw []float32, dim int) ([]float32, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidEmbeddingSize, dim)
	}
	if len(raw) < dim {
		return nil, fmt.Errorf("%w: got %d, need %d", ErrShortModelOutput, len(raw), dim)
	}

	v := make([]float32, dim)
	copy(v, raw[:dim])

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return nil, ErrDegenerateEmbedding
	}

	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
	return v, nil
}
