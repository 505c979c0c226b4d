package embedding

import (
	"context"
	"errors"
	"math"
)

// Embedder maps text to fixed-dimension vectors.
type Embedder interface {
	// Embed returns one vector for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input text, preserving order. A
	// failed batch returns no partial results.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimension is the length of every produced vector.
	Dimension() int
	// ModelInfo identifies the backing model.
	ModelInfo() string
}

// ErrBatchFailed indicates a whole embedding batch failed; callers must not
// assume partial success.
var ErrBatchFailed = errors.New("embedding batch failed")

// Normalize scales v to unit L2 length in place. Zero vectors are left as is.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
