package vectorindex

import (
	"errors"
	"fmt"
	"sort"
)

// Metric selects the distance semantics of an index.
type Metric int

const (
	// MetricL2 ranks by exact Euclidean distance. Scores are reported as
	// 1/(1+d) where d is the squared distance, so higher is better.
	MetricL2 Metric = iota
	// MetricInnerProduct ranks by dot product. With L2-normalized vectors
	// this is cosine similarity; the index itself never normalizes.
	MetricInnerProduct
)

// ErrCorruptIndex indicates a persisted index and its metadata sidecar
// disagree or the sidecar is missing.
var ErrCorruptIndex = errors.New("corrupt index")

// Index is a flat exact nearest-neighbor index over fixed-dimension vectors
// with parallel metadata. Invariant: meta[i] describes vectors[i]. Build
// replaces the contents wholesale; there is no incremental add. A build must
// not race a search on the same handle — callers needing overlap-free swaps
// build a fresh Index and swap the reference.
type Index[M any] struct {
	metric  Metric
	dim     int
	vectors [][]float32
	meta    []M
}

// New creates an empty index with the given metric.
func New[M any](metric Metric) *Index[M] {
	return &Index[M]{metric: metric}
}

// Build replaces any existing contents with the given vectors and metadata.
func (ix *Index[M]) Build(vectors [][]float32, meta []M) error {
	if len(vectors) != len(meta) {
		return fmt.Errorf("vectors and metadata length mismatch: %d vs %d", len(vectors), len(meta))
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
	}
	ix.vectors = vectors
	ix.meta = meta
	ix.dim = dim
	return nil
}

// Len returns the number of indexed vectors.
func (ix *Index[M]) Len() int { return len(ix.vectors) }

// Dimension returns the vector dimension, 0 for an empty index.
func (ix *Index[M]) Dimension() int { return ix.dim }

// Metric returns the index's distance semantics.
func (ix *Index[M]) Metric() Metric { return ix.metric }

// Metadata returns the metadata array, positionally parallel to the vectors.
func (ix *Index[M]) Metadata() []M { return ix.meta }

// Vectors returns the stored vectors. Callers must not mutate them.
func (ix *Index[M]) Vectors() [][]float32 { return ix.vectors }

// Hit pairs a metadata record with its similarity score. Rank is 1-based.
type Hit[M any] struct {
	Meta  M
	Score float64
	Rank  int
}

// Search returns at most k hits sorted by descending similarity. Ties are
// broken by ascending insertion index. An empty index yields no hits.
func (ix *Index[M]) Search(query []float32, k int) ([]Hit[M], error) {
	if len(ix.vectors) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != ix.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), ix.dim)
	}

	scores := make([]float64, len(ix.vectors))
	for i, v := range ix.vectors {
		scores[i] = ix.score(query, v)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	hits := make([]Hit[M], k)
	for i := 0; i < k; i++ {
		idx := order[i]
		hits[i] = Hit[M]{Meta: ix.meta[idx], Score: scores[idx], Rank: i + 1}
	}
	return hits, nil
}

func (ix *Index[M]) score(query, v []float32) float64 {
	switch ix.metric {
	case MetricInnerProduct:
		var dot float64
		for i := range query {
			dot += float64(query[i]) * float64(v[i])
		}
		return dot
	default:
		var dist float64
		for i := range query {
			d := float64(query[i]) - float64(v[i])
			dist += d * d
		}
		return 1 / (1 + dist)
	}
}
