package ranker

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/dgallion1/outliner/internal/document"
	"github.com/dgallion1/outliner/internal/embedding"
)

// PlanScore is one ranked source document.
type PlanScore struct {
	DocID      string  `json:"doc_id"`
	Similarity float64 `json:"similarity"`
}

// Ranker scores whole source documents against a free-text query by
// comparing the query embedding to each document's mean chunk vector.
type Ranker struct {
	embedder    embedding.Embedder
	planVectors map[string][]float32
}

// New creates a Ranker with no plan vectors. Call ComputePlanVectors before
// ranking.
func New(e embedding.Embedder) *Ranker {
	return &Ranker{
		embedder:    e,
		planVectors: make(map[string][]float32),
	}
}

// ComputePlanVectors derives one centroid per source file from the chunk
// records and their stored vectors. records[i] must describe vectors[i].
func (r *Ranker) ComputePlanVectors(records []document.ChunkRecord, vectors [][]float32) error {
	if len(records) != len(vectors) {
		return fmt.Errorf("records and vectors length mismatch: %d vs %d", len(records), len(vectors))
	}
	sums := make(map[string][]float32)
	counts := make(map[string]int)
	for i, rec := range records {
		v := vectors[i]
		sum, ok := sums[rec.SourceFile]
		if !ok {
			sum = make([]float32, len(v))
			sums[rec.SourceFile] = sum
		}
		if len(sum) != len(v) {
			return fmt.Errorf("chunk %d of %s has dimension %d, want %d", i, rec.SourceFile, len(v), len(sum))
		}
		for j := range v {
			sum[j] += v[j]
		}
		counts[rec.SourceFile]++
	}

	r.planVectors = make(map[string][]float32, len(sums))
	for doc, sum := range sums {
		n := float32(counts[doc])
		for j := range sum {
			sum[j] /= n
		}
		r.planVectors[doc] = sum
	}
	return nil
}

// PlanCount returns the number of documents with a computed centroid.
func (r *Ranker) PlanCount() int { return len(r.planVectors) }

// Rank embeds the query once and returns the topK documents by cosine
// similarity to their centroids, ties broken by document id.
func (r *Ranker) Rank(ctx context.Context, query string, topK int) ([]PlanScore, error) {
	if len(r.planVectors) == 0 {
		return nil, nil
	}
	qv, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scores := make([]PlanScore, 0, len(r.planVectors))
	for doc, pv := range r.planVectors {
		scores = append(scores, PlanScore{DocID: doc, Similarity: cosine(qv, pv)})
	}
	sort.Slice(scores, func(a, b int) bool {
		if scores[a].Similarity != scores[b].Similarity {
			return scores[a].Similarity > scores[b].Similarity
		}
		return scores[a].DocID < scores[b].DocID
	})
	if topK > 0 && len(scores) > topK {
		scores = scores[:topK]
	}
	return scores, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
