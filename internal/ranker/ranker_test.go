package ranker

import (
	"context"
	"math"
	"testing"

	"github.com/dgallion1/outliner/internal/document"
	"github.com/dgallion1/outliner/internal/embedding"
)

func chunkRec(source string) document.ChunkRecord {
	return document.ChunkRecord{Chunk: document.Chunk{SourceFile: source}}
}

// fixedEmbedder returns the same vector for every input.
type fixedEmbedder struct {
	vec []float32
}

func (f *fixedEmbedder) Embed(context.Context, string) ([]float32, error) { return f.vec, nil }
func (f *fixedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = f.vec
	}
	return out, nil
}
func (f *fixedEmbedder) Dimension() int    { return len(f.vec) }
func (f *fixedEmbedder) ModelInfo() string { return "fixed" }

func TestComputePlanVectorsMean(t *testing.T) {
	r := New(embedding.NewLocalEmbedder(2))
	records := []document.ChunkRecord{
		chunkRec("plan_a"),
		chunkRec("plan_a"),
		chunkRec("plan_b"),
	}
	vectors := [][]float32{
		{2, 0},
		{0, 2},
		{1, 1},
	}
	if err := r.ComputePlanVectors(records, vectors); err != nil {
		t.Fatalf("ComputePlanVectors: %v", err)
	}
	if r.PlanCount() != 2 {
		t.Fatalf("plan count = %d", r.PlanCount())
	}

	a := r.planVectors["plan_a"]
	if a[0] != 1 || a[1] != 1 {
		t.Errorf("plan_a centroid = %v, want [1 1]", a)
	}
}

func TestComputePlanVectorsLengthMismatch(t *testing.T) {
	r := New(embedding.NewLocalEmbedder(2))
	err := r.ComputePlanVectors([]document.ChunkRecord{chunkRec("a")}, nil)
	if err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestRankOrdering(t *testing.T) {
	emb := &fixedEmbedder{vec: []float32{1, 0}}
	r := New(emb)
	records := []document.ChunkRecord{
		chunkRec("aligned"),
		chunkRec("diagonal"),
		chunkRec("orthogonal"),
	}
	vectors := [][]float32{
		{1, 0},
		{1, 1},
		{0, 1},
	}
	if err := r.ComputePlanVectors(records, vectors); err != nil {
		t.Fatalf("ComputePlanVectors: %v", err)
	}

	scores, err := r.Rank(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("got %d scores", len(scores))
	}
	if scores[0].DocID != "aligned" || scores[1].DocID != "diagonal" || scores[2].DocID != "orthogonal" {
		t.Errorf("order = %s %s %s", scores[0].DocID, scores[1].DocID, scores[2].DocID)
	}
	if math.Abs(scores[0].Similarity-1) > 1e-6 {
		t.Errorf("aligned similarity = %f", scores[0].Similarity)
	}
}

func TestRankTiesBreakByDocID(t *testing.T) {
	emb := &fixedEmbedder{vec: []float32{1, 0}}
	r := New(emb)
	records := []document.ChunkRecord{chunkRec("zeta"), chunkRec("alpha")}
	vectors := [][]float32{{1, 0}, {1, 0}}
	if err := r.ComputePlanVectors(records, vectors); err != nil {
		t.Fatalf("ComputePlanVectors: %v", err)
	}

	scores, err := r.Rank(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if scores[0].DocID != "alpha" || scores[1].DocID != "zeta" {
		t.Errorf("tie order = %s %s", scores[0].DocID, scores[1].DocID)
	}
}

func TestRankTruncatesToTopK(t *testing.T) {
	emb := &fixedEmbedder{vec: []float32{1, 0}}
	r := New(emb)
	records := []document.ChunkRecord{chunkRec("a"), chunkRec("b"), chunkRec("c")}
	vectors := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	if err := r.ComputePlanVectors(records, vectors); err != nil {
		t.Fatalf("ComputePlanVectors: %v", err)
	}

	scores, err := r.Rank(context.Background(), "query", 1)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(scores) != 1 {
		t.Errorf("got %d scores, want 1", len(scores))
	}
}

func TestRankEmpty(t *testing.T) {
	r := New(embedding.NewLocalEmbedder(2))
	scores, err := r.Rank(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if scores != nil {
		t.Errorf("expected no scores, got %v", scores)
	}
}
