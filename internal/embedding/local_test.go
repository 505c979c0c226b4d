package embedding

import (
	"context"
	"math"
	"testing"
)

func TestLocalEmbedDeterministic(t *testing.T) {
	e := NewLocalEmbedder(64)
	ctx := context.Background()

	a, err := e.Embed(ctx, "project scope and schedule")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := e.Embed(ctx, "project scope and schedule")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestLocalEmbedDimension(t *testing.T) {
	e := NewLocalEmbedder(128)
	if e.Dimension() != 128 {
		t.Fatalf("Dimension = %d", e.Dimension())
	}
	v, err := e.Embed(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(v) != 128 {
		t.Errorf("vector length = %d", len(v))
	}

	if NewLocalEmbedder(0).Dimension() != DefaultLocalDim {
		t.Errorf("zero dim should fall back to default")
	}
}

func TestLocalEmbedUnitNorm(t *testing.T) {
	e := NewLocalEmbedder(64)
	v, err := e.Embed(context.Background(), "requirements analysis for the new billing system")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-4 {
		t.Errorf("squared norm = %f, want 1", sum)
	}
}

func TestLocalEmbedNoTokensIsZeroVector(t *testing.T) {
	e := NewLocalEmbedder(32)
	v, err := e.Embed(context.Background(), "the and of in")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i, x := range v {
		if x != 0 {
			t.Fatalf("component %d = %v, want 0", i, x)
		}
	}
}

func TestLocalEmbedBatchOrder(t *testing.T) {
	e := NewLocalEmbedder(64)
	ctx := context.Background()
	texts := []string{"alpha section", "beta section", "gamma section"}

	batch, err := e.EmbedBatch(ctx, texts)
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if len(batch) != len(texts) {
		t.Fatalf("batch length = %d", len(batch))
	}
	for i, text := range texts {
		single, _ := e.Embed(ctx, text)
		for j := range single {
			if batch[i][j] != single[j] {
				t.Fatalf("batch[%d] differs from single embedding", i)
			}
		}
	}
}

func TestLocalEmbedBatchCancelled(t *testing.T) {
	e := NewLocalEmbedder(32)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.EmbedBatch(ctx, []string{"one", "two"})
	if err == nil {
		t.Fatal("expected error on cancelled context")
	}
}
