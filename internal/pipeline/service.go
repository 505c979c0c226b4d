package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/outliner/internal/document"
	"github.com/dgallion1/outliner/internal/embedding"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/ranker"
	"github.com/dgallion1/outliner/internal/vectorindex"
)

// Service holds the loaded indexes for online queries. The heading index is
// required; the chunk index and plan ranking are skipped with a warning when
// absent so older index pairs keep serving.
type Service struct {
	nodes    *vectorindex.Index[document.NodeRecord]
	chunks   *vectorindex.Index[document.ChunkRecord]
	ranker   *ranker.Ranker
	embedder embedding.Embedder
	merger   *outline.Merger
	log      *slog.Logger
}

// NewService loads the index pair at base and prepares it for queries.
func NewService(base string, emb embedding.Embedder, log *slog.Logger) (*Service, error) {
	nodes, err := vectorindex.Load[document.NodeRecord](base)
	if err != nil {
		return nil, fmt.Errorf("load heading index: %w", err)
	}
	if nodes.Len() > 0 && nodes.Dimension() != emb.Dimension() {
		return nil, fmt.Errorf("heading index dimension %d does not match embedder dimension %d",
			nodes.Dimension(), emb.Dimension())
	}

	s := &Service{
		nodes:    nodes,
		embedder: emb,
		merger:   outline.NewMerger(outline.DefaultConfig()),
		log:      log,
	}

	chunkBase := ChunkBase(base)
	if _, err := os.Stat(vectorindex.IndexPath(chunkBase)); err != nil {
		log.Warn("chunk index not found, chunk search and plan ranking disabled", "base", chunkBase)
		return s, nil
	}
	chunks, err := vectorindex.Load[document.ChunkRecord](chunkBase)
	if err != nil {
		return nil, fmt.Errorf("load chunk index: %w", err)
	}
	s.chunks = chunks

	r := ranker.New(emb)
	if err := r.ComputePlanVectors(chunks.Metadata(), chunks.Vectors()); err != nil {
		return nil, fmt.Errorf("compute plan vectors: %w", err)
	}
	s.ranker = r
	log.Info("indexes loaded", "nodes", nodes.Len(), "chunks", chunks.Len(), "plans", r.PlanCount())
	return s, nil
}

// NodeCount returns the number of indexed heading nodes.
func (s *Service) NodeCount() int { return s.nodes.Len() }

// ChunkCount returns the number of indexed chunks, 0 without a chunk index.
func (s *Service) ChunkCount() int {
	if s.chunks == nil {
		return 0
	}
	return s.chunks.Len()
}

// SearchChunks returns the topK chunks most similar to the query.
func (s *Service) SearchChunks(ctx context.Context, query string, topK int) ([]vectorindex.Hit[document.ChunkRecord], error) {
	if s.chunks == nil {
		return nil, fmt.Errorf("chunk index not loaded")
	}
	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	embedding.Normalize(qv)
	return s.chunks.Search(qv, topK)
}

// Suggest merges the heading nodes nearest to the query text into an outline.
func (s *Service) Suggest(ctx context.Context, query string, topK int) (*outline.Outline, error) {
	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	raw, err := s.nodes.Search(qv, topK*3)
	if err != nil {
		return nil, fmt.Errorf("search heading index: %w", err)
	}
	hits := make([]outline.Hit, len(raw))
	for i, h := range raw {
		hits[i] = outline.Hit{Node: h.Meta, Similarity: h.Score}
	}
	return s.merger.Merge(hits, topK, query), nil
}

// RankPlans scores whole source documents against the query.
func (s *Service) RankPlans(ctx context.Context, query string, topK int) ([]ranker.PlanScore, error) {
	if s.ranker == nil {
		return nil, fmt.Errorf("plan ranking unavailable without a chunk index")
	}
	return s.ranker.Rank(ctx, query, topK)
}
