package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/outliner/internal/chunker"
	"github.com/dgallion1/outliner/internal/config"
	"github.com/dgallion1/outliner/internal/document"
	"github.com/dgallion1/outliner/internal/embedding"
	"github.com/dgallion1/outliner/internal/extractor"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/vectorindex"
)

// ErrNoDocuments means the input directory held nothing indexable.
var ErrNoDocuments = errors.New("no indexable documents")

// Pipeline runs the offline indexing flow and the outline suggestion flow.
type Pipeline struct {
	cfg      config.Config
	embedder embedding.Embedder
	splitter *chunker.Splitter
	merger   *outline.Merger
	log      *slog.Logger
}

// New creates a Pipeline using the configured chunk sizes and the default
// merge configuration.
func New(cfg config.Config, emb embedding.Embedder, log *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		embedder: emb,
		splitter: chunker.New(chunker.Config{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
		}),
		merger: outline.NewMerger(outline.DefaultConfig()),
		log:    log,
	}
}

// IndexStats summarizes one indexing run.
type IndexStats struct {
	Documents int
	Nodes     int
	Chunks    int
}

// ChunkBase returns the base path of the chunk index co-located with the
// heading index at base.
func ChunkBase(base string) string { return base + "_chunks" }

// IndexDirectory walks inDir, extracts structure and text from every
// supported document, and writes two indexes under outBase: the heading
// index at outBase and the chunk index at ChunkBase(outBase). Files that
// fail extraction are logged and skipped; the run fails only when no
// document yields any heading node.
func (p *Pipeline) IndexDirectory(ctx context.Context, inDir, outBase string) (IndexStats, error) {
	var (
		nodes  []document.HeadingNode
		chunks []document.Chunk
		stats  IndexStats
	)

	err := filepath.WalkDir(inDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), "~") {
			return nil
		}
		if !extractor.IsSupportedExtension(d.Name()) {
			return nil
		}

		res, err := extractor.Extract(path)
		if err != nil {
			p.log.Warn("extraction failed, skipping", "path", path, "error", err)
			return nil
		}
		stats.Documents++
		if len(res.Nodes) == 0 {
			p.log.Info("no structure found", "path", path)
		}
		nodes = append(nodes, res.Nodes...)

		docID := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		chunks = append(chunks, p.splitter.Split(res.Text, docID, res.Headings())...)
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("walk %s: %w", inDir, err)
	}
	if len(nodes) == 0 {
		return stats, fmt.Errorf("%w in %s", ErrNoDocuments, inDir)
	}
	stats.Nodes = len(nodes)
	stats.Chunks = len(chunks)

	if err := p.buildNodeIndex(ctx, nodes, outBase); err != nil {
		return stats, err
	}
	if err := p.buildChunkIndex(ctx, chunks, ChunkBase(outBase)); err != nil {
		return stats, err
	}
	return stats, nil
}

func (p *Pipeline) buildNodeIndex(ctx context.Context, nodes []document.HeadingNode, base string) error {
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = n.EmbedText()
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed heading nodes: %w", err)
	}

	records := make([]document.NodeRecord, len(nodes))
	for i, n := range nodes {
		records[i] = document.NodeRecord{HeadingNode: n, VectorID: i}
	}

	ix := vectorindex.New[document.NodeRecord](vectorindex.MetricL2)
	if err := ix.Build(vectors, records); err != nil {
		return fmt.Errorf("build heading index: %w", err)
	}
	if err := ix.Save(base); err != nil {
		return fmt.Errorf("save heading index: %w", err)
	}
	p.log.Info("heading index written", "base", base, "nodes", len(nodes))
	return nil
}

func (p *Pipeline) buildChunkIndex(ctx context.Context, chunks []document.Chunk, base string) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	for _, v := range vectors {
		embedding.Normalize(v)
	}

	records := make([]document.ChunkRecord, len(chunks))
	for i, c := range chunks {
		records[i] = document.ChunkRecord{Chunk: c, VectorID: i}
	}

	ix := vectorindex.New[document.ChunkRecord](vectorindex.MetricInnerProduct)
	if err := ix.Build(vectors, records); err != nil {
		return fmt.Errorf("build chunk index: %w", err)
	}
	if err := ix.Save(base); err != nil {
		return fmt.Errorf("save chunk index: %w", err)
	}
	p.log.Info("chunk index written", "base", base, "chunks", len(chunks))
	return nil
}

// Suggest loads the heading index at indexBase, embeds the requirements
// document, and merges the nearest heading nodes into a suggested outline.
// Search fans out to three times topK so deduplication has material to
// collapse before the outline is trimmed back to topK sections.
func (p *Pipeline) Suggest(ctx context.Context, indexBase, requirementsPath string, topK int) (*outline.Outline, error) {
	ix, err := vectorindex.Load[document.NodeRecord](indexBase)
	if err != nil {
		return nil, fmt.Errorf("load heading index: %w", err)
	}

	text, err := loadRequirements(requirementsPath)
	if err != nil {
		return nil, err
	}

	qv, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed requirements: %w", err)
	}
	raw, err := ix.Search(qv, topK*3)
	if err != nil {
		return nil, fmt.Errorf("search heading index: %w", err)
	}

	hits := make([]outline.Hit, len(raw))
	for i, h := range raw {
		hits[i] = outline.Hit{Node: h.Meta, Similarity: h.Score}
	}
	return p.merger.Merge(hits, topK, text), nil
}

// loadRequirements extracts the text of a requirements document. Structured
// formats contribute their heading titles and spans; anything unsupported is
// read verbatim.
func loadRequirements(path string) (string, error) {
	res, err := extractor.Extract(path)
	if errors.Is(err, extractor.ErrUnsupportedFormat) {
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return "", fmt.Errorf("read requirements: %w", rerr)
		}
		if len(strings.TrimSpace(string(data))) == 0 {
			return "", fmt.Errorf("requirements file %s is empty", path)
		}
		return string(data), nil
	}
	if err != nil {
		return "", fmt.Errorf("extract requirements: %w", err)
	}

	if len(res.Nodes) > 0 {
		parts := make([]string, len(res.Nodes))
		for i, n := range res.Nodes {
			parts[i] = n.EmbedText()
		}
		return strings.Join(parts, "\n\n"), nil
	}
	if strings.TrimSpace(res.Text) == "" {
		return "", fmt.Errorf("requirements file %s is empty", path)
	}
	return res.Text, nil
}
