package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// DefaultLocalDim is the vector dimension of the local embedder.
const DefaultLocalDim = 384

// LocalEmbedder produces hashed term-frequency vectors: each token is hashed
// into a fixed-dimension bucket and the counts are L2-normalized. It is
// deterministic and needs no network or model files.
type LocalEmbedder struct {
	dim       int
	tokenRe   *regexp.Regexp
	stopwords map[string]struct{}
}

// NewLocalEmbedder creates a local embedder with the given dimension
// (DefaultLocalDim if dim is not positive).
func NewLocalEmbedder(dim int) *LocalEmbedder {
	if dim <= 0 {
		dim = DefaultLocalDim
	}
	return &LocalEmbedder{
		dim:       dim,
		tokenRe:   regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\d+`),
		stopwords: localStopwords(),
	}
}

// Embed never fails; text with no usable tokens maps to the zero vector.
func (e *LocalEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for _, tok := range e.tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%uint32(e.dim)]++
	}
	Normalize(vec)
	return vec, nil
}

// EmbedBatch embeds each text in order, checking for cancellation between items.
func (e *LocalEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBatchFailed, err)
		}
		v, _ := e.Embed(ctx, text)
		vectors[i] = v
	}
	return vectors, nil
}

// Dimension returns the configured vector dimension.
func (e *LocalEmbedder) Dimension() int { return e.dim }

// ModelInfo identifies this embedder and its dimension.
func (e *LocalEmbedder) ModelInfo() string { return fmt.Sprintf("local-hash-%d", e.dim) }

func (e *LocalEmbedder) tokenize(text string) []string {
	raw := e.tokenRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func localStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "for", "to",
		"of", "in", "on", "at", "by", "with", "as", "is", "are", "was",
		"were", "be", "been", "it", "this", "that", "these", "those",
		"from", "into", "about", "through", "can", "will", "not",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
