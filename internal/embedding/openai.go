package embedding

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// maxBatchSize caps how many inputs go into one embeddings API call.
const maxBatchSize = 100

// OpenAIEmbedder calls the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIEmbedder creates a remote embedder. model defaults to
// text-embedding-3-small when empty.
func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	dim := 1536
	if model == string(openai.LargeEmbedding3) {
		dim = 3072
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		model:  model,
		dim:    dim,
	}, nil
}

// Embed returns the embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	return resp.Data[0].Embedding, nil
}

// EmbedBatch embeds texts in sequential API calls of at most maxBatchSize
// inputs. Result order within and across batches matches the input order.
// Any batch failure aborts the whole call with no partial results;
// cancellation is checked before each batch is issued, and a dispatched
// batch runs to completion.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	batches := (len(texts) + maxBatchSize - 1) / maxBatchSize

	for start := 0; start < len(texts); start += maxBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBatchFailed, err)
		}
		end := min(start+maxBatchSize, len(texts))
		batch := texts[start:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(e.model),
			Input: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (batch %d/%d): %v", ErrBatchFailed, start/maxBatchSize+1, batches, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("%w (batch %d/%d): got %d embeddings for %d inputs",
				ErrBatchFailed, start/maxBatchSize+1, batches, len(resp.Data), len(batch))
		}
		for _, item := range resp.Data {
			vectors = append(vectors, item.Embedding)
		}
	}
	return vectors, nil
}

// Dimension returns the model's vector dimension.
func (e *OpenAIEmbedder) Dimension() int { return e.dim }

// ModelInfo identifies the remote model.
func (e *OpenAIEmbedder) ModelInfo() string { return "openai-" + e.model }
