package semantic

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
)

// embedBatchSize bounds how many sentences are sent to the embedding
// backend per request.
const embedBatchSize = 64

// Target is one sentence submitted for semantic matching.
type Target struct {
	Doc   string
	Index int
	Text  string
}

// Service embeds sentences and retrieves semantically similar pairs.
// The retrieval contract only requires consistency and determinism for
// fixed inputs; this implementation uses brute-force cosine top-k.
type Service interface {
	Match(ctx context.Context, targets []Target, cfg model.RunConfig) ([]model.MatchPair, error)
}

type client struct {
	llmClient gollem.LLMClient
}

// New creates a semantic matching service backed by the given LLM
// client.
func New(llmClient gollem.LLMClient) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &client{llmClient: llmClient}, nil
}

// Match embeds every target sentence and emits a semantic match pair
// for each top-k neighbor with cosine similarity at or above the
// moderate threshold; pairs at or above the strict threshold are
// tiered strict. When the same pair surfaces from both sides the
// maximum observed cosine wins.
func (c *client) Match(ctx context.Context, targets []Target, cfg model.RunConfig) ([]model.MatchPair, error) {
	if len(targets) < 2 {
		return nil, nil
	}

	vecs, err := c.embedAll(ctx, targets)
	if err != nil {
		return nil, err
	}

	return matchVectors(targets, vecs, cfg), nil
}

// embedAll generates embeddings for all targets in fixed-size batches,
// preserving input order.
func (c *client) embedAll(ctx context.Context, targets []Target) ([][]float64, error) {
	vecs := make([][]float64, 0, len(targets))
	for start := 0; start < len(targets); start += embedBatchSize {
		end := min(start+embedBatchSize, len(targets))
		texts := make([]string, 0, end-start)
		for _, t := range targets[start:end] {
			texts = append(texts, t.Text)
		}

		batch, err := c.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, texts)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate embeddings",
				goerr.V("batch_start", start),
				goerr.V("batch_size", len(texts)))
		}
		if len(batch) != len(texts) {
			return nil, goerr.New("embedding count mismatch",
				goerr.V("want", len(texts)),
				goerr.V("got", len(batch)))
		}
		vecs = append(vecs, batch...)
	}
	return vecs, nil
}
