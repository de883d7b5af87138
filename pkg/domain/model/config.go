package model

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
)

// EmbeddingDimension is the dimension of the embedding vector.
// Gemini text-embedding-004 uses 768 dimensions.
const EmbeddingDimension = 768

// Sentinel errors for configuration validation
var ErrInvalidConfig = goerr.New("invalid run configuration")

// RunConfig enumerates every tunable of a single analysis run. It is
// validated eagerly, before any computation starts, and recorded as-is
// in the Summary so every run is self-describing.
type RunConfig struct {
	MinSentenceWords       int     `toml:"min_sentence_words" json:"min_sentence_words"`
	SimNgram               int     `toml:"sim_ngram" json:"sim_ngram"`
	SimHammingStrict       int     `toml:"sim_hamming_strict" json:"sim_hamming_strict"`
	SimHammingModerate     int     `toml:"sim_hamming_moderate" json:"sim_hamming_moderate"`
	UseEmbeddings          bool    `toml:"use_embeddings" json:"use_embeddings"`
	EmbedModel             string  `toml:"embed_model" json:"embed_model"`
	EmbedThresholdStrict   float64 `toml:"embed_threshold_strict" json:"embed_threshold_strict"`
	EmbedThresholdModerate float64 `toml:"embed_threshold_moderate" json:"embed_threshold_moderate"`
	TopK                   int     `toml:"topk" json:"topk"`
	BlockMinRun            int     `toml:"block_min_run" json:"block_min_run"`
}

// DefaultRunConfig returns the documented default configuration.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		MinSentenceWords:       8,
		SimNgram:               3,
		SimHammingStrict:       6,
		SimHammingModerate:     8,
		UseEmbeddings:          false,
		EmbedModel:             "text-embedding-004",
		EmbedThresholdStrict:   0.8,
		EmbedThresholdModerate: 0.7,
		TopK:                   8,
		BlockMinRun:            3,
	}
}

// LogValue renders the resolved configuration for structured logging.
func (c RunConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("min_sentence_words", c.MinSentenceWords),
		slog.Int("sim_ngram", c.SimNgram),
		slog.Int("sim_hamming_strict", c.SimHammingStrict),
		slog.Int("sim_hamming_moderate", c.SimHammingModerate),
		slog.Bool("use_embeddings", c.UseEmbeddings),
		slog.String("embed_model", c.EmbedModel),
		slog.Float64("embed_threshold_strict", c.EmbedThresholdStrict),
		slog.Float64("embed_threshold_moderate", c.EmbedThresholdModerate),
		slog.Int("topk", c.TopK),
		slog.Int("block_min_run", c.BlockMinRun),
	)
}

// Validate rejects degenerate configurations before any computation
// begins.
func (c *RunConfig) Validate() error {
	if c.MinSentenceWords < 1 {
		return goerr.Wrap(ErrInvalidConfig, "min_sentence_words must be >= 1", goerr.V("min_sentence_words", c.MinSentenceWords))
	}
	if c.SimNgram < 1 {
		return goerr.Wrap(ErrInvalidConfig, "sim_ngram must be >= 1", goerr.V("sim_ngram", c.SimNgram))
	}
	if c.SimHammingStrict < 0 || c.SimHammingStrict > 64 {
		return goerr.Wrap(ErrInvalidConfig, "sim_hamming_strict must be within [0, 64]", goerr.V("sim_hamming_strict", c.SimHammingStrict))
	}
	if c.SimHammingModerate < 0 || c.SimHammingModerate > 64 {
		return goerr.Wrap(ErrInvalidConfig, "sim_hamming_moderate must be within [0, 64]", goerr.V("sim_hamming_moderate", c.SimHammingModerate))
	}
	if c.SimHammingStrict > c.SimHammingModerate {
		return goerr.Wrap(ErrInvalidConfig, "sim_hamming_strict must not exceed sim_hamming_moderate",
			goerr.V("sim_hamming_strict", c.SimHammingStrict),
			goerr.V("sim_hamming_moderate", c.SimHammingModerate))
	}
	if c.EmbedThresholdStrict < -1 || c.EmbedThresholdStrict > 1 {
		return goerr.Wrap(ErrInvalidConfig, "embed_threshold_strict must be within [-1, 1]", goerr.V("embed_threshold_strict", c.EmbedThresholdStrict))
	}
	if c.EmbedThresholdModerate < -1 || c.EmbedThresholdModerate > 1 {
		return goerr.Wrap(ErrInvalidConfig, "embed_threshold_moderate must be within [-1, 1]", goerr.V("embed_threshold_moderate", c.EmbedThresholdModerate))
	}
	if c.EmbedThresholdModerate > c.EmbedThresholdStrict {
		return goerr.Wrap(ErrInvalidConfig, "embed_threshold_moderate must not exceed embed_threshold_strict",
			goerr.V("embed_threshold_strict", c.EmbedThresholdStrict),
			goerr.V("embed_threshold_moderate", c.EmbedThresholdModerate))
	}
	if c.UseEmbeddings && c.EmbedModel == "" {
		return goerr.Wrap(ErrInvalidConfig, "embed_model is required when embeddings are enabled")
	}
	if c.TopK < 1 {
		return goerr.Wrap(ErrInvalidConfig, "topk must be >= 1", goerr.V("topk", c.TopK))
	}
	if c.BlockMinRun < 1 {
		return goerr.Wrap(ErrInvalidConfig, "block_min_run must be >= 1", goerr.V("block_min_run", c.BlockMinRun))
	}
	return nil
}
