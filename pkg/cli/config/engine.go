package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
)

// Engine holds the detection engine configuration. Values resolve in
// three layers: documented defaults, then an optional TOML file, then
// any flag explicitly set on the command line.
type Engine struct {
	configPath string

	minSentenceWords       int
	simNgram               int
	simHammingStrict       int
	simHammingModerate     int
	useEmbeddings          bool
	embedModel             string
	embedThresholdStrict   float64
	embedThresholdModerate float64
	topK                   int
	blockMinRun            int
}

// fileConfig mirrors RunConfig with optional fields for TOML overlay
type fileConfig struct {
	MinSentenceWords       *int     `toml:"min_sentence_words"`
	SimNgram               *int     `toml:"sim_ngram"`
	SimHammingStrict       *int     `toml:"sim_hamming_strict"`
	SimHammingModerate     *int     `toml:"sim_hamming_moderate"`
	UseEmbeddings          *bool    `toml:"use_embeddings"`
	EmbedModel             *string  `toml:"embed_model"`
	EmbedThresholdStrict   *float64 `toml:"embed_threshold_strict"`
	EmbedThresholdModerate *float64 `toml:"embed_threshold_moderate"`
	TopK                   *int     `toml:"topk"`
	BlockMinRun            *int     `toml:"block_min_run"`
}

// Flags returns CLI flags for the engine configuration
func (e *Engine) Flags() []cli.Flag {
	defaults := model.DefaultRunConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML config file (flags override file values)",
			Sources:     cli.EnvVars("TEXTREUSE_CONFIG"),
			Destination: &e.configPath,
		},
		&cli.IntFlag{
			Name:        "min-sentence-words",
			Usage:       "Minimum words for a sentence to participate in matching",
			Value:       defaults.MinSentenceWords,
			Sources:     cli.EnvVars("TEXTREUSE_MIN_SENTENCE_WORDS"),
			Destination: &e.minSentenceWords,
		},
		&cli.IntFlag{
			Name:        "sim-ngram",
			Usage:       "Word n-gram size for SimHash fingerprinting",
			Value:       defaults.SimNgram,
			Sources:     cli.EnvVars("TEXTREUSE_SIM_NGRAM"),
			Destination: &e.simNgram,
		},
		&cli.IntFlag{
			Name:        "sim-hamming-strict",
			Usage:       "Strict Hamming distance threshold for near-duplicates",
			Value:       defaults.SimHammingStrict,
			Sources:     cli.EnvVars("TEXTREUSE_SIM_HAMMING_STRICT"),
			Destination: &e.simHammingStrict,
		},
		&cli.IntFlag{
			Name:        "sim-hamming-moderate",
			Usage:       "Moderate Hamming distance threshold for near-duplicates",
			Value:       defaults.SimHammingModerate,
			Sources:     cli.EnvVars("TEXTREUSE_SIM_HAMMING_MODERATE"),
			Destination: &e.simHammingModerate,
		},
		&cli.BoolFlag{
			Name:        "use-embeddings",
			Usage:       "Enable the semantic matching layer",
			Value:       defaults.UseEmbeddings,
			Sources:     cli.EnvVars("TEXTREUSE_USE_EMBEDDINGS"),
			Destination: &e.useEmbeddings,
		},
		&cli.StringFlag{
			Name:        "embed-model",
			Usage:       "Embedding model identifier, recorded in the run summary",
			Value:       defaults.EmbedModel,
			Sources:     cli.EnvVars("TEXTREUSE_EMBED_MODEL"),
			Destination: &e.embedModel,
		},
		&cli.FloatFlag{
			Name:        "embed-threshold-strict",
			Usage:       "Strict cosine similarity threshold for semantic pairs",
			Value:       defaults.EmbedThresholdStrict,
			Sources:     cli.EnvVars("TEXTREUSE_EMBED_THRESHOLD_STRICT"),
			Destination: &e.embedThresholdStrict,
		},
		&cli.FloatFlag{
			Name:        "embed-threshold-moderate",
			Usage:       "Moderate cosine similarity threshold for semantic pairs",
			Value:       defaults.EmbedThresholdModerate,
			Sources:     cli.EnvVars("TEXTREUSE_EMBED_THRESHOLD_MODERATE"),
			Destination: &e.embedThresholdModerate,
		},
		&cli.IntFlag{
			Name:        "topk",
			Usage:       "Nearest neighbors retrieved per sentence in semantic matching",
			Value:       defaults.TopK,
			Sources:     cli.EnvVars("TEXTREUSE_TOPK"),
			Destination: &e.topK,
		},
		&cli.IntFlag{
			Name:        "block-min-run",
			Usage:       "Minimum consecutive matched sentences to form a block",
			Value:       defaults.BlockMinRun,
			Sources:     cli.EnvVars("TEXTREUSE_BLOCK_MIN_RUN"),
			Destination: &e.blockMinRun,
		},
	}
}

// Configure resolves the final run configuration: defaults, then the
// TOML file if given, then explicitly set flags. The result is
// validated before returning, so degenerate configurations never reach
// the pipeline.
func (e *Engine) Configure(c *cli.Command) (model.RunConfig, error) {
	cfg := model.DefaultRunConfig()

	if e.configPath != "" {
		if err := applyFile(&cfg, e.configPath); err != nil {
			return cfg, err
		}
	}

	e.applyFlags(c, &cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFile(cfg *model.RunConfig, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from a CLI argument
	if err != nil {
		if os.IsNotExist(err) {
			return goerr.Wrap(ErrConfigNotFound, "config file missing", goerr.V("path", path))
		}
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if fc.MinSentenceWords != nil {
		cfg.MinSentenceWords = *fc.MinSentenceWords
	}
	if fc.SimNgram != nil {
		cfg.SimNgram = *fc.SimNgram
	}
	if fc.SimHammingStrict != nil {
		cfg.SimHammingStrict = *fc.SimHammingStrict
	}
	if fc.SimHammingModerate != nil {
		cfg.SimHammingModerate = *fc.SimHammingModerate
	}
	if fc.UseEmbeddings != nil {
		cfg.UseEmbeddings = *fc.UseEmbeddings
	}
	if fc.EmbedModel != nil {
		cfg.EmbedModel = *fc.EmbedModel
	}
	if fc.EmbedThresholdStrict != nil {
		cfg.EmbedThresholdStrict = *fc.EmbedThresholdStrict
	}
	if fc.EmbedThresholdModerate != nil {
		cfg.EmbedThresholdModerate = *fc.EmbedThresholdModerate
	}
	if fc.TopK != nil {
		cfg.TopK = *fc.TopK
	}
	if fc.BlockMinRun != nil {
		cfg.BlockMinRun = *fc.BlockMinRun
	}
	return nil
}

// applyFlags overlays only the flags the user explicitly set, so a
// config file is not clobbered by flag defaults.
func (e *Engine) applyFlags(c *cli.Command, cfg *model.RunConfig) {
	if c.IsSet("min-sentence-words") {
		cfg.MinSentenceWords = e.minSentenceWords
	}
	if c.IsSet("sim-ngram") {
		cfg.SimNgram = e.simNgram
	}
	if c.IsSet("sim-hamming-strict") {
		cfg.SimHammingStrict = e.simHammingStrict
	}
	if c.IsSet("sim-hamming-moderate") {
		cfg.SimHammingModerate = e.simHammingModerate
	}
	if c.IsSet("use-embeddings") {
		cfg.UseEmbeddings = e.useEmbeddings
	}
	if c.IsSet("embed-model") {
		cfg.EmbedModel = e.embedModel
	}
	if c.IsSet("embed-threshold-strict") {
		cfg.EmbedThresholdStrict = e.embedThresholdStrict
	}
	if c.IsSet("embed-threshold-moderate") {
		cfg.EmbedThresholdModerate = e.embedThresholdModerate
	}
	if c.IsSet("topk") {
		cfg.TopK = e.topK
	}
	if c.IsSet("block-min-run") {
		cfg.BlockMinRun = e.blockMinRun
	}
}
