package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/corpus-tools/textreuse/pkg/cli/config"
	"github.com/corpus-tools/textreuse/pkg/controller/export"
	"github.com/corpus-tools/textreuse/pkg/repository/memory"
	"github.com/corpus-tools/textreuse/pkg/service/semantic"
	"github.com/corpus-tools/textreuse/pkg/usecase"
	"github.com/corpus-tools/textreuse/pkg/utils/logging"
)

func cmdAnalyze() *cli.Command {
	var inputDir string
	var outDir string
	var engineCfg config.Engine
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input-dir",
			Aliases:     []string{"i"},
			Usage:       "Directory of extracted plain-text documents (*.txt)",
			Required:    true,
			Sources:     cli.EnvVars("TEXTREUSE_INPUT_DIR"),
			Destination: &inputDir,
		},
		&cli.StringFlag{
			Name:        "out-dir",
			Aliases:     []string{"o"},
			Usage:       "Directory for result artifacts",
			Value:       "textreuse_out",
			Sources:     cli.EnvVars("TEXTREUSE_OUT_DIR"),
			Destination: &outDir,
		},
	}
	flags = append(flags, engineCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Run the detection pipeline over a document corpus",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			cfg, err := engineCfg.Configure(c)
			if err != nil {
				return goerr.Wrap(err, "configuration rejected")
			}
			logger.Info("Engine configuration", "config", cfg)

			inputs, err := readCorpus(ctx, inputDir)
			if err != nil {
				return err
			}

			ucOpts := []usecase.Option{}
			if cfg.UseEmbeddings {
				llmClient, err := geminiCfg.Configure(ctx)
				if err != nil {
					// Backend setup failure degrades the layer, not the run
					logger.Warn("Embedding backend unavailable, semantic matching will be skipped", "error", err.Error())
				} else if llmClient != nil {
					svc, err := semantic.New(llmClient)
					if err != nil {
						return goerr.Wrap(err, "failed to initialize semantic matcher")
					}
					ucOpts = append(ucOpts, usecase.WithSemantic(svc))
					logger.LogAttrs(ctx, slog.LevelInfo, "Semantic matching enabled", geminiCfg.LogAttrs()...)
				} else {
					logger.Warn("Embeddings requested but no backend configured, semantic matching will be skipped")
				}
			}

			uc := usecase.New(memory.New(), cfg, ucOpts...)
			result, err := uc.Analyze(ctx, inputs)
			if err != nil {
				return goerr.Wrap(err, "analysis run failed")
			}

			if err := export.Write(ctx, outDir, result); err != nil {
				return goerr.Wrap(err, "failed to write artifacts", goerr.V("out_dir", outDir))
			}

			logger.Info("Artifacts written",
				"out_dir", outDir,
				"run_id", result.Summary.RunID,
				"documents", result.Summary.NDocuments,
				"sentences_kept", result.Summary.NSentencesKept,
				"exact_pairs", result.Summary.ExactPairs,
				"simhash_pairs", result.Summary.SimhashModerate,
				"embed_pairs", result.Summary.EmbedModerate,
				"blocks", result.Summary.BlockMatches)
			return nil
		},
	}
}

// readCorpus loads every .txt file in dir as one document. A file that
// cannot be read is skipped with a warning rather than failing the
// whole corpus.
func readCorpus(ctx context.Context, dir string) ([]usecase.DocumentInput, error) {
	pattern := filepath.Join(dir, "*.txt")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list input files", goerr.V("pattern", pattern))
	}
	if len(paths) == 0 {
		return nil, goerr.New("no .txt files found", goerr.V("dir", dir))
	}
	sort.Strings(paths)

	logger := logging.From(ctx)
	inputs := make([]usecase.DocumentInput, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p) // #nosec G304 - paths come from the CLI input dir
		if err != nil {
			logger.Warn("Skipping unreadable document", "path", p, "error", err.Error())
			continue
		}
		inputs = append(inputs, usecase.DocumentInput{
			Name: filepath.Base(p),
			Text: string(data),
		})
	}
	return inputs, nil
}
