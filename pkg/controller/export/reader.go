package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
	"github.com/corpus-tools/textreuse/pkg/utils/safe"
)

// ErrNoArtifacts indicates the directory holds no analysis output
var ErrNoArtifacts = goerr.New("no analysis artifacts found")

// Load reconstructs a result set from a previously written artifact
// directory. Document bodies are not part of the artifacts, so the
// returned result carries no Documents; the pair, block, metric and
// summary records are complete.
func Load(ctx context.Context, dir string) (*model.AnalysisResult, error) {
	summaryPath := filepath.Join(dir, FileSummary)
	data, err := os.ReadFile(summaryPath) // #nosec G304 - dir is a CLI argument
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrNoArtifacts, "summary.json missing", goerr.V("dir", dir))
		}
		return nil, goerr.Wrap(err, "failed to read summary", goerr.V("path", summaryPath))
	}

	result := &model.AnalysisResult{}
	if err := json.Unmarshal(data, &result.Summary); err != nil {
		return nil, goerr.Wrap(err, "failed to parse summary", goerr.V("path", summaryPath))
	}

	cfg := result.Summary.Params

	exactPairs, err := loadPairs(ctx, filepath.Join(dir, FileExactPairs), types.KindExact, "", cfg)
	if err != nil {
		return nil, err
	}
	simPairs, err := loadPairs(ctx, filepath.Join(dir, FileSimhashPairs), types.KindNearDuplicate, "hamming", cfg)
	if err != nil {
		return nil, err
	}
	embedPairs, err := loadPairs(ctx, filepath.Join(dir, FileEmbedPairs), types.KindSemantic, "cosine", cfg)
	if err != nil {
		return nil, err
	}

	result.Pairs = append(result.Pairs, exactPairs...)
	result.Pairs = append(result.Pairs, simPairs...)
	result.Pairs = append(result.Pairs, embedPairs...)

	if result.Blocks, err = loadBlocks(ctx, filepath.Join(dir, FileBlocks)); err != nil {
		return nil, err
	}
	if result.Metrics, err = loadMetrics(ctx, filepath.Join(dir, FileDocMetrics)); err != nil {
		return nil, err
	}
	return result, nil
}

// loadPairs reads one pair table. The tier is recomputed from the
// thresholds recorded in the summary, so strict-only artifact files
// need not be consulted.
func loadPairs(ctx context.Context, path string, kind types.MatchKind, scoreCol string, cfg model.RunConfig) ([]model.MatchPair, error) {
	rows, err := readCSV(ctx, path)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	var pairs []model.MatchPair
	for _, row := range rows[1:] {
		if len(row) < 7 {
			return nil, goerr.New("malformed pair row", goerr.V("path", path), goerr.V("columns", len(row)))
		}
		idxA, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, goerr.Wrap(err, "bad sentA_id", goerr.V("path", path))
		}
		idxB, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, goerr.Wrap(err, "bad sentB_id", goerr.V("path", path))
		}

		p := model.MatchPair{
			DocA: row[0], IndexA: idxA,
			DocB: row[3], IndexB: idxB,
			Kind: kind,
			Tier: types.TierStrict,
		}

		col := 6
		switch scoreCol {
		case "hamming":
			ham, err := strconv.Atoi(row[col])
			if err != nil {
				return nil, goerr.Wrap(err, "bad hamming value", goerr.V("path", path))
			}
			p.Hamming = ham
			if ham > cfg.SimHammingStrict {
				p.Tier = types.TierModerate
			}
			col++
		case "cosine":
			cos, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, goerr.Wrap(err, "bad cosine value", goerr.V("path", path))
			}
			p.Cosine = cos
			if cos < cfg.EmbedThresholdStrict {
				p.Tier = types.TierModerate
			}
			col++
		}

		if len(row) <= col {
			return nil, goerr.New("missing category column", goerr.V("path", path))
		}
		p.Category = types.MatchCategory(row[col])
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func loadBlocks(ctx context.Context, path string) ([]model.Block, error) {
	rows, err := readCSV(ctx, path)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	var blocks []model.Block
	for _, row := range rows[1:] {
		if len(row) < 9 {
			return nil, goerr.New("malformed block row", goerr.V("path", path), goerr.V("columns", len(row)))
		}
		ints := make([]int, 5)
		for i, col := range []int{1, 2, 3, 5, 6} {
			v, err := strconv.Atoi(row[col])
			if err != nil {
				return nil, goerr.Wrap(err, "bad block bound", goerr.V("path", path))
			}
			ints[i] = v
		}
		b := model.Block{
			DocA: row[0], AStart: ints[0], AEnd: ints[1], Length: ints[2],
			DocB: row[4], BStart: ints[3], BEnd: ints[4],
			Category: types.MatchCategory(row[7]),
		}
		for _, k := range strings.Split(row[8], "+") {
			if k != "" {
				b.Kinds = append(b.Kinds, types.MatchKind(k))
			}
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func loadMetrics(ctx context.Context, path string) ([]model.DocMetrics, error) {
	rows, err := readCSV(ctx, path)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	var metrics []model.DocMetrics
	for _, row := range rows[1:] {
		if len(row) < 6 {
			return nil, goerr.New("malformed metrics row", goerr.V("path", path), goerr.V("columns", len(row)))
		}
		total, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, goerr.Wrap(err, "bad total_sentences", goerr.V("path", path))
		}
		matched, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, goerr.Wrap(err, "bad matched_sentences_any", goerr.V("path", path))
		}
		matchedPct, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, goerr.Wrap(err, "bad matched_sentences_pct", goerr.V("path", path))
		}
		inBlock, err := strconv.Atoi(row[4])
		if err != nil {
			return nil, goerr.Wrap(err, "bad in_block_sentences", goerr.V("path", path))
		}
		inBlockPct, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return nil, goerr.Wrap(err, "bad in_block_sentences_pct", goerr.V("path", path))
		}
		metrics = append(metrics, model.DocMetrics{
			Doc:            row[0],
			TotalSentences: total,
			MatchedAny:     matched,
			MatchedAnyPct:  matchedPct,
			InBlock:        inBlock,
			InBlockPct:     inBlockPct,
		})
	}
	return metrics, nil
}

// readCSV returns all rows of an artifact table, or nil when the file
// is absent (e.g. embedding tables for a run without embeddings).
func readCSV(ctx context.Context, path string) ([][]string, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to open artifact", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse artifact", goerr.V("path", path))
	}
	return rows, nil
}
