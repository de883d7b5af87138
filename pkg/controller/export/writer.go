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

// Artifact file names, matching the canonical result record layout.
const (
	FileExactPairs     = "exact_sentence_pairs.csv"
	FileSimhashPairs   = "simhash_sentence_pairs.csv"
	FileSimhashStrict  = "simhash_sentence_pairs_strict.csv"
	FileEmbedPairs     = "embed_sentence_pairs.csv"
	FileEmbedStrict    = "embed_sentence_pairs_strict.csv"
	FileBlocks         = "block_matches.csv"
	FileDocMetrics     = "doc_metrics.csv"
	FileSummary        = "summary.json"
)

// rawTextLimit bounds the quoted sentence text in pair artifacts.
const rawTextLimit = 240

var (
	pairHeader    = []string{"docA", "sentA_id", "textA", "docB", "sentB_id", "textB"}
	blockHeader   = []string{"docA", "A_start", "A_end", "len_sent", "docB", "B_start", "B_end", "category", "kinds"}
	metricsHeader = []string{"doc", "total_sentences", "matched_sentences_any", "matched_sentences_pct", "in_block_sentences", "in_block_sentences_pct"}
)

// Write dumps a complete result set into dir as CSV tables plus a
// summary.json. Rows follow the canonical pair and block ordering, so
// re-running an unchanged corpus yields byte-identical artifacts.
func Write(ctx context.Context, dir string, result *model.AnalysisResult) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}

	byKind := splitPairs(result.Pairs)

	if err := writePairs(ctx, filepath.Join(dir, FileExactPairs), result, byKind[types.KindExact], ""); err != nil {
		return err
	}

	simAll := byKind[types.KindNearDuplicate]
	if err := writePairs(ctx, filepath.Join(dir, FileSimhashPairs), result, simAll, "hamming"); err != nil {
		return err
	}
	if err := writePairs(ctx, filepath.Join(dir, FileSimhashStrict), result, tierOnly(simAll, types.TierStrict), "hamming"); err != nil {
		return err
	}

	embedAll := byKind[types.KindSemantic]
	if err := writePairs(ctx, filepath.Join(dir, FileEmbedPairs), result, embedAll, "cosine"); err != nil {
		return err
	}
	if err := writePairs(ctx, filepath.Join(dir, FileEmbedStrict), result, tierOnly(embedAll, types.TierStrict), "cosine"); err != nil {
		return err
	}

	if err := writeBlocks(ctx, filepath.Join(dir, FileBlocks), result.Blocks); err != nil {
		return err
	}
	if err := writeMetrics(ctx, filepath.Join(dir, FileDocMetrics), result.Metrics); err != nil {
		return err
	}
	return writeSummary(filepath.Join(dir, FileSummary), result.Summary)
}

func splitPairs(pairs []model.MatchPair) map[types.MatchKind][]model.MatchPair {
	out := make(map[types.MatchKind][]model.MatchPair)
	for _, p := range pairs {
		out[p.Kind] = append(out[p.Kind], p)
	}
	return out
}

func tierOnly(pairs []model.MatchPair, tier types.MatchTier) []model.MatchPair {
	var out []model.MatchPair
	for _, p := range pairs {
		if p.Tier == tier {
			out = append(out, p)
		}
	}
	return out
}

// writePairs writes one pair table. scoreCol selects the extra score
// column: "hamming", "cosine", or empty for exact pairs.
func writePairs(ctx context.Context, path string, result *model.AnalysisResult, pairs []model.MatchPair, scoreCol string) error {
	f, err := os.Create(path) // #nosec G304 - path is under the CLI-provided output dir
	if err != nil {
		return goerr.Wrap(err, "failed to create artifact", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	w := csv.NewWriter(f)
	header := append([]string{}, pairHeader...)
	if scoreCol != "" {
		header = append(header, scoreCol)
	}
	header = append(header, "category")
	if err := w.Write(header); err != nil {
		return goerr.Wrap(err, "failed to write header", goerr.V("path", path))
	}

	for _, p := range pairs {
		row := []string{
			p.DocA, strconv.Itoa(p.IndexA), sentenceText(result, p.DocA, p.IndexA),
			p.DocB, strconv.Itoa(p.IndexB), sentenceText(result, p.DocB, p.IndexB),
		}
		switch scoreCol {
		case "hamming":
			row = append(row, strconv.Itoa(p.Hamming))
		case "cosine":
			row = append(row, strconv.FormatFloat(p.Cosine, 'f', 4, 64))
		}
		row = append(row, string(p.Category))
		if err := w.Write(row); err != nil {
			return goerr.Wrap(err, "failed to write pair row", goerr.V("path", path))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush artifact", goerr.V("path", path))
	}
	return nil
}

func writeBlocks(ctx context.Context, path string, blocks []model.Block) error {
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return goerr.Wrap(err, "failed to create artifact", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	w := csv.NewWriter(f)
	if err := w.Write(blockHeader); err != nil {
		return goerr.Wrap(err, "failed to write header", goerr.V("path", path))
	}
	for _, b := range blocks {
		kinds := make([]string, len(b.Kinds))
		for i, k := range b.Kinds {
			kinds[i] = string(k)
		}
		row := []string{
			b.DocA, strconv.Itoa(b.AStart), strconv.Itoa(b.AEnd), strconv.Itoa(b.Length),
			b.DocB, strconv.Itoa(b.BStart), strconv.Itoa(b.BEnd),
			string(b.Category), strings.Join(kinds, "+"),
		}
		if err := w.Write(row); err != nil {
			return goerr.Wrap(err, "failed to write block row", goerr.V("path", path))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush artifact", goerr.V("path", path))
	}
	return nil
}

func writeMetrics(ctx context.Context, path string, metrics []model.DocMetrics) error {
	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return goerr.Wrap(err, "failed to create artifact", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	w := csv.NewWriter(f)
	if err := w.Write(metricsHeader); err != nil {
		return goerr.Wrap(err, "failed to write header", goerr.V("path", path))
	}
	for _, m := range metrics {
		row := []string{
			m.Doc,
			strconv.Itoa(m.TotalSentences),
			strconv.Itoa(m.MatchedAny),
			strconv.FormatFloat(m.MatchedAnyPct, 'f', 2, 64),
			strconv.Itoa(m.InBlock),
			strconv.FormatFloat(m.InBlockPct, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return goerr.Wrap(err, "failed to write metrics row", goerr.V("path", path))
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush artifact", goerr.V("path", path))
	}
	return nil
}

func writeSummary(path string, summary model.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to marshal summary")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return goerr.Wrap(err, "failed to write summary", goerr.V("path", path))
	}
	return nil
}

// sentenceText looks up the raw text of a sentence, truncated for the
// artifact tables. Empty when the result carries no document bodies
// (e.g. a result reloaded from artifacts).
func sentenceText(result *model.AnalysisResult, docID string, index int) string {
	doc := result.Document(docID)
	if doc == nil || index < 0 || index >= len(doc.Sentences) {
		return ""
	}
	return truncate(doc.Sentences[index].Raw, rawTextLimit)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
