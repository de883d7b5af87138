package usecase

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
	"github.com/corpus-tools/textreuse/pkg/service/exact"
	"github.com/corpus-tools/textreuse/pkg/service/segment"
	"github.com/corpus-tools/textreuse/pkg/service/semantic"
	"github.com/corpus-tools/textreuse/pkg/service/simhash"
	"github.com/corpus-tools/textreuse/pkg/utils/logging"
)

// DocumentInput is one already-extracted plain-text document. Binary
// format conversion happens outside this engine.
type DocumentInput struct {
	Name string
	Text string
}

// Analyze executes one full detection run: segmentation, the three
// matching layers, block merging and metrics aggregation. The result
// is computed into a fresh, isolated set and published atomically only
// after the whole run succeeds; a failed run leaves the previously
// published snapshot untouched. At most one run may be active at a
// time.
func (uc *UseCases) Analyze(ctx context.Context, inputs []DocumentInput) (*model.AnalysisResult, error) {
	if err := uc.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := uc.gate.tryStart(); err != nil {
		return nil, err
	}
	ok := false
	defer func() { uc.gate.finish(ok) }()

	logger := logging.From(ctx)
	startedAt := time.Now().UTC()

	docs, skipped, err := uc.ingest(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if len(docs) < 2 {
		return nil, goerr.Wrap(ErrTooFewDocuments, "not enough usable documents",
			goerr.V("supplied", len(inputs)),
			goerr.V("usable", len(docs)))
	}

	total, kept := 0, 0
	for _, d := range docs {
		total += len(d.Sentences)
		kept += d.QualifyingCount()
	}
	logger.Info("Corpus ingested",
		"documents", len(docs),
		"skipped", len(skipped),
		"sentences_kept", kept)

	// Exact layer first: cheapest, needs no tuning.
	exactIdx := exact.New()
	for _, d := range docs {
		exactIdx.Add(d)
	}
	exactPairs := exactIdx.Pairs()

	// Near-duplicate layer: LSH candidates verified by Hamming distance.
	lsh := simhash.NewIndex()
	for _, d := range docs {
		for i := range d.Sentences {
			s := &d.Sentences[i]
			if s.Qualifies {
				lsh.Add(s.Doc, s.Index, s.Fingerprint)
			}
		}
	}
	simPairs := lsh.Pairs(uc.cfg.SimHammingStrict, uc.cfg.SimHammingModerate)

	embedPairs, skipNote := uc.runSemantic(ctx, docs)

	logger.Info("Matching layers complete",
		"exact_pairs", len(exactPairs),
		"simhash_pairs", len(simPairs),
		"embed_pairs", len(embedPairs),
		"semantic_skipped", skipNote != "")

	all := make([]model.MatchPair, 0, len(exactPairs)+len(simPairs)+len(embedPairs))
	all = append(all, exactPairs...)
	all = append(all, simPairs...)
	all = append(all, embedPairs...)
	slices.SortFunc(all, model.ComparePairs)

	blocks := MergeBlocks(all, uc.cfg.BlockMinRun)
	metrics := ComputeMetrics(docs, all, blocks)

	docNames := make([]string, len(docs))
	for i, d := range docs {
		docNames[i] = d.ID
	}

	result := &model.AnalysisResult{
		Documents: docs,
		Pairs:     all,
		Blocks:    blocks,
		Metrics:   metrics,
		Summary: model.Summary{
			RunID:            types.NewRunID(),
			StartedAt:        startedAt,
			FinishedAt:       time.Now().UTC(),
			NDocuments:       len(docs),
			NSentencesTotal:  total,
			NSentencesKept:   kept,
			ExactPairs:       len(exactPairs),
			SimhashStrict:    countTier(simPairs, types.TierStrict),
			SimhashModerate:  len(simPairs),
			EmbedStrict:      countTier(embedPairs, types.TierStrict),
			EmbedModerate:    len(embedPairs),
			BlockMatches:     len(blocks),
			SemanticSkipped:  skipNote != "",
			SemanticSkipNote: skipNote,
			SkippedDocs:      skipped,
			Params:           uc.cfg,
			Docs:             docNames,
		},
	}

	uc.repo.Publish(result)
	ok = true

	logger.Info("Analysis run published",
		"run_id", result.Summary.RunID,
		"blocks", len(blocks),
		"duration", result.Summary.FinishedAt.Sub(startedAt).String())

	return result, nil
}

// ingest segments and fingerprints every document in parallel.
// Segmentation and fingerprinting are embarrassingly parallel per
// document; each worker writes only its own slot. Documents that yield
// zero qualifying sentences are skipped and recorded, not fatal.
func (uc *UseCases) ingest(ctx context.Context, inputs []DocumentInput) ([]*model.Document, []model.SkippedDoc, error) {
	sorted := make([]DocumentInput, len(inputs))
	copy(sorted, inputs)
	slices.SortFunc(sorted, func(a, b DocumentInput) int {
		return compareString(a.Name, b.Name)
	})

	names := make(map[string]struct{}, len(sorted))
	for _, in := range sorted {
		if _, exists := names[in.Name]; exists {
			return nil, nil, goerr.Wrap(ErrDuplicateDocument, "document names must be unique", goerr.V("name", in.Name))
		}
		names[in.Name] = struct{}{}
	}

	slots := make([]*model.Document, len(sorted))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, in := range sorted {
		eg.Go(func() error {
			doc := segment.Segment(in.Name, in.Text, uc.cfg.MinSentenceWords)
			for j := range doc.Sentences {
				s := &doc.Sentences[j]
				if s.Qualifies {
					s.Fingerprint = simhash.Fingerprint(s.Norm, uc.cfg.SimNgram)
				}
			}
			slots[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	var docs []*model.Document
	var skipped []model.SkippedDoc
	for _, doc := range slots {
		if doc.QualifyingCount() == 0 {
			skipped = append(skipped, model.SkippedDoc{
				Doc:    doc.ID,
				Reason: "no qualifying sentences after filtering",
			})
			continue
		}
		docs = append(docs, doc)
	}
	return docs, skipped, nil
}

// runSemantic executes the optional embedding layer. Any failure here
// degrades the run to exact and near-duplicate coverage with a summary
// annotation; it never fails the run.
func (uc *UseCases) runSemantic(ctx context.Context, docs []*model.Document) ([]model.MatchPair, string) {
	if !uc.cfg.UseEmbeddings {
		return nil, ""
	}
	if uc.semantic == nil {
		return nil, "embedding backend not configured"
	}

	var targets []semantic.Target
	for _, d := range docs {
		for i := range d.Sentences {
			s := &d.Sentences[i]
			if s.Qualifies {
				targets = append(targets, semantic.Target{Doc: s.Doc, Index: s.Index, Text: s.Norm})
			}
		}
	}

	pairs, err := uc.semantic.Match(ctx, targets, uc.cfg)
	if err != nil {
		logging.From(ctx).Warn("Semantic matching skipped", "error", err.Error())
		return nil, "embedding backend unavailable: " + err.Error()
	}
	return pairs, ""
}

func countTier(pairs []model.MatchPair, tier types.MatchTier) int {
	n := 0
	for _, p := range pairs {
		if p.Tier == tier {
			n++
		}
	}
	return n
}
