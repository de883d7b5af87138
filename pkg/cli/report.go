package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/corpus-tools/textreuse/pkg/controller/export"
	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
	"github.com/corpus-tools/textreuse/pkg/usecase"
)

func cmdReport() *cli.Command {
	var artifactDir string
	var doc string

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Render a human-readable report from analysis artifacts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "artifact-dir",
				Aliases:     []string{"d"},
				Usage:       "Directory holding analysis artifacts",
				Value:       "textreuse_out",
				Sources:     cli.EnvVars("TEXTREUSE_ARTIFACT_DIR"),
				Destination: &artifactDir,
			},
			&cli.StringFlag{
				Name:        "doc",
				Usage:       "Show detail for a single document instead of the corpus overview",
				Destination: &doc,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			result, err := export.Load(ctx, artifactDir)
			if err != nil {
				return goerr.Wrap(err, "failed to load artifacts", goerr.V("dir", artifactDir))
			}

			if doc != "" {
				return printDocReport(result, doc)
			}
			printCorpusReport(result)
			return nil
		},
	}
}

var (
	titleColor  = color.New(color.FgCyan, color.Bold)
	headerColor = color.New(color.FgWhite, color.Bold)
	warnColor   = color.New(color.FgYellow)
)

func printCorpusReport(result *model.AnalysisResult) {
	s := result.Summary

	titleColor.Println("Run summary")
	fmt.Printf("  run:          %s (%s)\n", s.RunID, s.FinishedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  documents:    %d (%d sentences, %d kept)\n", s.NDocuments, s.NSentencesTotal, s.NSentencesKept)
	fmt.Printf("  exact pairs:  %d\n", s.ExactPairs)
	fmt.Printf("  near-dup:     %d strict / %d moderate\n", s.SimhashStrict, s.SimhashModerate)
	if s.SemanticSkipped {
		warnColor.Printf("  semantic:     skipped (%s)\n", s.SemanticSkipNote)
	} else {
		fmt.Printf("  semantic:     %d strict / %d moderate\n", s.EmbedStrict, s.EmbedModerate)
	}
	fmt.Printf("  blocks:       %d\n", s.BlockMatches)

	for _, skipped := range s.SkippedDocs {
		warnColor.Printf("  skipped doc:  %s (%s)\n", skipped.Doc, skipped.Reason)
	}

	fmt.Println()
	titleColor.Println("Per-document metrics")
	headerColor.Printf("  %-40s %8s %12s %10s\n", "document", "sents", "matched", "in-block")
	for _, m := range result.Metrics {
		fmt.Printf("  %-40s %8d %5d (%5.1f%%) %4d (%5.1f%%)\n",
			m.Doc, m.TotalSentences, m.MatchedAny, m.MatchedAnyPct, m.InBlock, m.InBlockPct)
	}

	matrix := usecase.SimilarityMatrix(result)
	if len(matrix) == 0 {
		return
	}

	fmt.Println()
	titleColor.Println("Similarity matrix")
	docs := make([]string, 0, len(matrix))
	for d := range matrix {
		docs = append(docs, d)
	}
	sort.Strings(docs)
	for _, a := range docs {
		row := matrix[a]
		others := make([]string, 0, len(row))
		for b := range row {
			others = append(others, b)
		}
		sort.Strings(others)
		fmt.Printf("  %s\n", a)
		for _, b := range others {
			fmt.Printf("    %-40s %6.1f%%\n", b, row[b])
		}
	}
}

func printDocReport(result *model.AnalysisResult, doc string) error {
	detail, err := usecase.DocumentDetail(result, doc)
	if err != nil {
		return err
	}
	rels, err := usecase.Relationships(result, doc)
	if err != nil {
		return err
	}

	titleColor.Printf("Document: %s\n", doc)
	fmt.Printf("  matched sentence indices: %s\n", joinInts(detail.DuplicateSentences))

	if len(rels) > 0 {
		fmt.Println()
		titleColor.Println("Related documents")
		headerColor.Printf("  %-40s %6s %8s %9s %7s %9s\n",
			"document", "exact", "neardup", "semantic", "total", "overlap")
		for _, r := range rels {
			fmt.Printf("  %-40s %6d %8d %9d %7d %8.1f%%\n",
				r.Doc, r.ExactMatches, r.NearDupMatches, r.SemanticMatches, r.TotalMatches, r.OverlapPct)
		}
	}

	if len(detail.Blocks) > 0 {
		fmt.Println()
		titleColor.Println("Blocks")
		for _, b := range detail.Blocks {
			fmt.Printf("  [%d..%d] <-> %s [%d..%d] (%d sentences, %s)\n",
				b.Start, b.End, b.OtherDoc, b.OtherStart, b.OtherEnd, b.Length, b.Category)
		}
	}

	if len(detail.Pairs) > 0 {
		fmt.Println()
		titleColor.Println("Sentence pairs")
		for _, p := range detail.Pairs {
			score := ""
			switch p.Kind {
			case types.KindNearDuplicate:
				score = fmt.Sprintf(" hamming=%d", p.Hamming)
			case types.KindSemantic:
				score = fmt.Sprintf(" cosine=%.4f", p.Cosine)
			}
			fmt.Printf("  #%d <-> %s #%d  %s/%s%s\n",
				p.Index, p.OtherDoc, p.OtherIndex, p.Kind, p.Tier, score)
		}
	}

	return nil
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return "(none)"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, ", ")
}
