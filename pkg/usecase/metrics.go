package usecase

import (
	"math"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
)

// ComputeMetrics derives per-document counters from the pair and block
// sets. Purely derived: recomputing from the same sets is idempotent.
func ComputeMetrics(docs []*model.Document, pairs []model.MatchPair, blocks []model.Block) []model.DocMetrics {
	matched := make(map[string]map[int]struct{})
	inBlock := make(map[string]map[int]struct{})

	mark := func(m map[string]map[int]struct{}, doc string, index int) {
		if m[doc] == nil {
			m[doc] = make(map[int]struct{})
		}
		m[doc][index] = struct{}{}
	}

	for _, p := range pairs {
		mark(matched, p.DocA, p.IndexA)
		mark(matched, p.DocB, p.IndexB)
	}

	for _, b := range blocks {
		for i := b.AStart; i <= b.AEnd; i++ {
			mark(inBlock, b.DocA, i)
		}
		for i := b.BStart; i <= b.BEnd; i++ {
			mark(inBlock, b.DocB, i)
		}
	}

	metrics := make([]model.DocMetrics, 0, len(docs))
	for _, d := range docs {
		total := d.QualifyingCount()
		m := model.DocMetrics{
			Doc:            d.ID,
			TotalSentences: total,
			MatchedAny:     len(matched[d.ID]),
			InBlock:        len(inBlock[d.ID]),
		}
		if total > 0 {
			m.MatchedAnyPct = pct(m.MatchedAny, total)
			m.InBlockPct = pct(m.InBlock, total)
		}
		metrics = append(metrics, m)
	}
	return metrics
}

// pct returns 100*n/total rounded to two decimals, keeping emitted
// artifacts byte-stable.
func pct(n, total int) float64 {
	return math.Round(100.0*float64(n)/float64(total)*100) / 100
}
