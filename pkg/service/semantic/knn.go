package semantic

import (
	"math"
	"slices"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
)

// matchVectors runs deterministic brute-force top-k retrieval over the
// completed, immutable embedding set. A proper ANN index would be a
// drop-in replacement behind the same top-k semantics.
func matchVectors(targets []Target, vecs [][]float64, cfg model.RunConfig) []model.MatchPair {
	best := make(map[model.PairKey]model.MatchPair)

	for i := range targets {
		for _, n := range topK(vecs, i, cfg.TopK) {
			if n.score < cfg.EmbedThresholdModerate {
				continue
			}
			a, b := targets[i], targets[n.index]
			p := model.MatchPair{
				DocA:   a.Doc,
				IndexA: a.Index,
				DocB:   b.Doc,
				IndexB: b.Index,
				Kind:   types.KindSemantic,
				Cosine: n.score,
			}.Canonical()

			if prev, ok := best[p.Key()]; ok && prev.Cosine >= p.Cosine {
				continue
			}
			p.Tier = types.TierModerate
			if p.Cosine >= cfg.EmbedThresholdStrict {
				p.Tier = types.TierStrict
			}
			best[p.Key()] = p
		}
	}

	pairs := make([]model.MatchPair, 0, len(best))
	for _, p := range best {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, model.ComparePairs)
	return pairs
}

type neighbor struct {
	index int
	score float64
}

// topK returns the k nearest neighbors of vecs[q] by cosine
// similarity, excluding q itself. Ties break on the lower index so
// retrieval is deterministic for fixed inputs.
func topK(vecs [][]float64, q, k int) []neighbor {
	candidates := make([]neighbor, 0, len(vecs)-1)
	for i := range vecs {
		if i == q {
			continue
		}
		candidates = append(candidates, neighbor{index: i, score: cosineSimilarity(vecs[q], vecs[i])})
	}

	slices.SortFunc(candidates, func(a, b neighbor) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return a.index - b.index
		}
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k]
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
