package exact

import (
	"slices"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
)

type occurrence struct {
	doc   string
	index int
}

// Index is an inverted index from normalized sentence text to every
// occurrence across the corpus. Identical normalized text always lands
// in exactly one equivalence class, so this layer has 100% precision
// by construction. O(n) build, O(k^2) pair emission per class.
type Index struct {
	byNorm map[string][]occurrence
}

// New creates an empty exact-match index
func New() *Index {
	return &Index{byNorm: make(map[string][]occurrence)}
}

// Add indexes every qualifying sentence of the document. Documents
// must be added in corpus order to keep pair emission deterministic.
func (x *Index) Add(doc *model.Document) {
	for i := range doc.Sentences {
		s := &doc.Sentences[i]
		if !s.Qualifies {
			continue
		}
		x.byNorm[s.Norm] = append(x.byNorm[s.Norm], occurrence{doc: s.Doc, index: s.Index})
	}
}

// Pairs emits all pairwise combinations within each equivalence class
// of size >= 2 as exact match pairs. Same-document repeats are flagged
// within-document rather than dropped, so boilerplate repeated inside
// one file stays visible.
func (x *Index) Pairs() []model.MatchPair {
	var pairs []model.MatchPair
	for _, occs := range x.byNorm {
		if len(occs) < 2 {
			continue
		}
		for i := 0; i < len(occs); i++ {
			for j := i + 1; j < len(occs); j++ {
				p := model.MatchPair{
					DocA:   occs[i].doc,
					IndexA: occs[i].index,
					DocB:   occs[j].doc,
					IndexB: occs[j].index,
					Kind:   types.KindExact,
					Tier:   types.TierStrict,
				}
				pairs = append(pairs, p.Canonical())
			}
		}
	}
	slices.SortFunc(pairs, model.ComparePairs)
	return pairs
}
