package simhash

import (
	"slices"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
)

// Default banding of the 64-bit fingerprint: 8 bands of 8 bits. Two
// fingerprints are candidates when at least one band value collides.
// Band collision is necessary but not sufficient for low Hamming
// distance, and genuinely close pairs can be missed entirely: an
// accepted recall limitation, not a defect.
const (
	DefaultBands    = 8
	DefaultBandBits = 8
)

type bandKey struct {
	band  int
	value uint64
}

type sentRef struct {
	doc   string
	index int
	sig   uint64
}

// Index buckets sentence fingerprints by LSH band values. Building is
// O(n); candidate generation is proportional to bucket collision size
// rather than O(n^2), assuming reasonable fingerprint diversity.
type Index struct {
	bands    int
	bandBits int
	buckets  map[bandKey][]sentRef
	order    []sentRef
}

// NewIndex creates an LSH index with the default 8x8 banding
func NewIndex() *Index {
	return &Index{
		bands:    DefaultBands,
		bandBits: DefaultBandBits,
		buckets:  make(map[bandKey][]sentRef),
	}
}

// Add registers a sentence fingerprint into every band bucket
func (x *Index) Add(doc string, index int, sig uint64) {
	ref := sentRef{doc: doc, index: index, sig: sig}
	x.order = append(x.order, ref)

	mask := uint64(1)<<uint(x.bandBits) - 1
	for b := 0; b < x.bands; b++ {
		key := bandKey{band: b, value: sig >> uint(b*x.bandBits) & mask}
		x.buckets[key] = append(x.buckets[key], ref)
	}
}

// Pairs generates co-bucketed candidate pairs and verifies each by
// full Hamming distance. A pair is kept when its distance is within
// the moderate threshold; pairs within the strict threshold are
// additionally tiered strict. Within-document pairs are kept and
// flagged by category.
func (x *Index) Pairs(strict, moderate int) []model.MatchPair {
	seen := make(map[model.PairKey]struct{})
	var pairs []model.MatchPair

	for _, refs := range x.buckets {
		if len(refs) < 2 {
			continue
		}
		for i := 0; i < len(refs); i++ {
			for j := i + 1; j < len(refs); j++ {
				a, b := refs[i], refs[j]
				if a.doc == b.doc && a.index == b.index {
					continue
				}
				p := model.MatchPair{
					DocA:   a.doc,
					IndexA: a.index,
					DocB:   b.doc,
					IndexB: b.index,
					Kind:   types.KindNearDuplicate,
				}.Canonical()
				if _, ok := seen[p.Key()]; ok {
					continue
				}

				ham := Hamming(a.sig, b.sig)
				if ham > moderate {
					continue
				}
				seen[p.Key()] = struct{}{}

				p.Hamming = ham
				p.Tier = types.TierModerate
				if ham <= strict {
					p.Tier = types.TierStrict
				}
				pairs = append(pairs, p)
			}
		}
	}

	slices.SortFunc(pairs, model.ComparePairs)
	return pairs
}
