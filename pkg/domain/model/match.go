package model

import (
	"github.com/corpus-tools/textreuse/pkg/domain/types"
)

// MatchPair links two sentences considered equivalent by one of the
// matching layers. Pairs are unordered in meaning but stored in
// canonical order (DocA, IndexA) < (DocB, IndexB) so that (A,B) and
// (B,A) never both appear.
type MatchPair struct {
	DocA     string
	IndexA   int
	DocB     string
	IndexB   int
	Kind     types.MatchKind
	Tier     types.MatchTier
	Category types.MatchCategory

	// Hamming is set for near-duplicate pairs, Cosine for semantic
	// pairs. Exact pairs carry neither.
	Hamming int
	Cosine  float64
}

// PairKey identifies a pair by its sentence coordinates regardless of
// kind, used for cross-layer deduplication.
type PairKey struct {
	DocA   string
	IndexA int
	DocB   string
	IndexB int
}

// Key returns the coordinate key of the pair.
func (p MatchPair) Key() PairKey {
	return PairKey{DocA: p.DocA, IndexA: p.IndexA, DocB: p.DocB, IndexB: p.IndexB}
}

// Canonical returns the pair with its sides ordered lexicographically
// by document ID, then by sentence index, and its Category derived
// from the side documents.
func (p MatchPair) Canonical() MatchPair {
	if p.DocB < p.DocA || (p.DocA == p.DocB && p.IndexB < p.IndexA) {
		p.DocA, p.DocB = p.DocB, p.DocA
		p.IndexA, p.IndexB = p.IndexB, p.IndexA
	}
	p.Category = CategoryOf(p.DocA, p.DocB)
	return p
}

// CategoryOf returns the match category for a document pair.
func CategoryOf(docA, docB string) types.MatchCategory {
	if docA == docB {
		return types.CategoryWithinDocument
	}
	return types.CategoryCrossDocument
}

// ComparePairs orders pairs canonically: by A document, A index, B
// document, B index, then kind. Used to keep all emitted artifacts
// byte-stable across runs.
func ComparePairs(a, b MatchPair) int {
	switch {
	case a.DocA != b.DocA:
		return compareString(a.DocA, b.DocA)
	case a.IndexA != b.IndexA:
		return a.IndexA - b.IndexA
	case a.DocB != b.DocB:
		return compareString(a.DocB, b.DocB)
	case a.IndexB != b.IndexB:
		return a.IndexB - b.IndexB
	default:
		return compareString(string(a.Kind), string(b.Kind))
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
