package types

import "github.com/m-mizutani/goerr/v2"

// MatchKind identifies which matching layer produced a pair.
type MatchKind string

const (
	KindExact         MatchKind = "exact"
	KindNearDuplicate MatchKind = "near_duplicate"
	KindSemantic      MatchKind = "semantic"
)

// Validate checks if the MatchKind is one of the known kinds
func (k MatchKind) Validate() error {
	switch k {
	case KindExact, KindNearDuplicate, KindSemantic:
		return nil
	}
	return goerr.New("unknown match kind", goerr.V("kind", string(k)))
}

// MatchTier records which threshold tier a pair satisfies. Exact pairs
// are always strict; near-duplicate and semantic pairs are strict when
// they pass the tighter threshold and moderate otherwise.
type MatchTier string

const (
	TierStrict   MatchTier = "strict"
	TierModerate MatchTier = "moderate"
)

// Validate checks if the MatchTier is one of the known tiers
func (t MatchTier) Validate() error {
	switch t {
	case TierStrict, TierModerate:
		return nil
	}
	return goerr.New("unknown match tier", goerr.V("tier", string(t)))
}

// MatchCategory distinguishes reuse across documents from repetition
// inside a single document (e.g. boilerplate repeated within one file).
type MatchCategory string

const (
	CategoryCrossDocument  MatchCategory = "cross-document"
	CategoryWithinDocument MatchCategory = "within-document"
)

// Validate checks if the MatchCategory is one of the known categories
func (c MatchCategory) Validate() error {
	switch c {
	case CategoryCrossDocument, CategoryWithinDocument:
		return nil
	}
	return goerr.New("unknown match category", goerr.V("category", string(c)))
}
