package model

import "github.com/corpus-tools/textreuse/pkg/domain/types"

// Block is a maximal run of consecutively indexed match pairs on both
// sides, representing a reused passage rather than an isolated
// sentence. Length is always >= the configured minimum run length.
type Block struct {
	DocA     string
	AStart   int
	AEnd     int
	DocB     string
	BStart   int
	BEnd     int
	Length   int
	Category types.MatchCategory
	// Kinds lists the distinct match kinds that contributed pairs to
	// this run, sorted for stable output.
	Kinds []types.MatchKind
}

// Covers reports whether the block includes the given sentence index
// on the side belonging to doc. Both sides are checked for
// within-document blocks.
func (b Block) Covers(doc string, index int) bool {
	if b.DocA == doc && index >= b.AStart && index <= b.AEnd {
		return true
	}
	if b.DocB == doc && index >= b.BStart && index <= b.BEnd {
		return true
	}
	return false
}
