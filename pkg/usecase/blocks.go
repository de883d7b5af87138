package usecase

import (
	"slices"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
)

type docPair struct {
	docA string
	docB string
}

type coord struct {
	a int
	b int
}

// MergeBlocks coalesces the union of match pairs (any kind) into
// block-level reuse spans. For each document pair, coordinates are
// deduplicated across kinds, sorted by A then B index, and greedily
// scanned for maximal runs where both sides increment by exactly 1.
// Runs of length >= minRun become blocks. O(n log n) for the sort,
// O(n) for the scan; no new comparisons.
func MergeBlocks(pairs []model.MatchPair, minRun int) []model.Block {
	coords := make(map[docPair][]coord)
	kinds := make(map[docPair]map[coord]map[types.MatchKind]struct{})

	for _, p := range pairs {
		dp := docPair{docA: p.DocA, docB: p.DocB}
		c := coord{a: p.IndexA, b: p.IndexB}
		if kinds[dp] == nil {
			kinds[dp] = make(map[coord]map[types.MatchKind]struct{})
		}
		if kinds[dp][c] == nil {
			kinds[dp][c] = make(map[types.MatchKind]struct{})
			coords[dp] = append(coords[dp], c)
		}
		kinds[dp][c][p.Kind] = struct{}{}
	}

	var blocks []model.Block
	for dp, pts := range coords {
		slices.SortFunc(pts, func(x, y coord) int {
			if x.a != y.a {
				return x.a - y.a
			}
			return x.b - y.b
		})

		i := 0
		for i < len(pts) {
			a0, b0 := pts[i].a, pts[i].b
			a1, b1 := a0, b0
			run := []coord{pts[i]}
			j := i + 1
			for j < len(pts) && pts[j].a == a1+1 && pts[j].b == b1+1 {
				a1, b1 = pts[j].a, pts[j].b
				run = append(run, pts[j])
				j++
			}
			if length := a1 - a0 + 1; length >= minRun {
				blocks = append(blocks, model.Block{
					DocA:     dp.docA,
					AStart:   a0,
					AEnd:     a1,
					DocB:     dp.docB,
					BStart:   b0,
					BEnd:     b1,
					Length:   length,
					Category: model.CategoryOf(dp.docA, dp.docB),
					Kinds:    runKinds(kinds[dp], run),
				})
			}
			i = j
		}
	}

	slices.SortFunc(blocks, compareBlocks)
	return blocks
}

func runKinds(byCoord map[coord]map[types.MatchKind]struct{}, run []coord) []types.MatchKind {
	set := make(map[types.MatchKind]struct{})
	for _, c := range run {
		for k := range byCoord[c] {
			set[k] = struct{}{}
		}
	}
	out := make([]types.MatchKind, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func compareBlocks(a, b model.Block) int {
	switch {
	case a.DocA != b.DocA:
		return compareString(a.DocA, b.DocA)
	case a.DocB != b.DocB:
		return compareString(a.DocB, b.DocB)
	case a.AStart != b.AStart:
		return a.AStart - b.AStart
	default:
		return a.BStart - b.BStart
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
