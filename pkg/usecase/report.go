package usecase

import (
	"slices"

	"github.com/m-mizutani/goerr/v2"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
)

// PairView is a match pair oriented from the perspective of one
// document: Index belongs to that document, the Other* fields to its
// counterpart.
type PairView struct {
	Kind       types.MatchKind
	Tier       types.MatchTier
	Category   types.MatchCategory
	Index      int
	OtherDoc   string
	OtherIndex int
	Hamming    int
	Cosine     float64
}

// BlockView is a block oriented from the perspective of one document.
type BlockView struct {
	Start      int
	End        int
	OtherDoc   string
	OtherStart int
	OtherEnd   int
	Length     int
	Category   types.MatchCategory
}

// DocDetail gathers every match touching a single document.
type DocDetail struct {
	Doc                string
	Pairs              []PairView
	Blocks             []BlockView
	DuplicateSentences []int
}

// DocumentDetail returns all pairs and blocks involving the given
// document, with sides oriented toward it, plus the sorted set of
// sentence indices participating in any match or block.
func DocumentDetail(result *model.AnalysisResult, doc string) (*DocDetail, error) {
	if !slices.Contains(result.Summary.Docs, doc) {
		return nil, goerr.Wrap(ErrDocumentNotFound, "unknown document", goerr.V("doc", doc))
	}

	detail := &DocDetail{Doc: doc}
	dup := make(map[int]struct{})

	for _, p := range result.Pairs {
		if p.DocA == doc {
			detail.Pairs = append(detail.Pairs, PairView{
				Kind: p.Kind, Tier: p.Tier, Category: p.Category,
				Index: p.IndexA, OtherDoc: p.DocB, OtherIndex: p.IndexB,
				Hamming: p.Hamming, Cosine: p.Cosine,
			})
			dup[p.IndexA] = struct{}{}
		}
		if p.DocB == doc {
			detail.Pairs = append(detail.Pairs, PairView{
				Kind: p.Kind, Tier: p.Tier, Category: p.Category,
				Index: p.IndexB, OtherDoc: p.DocA, OtherIndex: p.IndexA,
				Hamming: p.Hamming, Cosine: p.Cosine,
			})
			dup[p.IndexB] = struct{}{}
		}
	}

	for _, b := range result.Blocks {
		if b.DocA == doc {
			detail.Blocks = append(detail.Blocks, BlockView{
				Start: b.AStart, End: b.AEnd,
				OtherDoc: b.DocB, OtherStart: b.BStart, OtherEnd: b.BEnd,
				Length: b.Length, Category: b.Category,
			})
			for i := b.AStart; i <= b.AEnd; i++ {
				dup[i] = struct{}{}
			}
		}
		if b.DocB == doc {
			detail.Blocks = append(detail.Blocks, BlockView{
				Start: b.BStart, End: b.BEnd,
				OtherDoc: b.DocA, OtherStart: b.AStart, OtherEnd: b.AEnd,
				Length: b.Length, Category: b.Category,
			})
			for i := b.BStart; i <= b.BEnd; i++ {
				dup[i] = struct{}{}
			}
		}
	}

	detail.DuplicateSentences = make([]int, 0, len(dup))
	for i := range dup {
		detail.DuplicateSentences = append(detail.DuplicateSentences, i)
	}
	slices.Sort(detail.DuplicateSentences)

	slices.SortFunc(detail.Pairs, func(a, b PairView) int {
		if a.Index != b.Index {
			return a.Index - b.Index
		}
		if a.OtherDoc != b.OtherDoc {
			return compareString(a.OtherDoc, b.OtherDoc)
		}
		return a.OtherIndex - b.OtherIndex
	})

	return detail, nil
}

// Relationship summarizes how strongly one document overlaps another.
type Relationship struct {
	Doc             string
	ExactMatches    int
	NearDupMatches  int
	SemanticMatches int
	TotalMatches    int
	OverlapPct      float64
}

// Relationships lists every document sharing at least one match with
// the given document, with per-kind counts and the overlap percentage
// relative to the document's own qualifying sentence count, sorted by
// total matches descending.
func Relationships(result *model.AnalysisResult, doc string) ([]Relationship, error) {
	if !slices.Contains(result.Summary.Docs, doc) {
		return nil, goerr.Wrap(ErrDocumentNotFound, "unknown document", goerr.V("doc", doc))
	}

	byDoc := make(map[string]*Relationship)
	count := func(other string, kind types.MatchKind) {
		rel, ok := byDoc[other]
		if !ok {
			rel = &Relationship{Doc: other}
			byDoc[other] = rel
		}
		switch kind {
		case types.KindExact:
			rel.ExactMatches++
		case types.KindNearDuplicate:
			rel.NearDupMatches++
		case types.KindSemantic:
			rel.SemanticMatches++
		}
	}

	for _, p := range result.Pairs {
		if p.DocA == doc && p.DocB != doc {
			count(p.DocB, p.Kind)
		}
		if p.DocB == doc && p.DocA != doc {
			count(p.DocA, p.Kind)
		}
	}

	total := 1
	for _, m := range result.Metrics {
		if m.Doc == doc && m.TotalSentences > 0 {
			total = m.TotalSentences
		}
	}

	rels := make([]Relationship, 0, len(byDoc))
	for _, rel := range byDoc {
		rel.TotalMatches = rel.ExactMatches + rel.NearDupMatches + rel.SemanticMatches
		rel.OverlapPct = pct(rel.TotalMatches, total)
		rels = append(rels, *rel)
	}
	slices.SortFunc(rels, func(a, b Relationship) int {
		if a.TotalMatches != b.TotalMatches {
			return b.TotalMatches - a.TotalMatches
		}
		return compareString(a.Doc, b.Doc)
	})
	return rels, nil
}

// SimilarityMatrix builds a document-to-document score map: match
// counts normalized by the average qualifying sentence count of the
// two documents, as a percentage.
func SimilarityMatrix(result *model.AnalysisResult) map[string]map[string]float64 {
	counts := make(map[string]map[string]int)
	add := func(a, b string) {
		if counts[a] == nil {
			counts[a] = make(map[string]int)
		}
		counts[a][b]++
	}

	for _, p := range result.Pairs {
		if p.DocA == p.DocB {
			continue
		}
		add(p.DocA, p.DocB)
		add(p.DocB, p.DocA)
	}

	totals := make(map[string]int, len(result.Metrics))
	for _, m := range result.Metrics {
		totals[m.Doc] = m.TotalSentences
	}

	matrix := make(map[string]map[string]float64, len(counts))
	for docA, row := range counts {
		matrix[docA] = make(map[string]float64, len(row))
		for docB, n := range row {
			avg := float64(totals[docA]+totals[docB]) / 2
			if avg > 0 {
				matrix[docA][docB] = float64(n) / avg * 100
			}
		}
	}
	return matrix
}
