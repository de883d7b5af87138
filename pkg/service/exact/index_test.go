package exact_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/corpus-tools/textreuse/pkg/domain/types"
	"github.com/corpus-tools/textreuse/pkg/service/exact"
	"github.com/corpus-tools/textreuse/pkg/service/segment"
)

func TestIndex(t *testing.T) {
	t.Run("pairs identical normalized sentences across documents", func(t *testing.T) {
		docA := segment.Segment("a.txt", "The cat sat on the mat today. Something else entirely happened here later.", 4)
		docB := segment.Segment("b.txt", "Unrelated opening sentence for this document. The CAT sat on the mat, today!", 4)

		idx := exact.New()
		idx.Add(docA)
		idx.Add(docB)

		pairs := idx.Pairs()
		gt.Array(t, pairs).Length(1)
		gt.Value(t, pairs[0].DocA).Equal("a.txt")
		gt.Value(t, pairs[0].IndexA).Equal(0)
		gt.Value(t, pairs[0].DocB).Equal("b.txt")
		gt.Value(t, pairs[0].IndexB).Equal(1)
		gt.Value(t, pairs[0].Kind).Equal(types.KindExact)
		gt.Value(t, pairs[0].Tier).Equal(types.TierStrict)
		gt.Value(t, pairs[0].Category).Equal(types.CategoryCrossDocument)
	})

	t.Run("flags repeats within one document", func(t *testing.T) {
		doc := segment.Segment("a.txt", "All rights reserved by the publisher. Chapter one begins on this page. All rights reserved by the publisher.", 4)

		idx := exact.New()
		idx.Add(doc)

		pairs := idx.Pairs()
		gt.Array(t, pairs).Length(1)
		gt.Value(t, pairs[0].Category).Equal(types.CategoryWithinDocument)
		gt.Value(t, pairs[0].IndexA).Equal(0)
		gt.Value(t, pairs[0].IndexB).Equal(2)
	})

	t.Run("ignores non-qualifying sentences", func(t *testing.T) {
		docA := segment.Segment("a.txt", "Too short. The quick brown fox jumps over everything.", 4)
		docB := segment.Segment("b.txt", "Too short. The quick brown fox jumps over everything.", 4)

		idx := exact.New()
		idx.Add(docA)
		idx.Add(docB)

		pairs := idx.Pairs()
		gt.Array(t, pairs).Length(1)
		gt.Value(t, pairs[0].IndexA).Equal(1)
		gt.Value(t, pairs[0].IndexB).Equal(1)
	})

	t.Run("emits all pairwise combinations in a class", func(t *testing.T) {
		text := "Every copy carries this exact sentence."
		idx := exact.New()
		idx.Add(segment.Segment("a.txt", text, 4))
		idx.Add(segment.Segment("b.txt", text, 4))
		idx.Add(segment.Segment("c.txt", text, 4))

		pairs := idx.Pairs()
		gt.Array(t, pairs).Length(3)
		gt.Value(t, pairs[0].DocA).Equal("a.txt")
		gt.Value(t, pairs[0].DocB).Equal("b.txt")
		gt.Value(t, pairs[1].DocA).Equal("a.txt")
		gt.Value(t, pairs[1].DocB).Equal("c.txt")
		gt.Value(t, pairs[2].DocA).Equal("b.txt")
		gt.Value(t, pairs[2].DocB).Equal("c.txt")
	})

	t.Run("no pairs for singleton classes", func(t *testing.T) {
		idx := exact.New()
		idx.Add(segment.Segment("a.txt", "A perfectly unique sentence lives here.", 4))
		idx.Add(segment.Segment("b.txt", "A different unique sentence lives there.", 4))
		gt.Array(t, idx.Pairs()).Length(0)
	})
}
