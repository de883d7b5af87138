package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
	"github.com/corpus-tools/textreuse/pkg/service/segment"
	"github.com/corpus-tools/textreuse/pkg/usecase"
)

func TestComputeMetrics(t *testing.T) {
	docA := segment.Segment("a.txt",
		"The first sentence goes right here. The second sentence goes right here. The third sentence goes right here.", 4)
	docB := segment.Segment("b.txt",
		"The first sentence goes right here. Something completely different happens in this one.", 4)
	docs := []*model.Document{docA, docB}

	t.Run("counts distinct matched sentences per document", func(t *testing.T) {
		pairs := []model.MatchPair{
			pair("a.txt", 0, "b.txt", 0, types.KindExact),
			pair("a.txt", 0, "b.txt", 0, types.KindNearDuplicate),
			pair("a.txt", 1, "b.txt", 0, types.KindNearDuplicate),
		}

		metrics := usecase.ComputeMetrics(docs, pairs, nil)
		gt.Array(t, metrics).Length(2)

		gt.Value(t, metrics[0].Doc).Equal("a.txt")
		gt.Value(t, metrics[0].TotalSentences).Equal(3)
		gt.Value(t, metrics[0].MatchedAny).Equal(2)
		gt.Value(t, metrics[0].MatchedAnyPct).Equal(66.67)

		gt.Value(t, metrics[1].Doc).Equal("b.txt")
		gt.Value(t, metrics[1].MatchedAny).Equal(1)
		gt.Value(t, metrics[1].MatchedAnyPct).Equal(50.0)
	})

	t.Run("counts block coverage from block spans", func(t *testing.T) {
		blocks := []model.Block{{
			DocA: "a.txt", AStart: 0, AEnd: 2,
			DocB: "b.txt", BStart: 0, BEnd: 2,
			Length: 3, Category: types.CategoryCrossDocument,
		}}

		metrics := usecase.ComputeMetrics(docs, nil, blocks)
		gt.Value(t, metrics[0].InBlock).Equal(3)
		gt.Value(t, metrics[0].InBlockPct).Equal(100.0)
		gt.Value(t, metrics[0].MatchedAny).Equal(0)
	})

	t.Run("no matches yields zero counters", func(t *testing.T) {
		metrics := usecase.ComputeMetrics(docs, nil, nil)
		for _, m := range metrics {
			gt.Value(t, m.MatchedAny).Equal(0)
			gt.Value(t, m.MatchedAnyPct).Equal(0.0)
			gt.Value(t, m.InBlock).Equal(0)
		}
	})
}
