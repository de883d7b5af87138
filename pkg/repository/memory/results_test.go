package memory_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
	"github.com/corpus-tools/textreuse/pkg/repository/memory"
)

func TestStore(t *testing.T) {
	t.Run("empty store has no snapshot", func(t *testing.T) {
		store := memory.New()
		gt.Bool(t, store.Current() == nil).True()
	})

	t.Run("publish replaces the snapshot wholesale", func(t *testing.T) {
		store := memory.New()

		first := &model.AnalysisResult{Summary: model.Summary{RunID: types.NewRunID()}}
		store.Publish(first)
		gt.Value(t, store.Current().Summary.RunID).Equal(first.Summary.RunID)

		second := &model.AnalysisResult{Summary: model.Summary{RunID: types.NewRunID()}}
		store.Publish(second)
		gt.Value(t, store.Current().Summary.RunID).Equal(second.Summary.RunID)
	})
}
