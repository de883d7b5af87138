package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
)

func TestCanonical(t *testing.T) {
	t.Run("orders sides by document then index", func(t *testing.T) {
		p := model.MatchPair{DocA: "z.txt", IndexA: 1, DocB: "a.txt", IndexB: 9}.Canonical()
		gt.Value(t, p.DocA).Equal("a.txt")
		gt.Value(t, p.IndexA).Equal(9)
		gt.Value(t, p.DocB).Equal("z.txt")
		gt.Value(t, p.IndexB).Equal(1)
		gt.Value(t, p.Category).Equal(types.CategoryCrossDocument)
	})

	t.Run("same document orders by index", func(t *testing.T) {
		p := model.MatchPair{DocA: "a.txt", IndexA: 7, DocB: "a.txt", IndexB: 2}.Canonical()
		gt.Value(t, p.IndexA).Equal(2)
		gt.Value(t, p.IndexB).Equal(7)
		gt.Value(t, p.Category).Equal(types.CategoryWithinDocument)
	})

	t.Run("already canonical pairs are unchanged", func(t *testing.T) {
		p := model.MatchPair{DocA: "a.txt", IndexA: 0, DocB: "b.txt", IndexB: 3}
		c := p.Canonical()
		gt.Value(t, c.DocA).Equal("a.txt")
		gt.Value(t, c.IndexA).Equal(0)
	})

	t.Run("mirror pairs share one key", func(t *testing.T) {
		p := model.MatchPair{DocA: "b.txt", IndexA: 4, DocB: "a.txt", IndexB: 1}.Canonical()
		q := model.MatchPair{DocA: "a.txt", IndexA: 1, DocB: "b.txt", IndexB: 4}.Canonical()
		gt.Value(t, p.Key()).Equal(q.Key())
	})
}

func TestComparePairs(t *testing.T) {
	a := model.MatchPair{DocA: "a.txt", IndexA: 0, DocB: "b.txt", IndexB: 0, Kind: types.KindExact}
	b := model.MatchPair{DocA: "a.txt", IndexA: 0, DocB: "b.txt", IndexB: 0, Kind: types.KindSemantic}
	c := model.MatchPair{DocA: "a.txt", IndexA: 1, DocB: "b.txt", IndexB: 0, Kind: types.KindExact}

	gt.Bool(t, model.ComparePairs(a, b) < 0).True()
	gt.Bool(t, model.ComparePairs(a, c) < 0).True()
	gt.Value(t, model.ComparePairs(a, a)).Equal(0)
	gt.Bool(t, model.ComparePairs(c, a) > 0).True()
}

func TestRunConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg := model.DefaultRunConfig()
		gt.NoError(t, cfg.Validate())
	})

	cases := []struct {
		name   string
		mutate func(*model.RunConfig)
	}{
		{"zero min sentence words", func(c *model.RunConfig) { c.MinSentenceWords = 0 }},
		{"zero ngram", func(c *model.RunConfig) { c.SimNgram = 0 }},
		{"hamming above 64", func(c *model.RunConfig) { c.SimHammingModerate = 65 }},
		{"strict hamming looser than moderate", func(c *model.RunConfig) { c.SimHammingStrict = 10; c.SimHammingModerate = 8 }},
		{"cosine out of range", func(c *model.RunConfig) { c.EmbedThresholdStrict = 1.5 }},
		{"moderate cosine above strict", func(c *model.RunConfig) { c.EmbedThresholdModerate = 0.9; c.EmbedThresholdStrict = 0.8 }},
		{"embeddings without a model", func(c *model.RunConfig) { c.UseEmbeddings = true; c.EmbedModel = "" }},
		{"zero topk", func(c *model.RunConfig) { c.TopK = 0 }},
		{"zero block run", func(c *model.RunConfig) { c.BlockMinRun = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := model.DefaultRunConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			gt.Error(t, err)
			gt.Bool(t, errors.Is(err, model.ErrInvalidConfig)).True()
		})
	}
}
