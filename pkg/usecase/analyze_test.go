package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
	"github.com/corpus-tools/textreuse/pkg/repository/memory"
	"github.com/corpus-tools/textreuse/pkg/service/semantic"
	"github.com/corpus-tools/textreuse/pkg/usecase"
)

// stubSemantic is a canned semantic matching service for pipeline tests
type stubSemantic struct {
	pairs []model.MatchPair
	err   error
	calls int
}

func (s *stubSemantic) Match(ctx context.Context, targets []semantic.Target, cfg model.RunConfig) ([]model.MatchPair, error) {
	s.calls++
	return s.pairs, s.err
}

func testConfig() model.RunConfig {
	cfg := model.DefaultRunConfig()
	cfg.MinSentenceWords = 4
	return cfg
}

// Three documents: a and b share a three-sentence run (a[0..2] ~ b[1..3]),
// c is unrelated. The shared sentences are verbatim, so they surface
// from both the exact and the near-duplicate layer.
func sharedRunInputs() []usecase.DocumentInput {
	shared := "The budget committee met on Monday morning. " +
		"Every member voted to approve the proposal. " +
		"The decision takes effect next quarter."
	return []usecase.DocumentInput{
		{Name: "a.txt", Text: shared + " Our closing remarks differed from theirs."},
		{Name: "b.txt", Text: "This report opens with an original sentence. " + shared},
		{Name: "c.txt", Text: "Cooking pasta requires salted boiling water. Fresh herbs improve nearly every sauce."},
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("detects exact reuse and merges blocks", func(t *testing.T) {
		uc := usecase.New(memory.New(), testConfig())
		result, err := uc.Analyze(ctx, sharedRunInputs())
		gt.NoError(t, err).Required()

		s := result.Summary
		gt.Value(t, s.NDocuments).Equal(3)
		gt.Value(t, s.ExactPairs).Equal(3)
		// verbatim sentences also collide in every LSH band at distance 0
		gt.Value(t, s.SimhashStrict).Equal(3)
		gt.Value(t, s.SimhashModerate).Equal(3)
		gt.Value(t, s.BlockMatches).Equal(1)
		gt.Bool(t, s.SemanticSkipped).False()

		b := result.Blocks[0]
		gt.Value(t, b.DocA).Equal("a.txt")
		gt.Value(t, b.AStart).Equal(0)
		gt.Value(t, b.AEnd).Equal(2)
		gt.Value(t, b.DocB).Equal("b.txt")
		gt.Value(t, b.BStart).Equal(1)
		gt.Value(t, b.BEnd).Equal(3)
		gt.Value(t, b.Length).Equal(3)

		for _, p := range result.Pairs {
			gt.NoError(t, p.Kind.Validate())
			gt.Value(t, p.Category).Equal(types.CategoryCrossDocument)
		}

		for _, m := range result.Metrics {
			if m.Doc == "c.txt" {
				gt.Value(t, m.MatchedAny).Equal(0)
			}
		}
	})

	t.Run("two-document corpus with one shared sentence", func(t *testing.T) {
		uc := usecase.New(memory.New(), testConfig())
		result, err := uc.Analyze(ctx, []usecase.DocumentInput{
			{Name: "a.txt", Text: "The cat sat on the mat and purred softly. Dogs bark loudly at night."},
			{Name: "b.txt", Text: "The cat sat on the mat and purred softly. Dogs bark quietly at night."},
		})
		gt.NoError(t, err).Required()

		gt.Value(t, result.Summary.ExactPairs).Equal(1)
		exact := result.Pairs[0]
		gt.Value(t, exact.Kind).Equal(types.KindExact)
		gt.Value(t, exact.IndexA).Equal(0)
		gt.Value(t, exact.IndexB).Equal(0)

		// an isolated pair never reaches the default minimum run
		gt.Value(t, result.Summary.BlockMatches).Equal(0)
	})

	t.Run("minimum run of one turns every match into a block", func(t *testing.T) {
		cfg := testConfig()
		cfg.BlockMinRun = 1
		uc := usecase.New(memory.New(), cfg)
		result, err := uc.Analyze(ctx, []usecase.DocumentInput{
			{Name: "a.txt", Text: "The cat sat on the mat and purred softly. Dogs bark loudly at night."},
			{Name: "b.txt", Text: "The cat sat on the mat and purred softly. Dogs bark quietly at night."},
		})
		gt.NoError(t, err).Required()

		found := false
		for _, b := range result.Blocks {
			if b.AStart == 0 && b.BStart == 0 && b.Length == 1 {
				found = true
			}
		}
		gt.Bool(t, found).True()
	})

	t.Run("single-word change in a long sentence is a near-duplicate", func(t *testing.T) {
		body := "The annual budget committee convened in the main hall to review " +
			"every departmental spending request submitted during the previous " +
			"quarter and voted after a long discussion to approve the revised " +
			"allocation plan for the upcoming fiscal year on Friday"
		uc := usecase.New(memory.New(), testConfig())
		result, err := uc.Analyze(ctx, []usecase.DocumentInput{
			{Name: "a.txt", Text: body + " afternoon."},
			{Name: "b.txt", Text: body + " evening."},
		})
		gt.NoError(t, err).Required()

		gt.Value(t, result.Summary.ExactPairs).Equal(0)
		gt.Value(t, result.Summary.SimhashModerate).Equal(1)

		p := result.Pairs[0]
		gt.Value(t, p.Kind).Equal(types.KindNearDuplicate)
		gt.Bool(t, p.Hamming <= testConfig().SimHammingModerate).True()
	})

	t.Run("publishes the result atomically", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, testConfig())

		_, err := uc.Snapshot()
		gt.Bool(t, errors.Is(err, usecase.ErrNoResults)).True()

		result, err := uc.Analyze(ctx, sharedRunInputs())
		gt.NoError(t, err).Required()

		snap, err := uc.Snapshot()
		gt.NoError(t, err).Required()
		gt.Value(t, snap.Summary.RunID).Equal(result.Summary.RunID)
		gt.Value(t, uc.State()).Equal(types.RunStateComplete)
	})

	t.Run("failed run keeps the previous snapshot", func(t *testing.T) {
		repo := memory.New()
		uc := usecase.New(repo, testConfig())

		first, err := uc.Analyze(ctx, sharedRunInputs())
		gt.NoError(t, err).Required()

		_, err = uc.Analyze(ctx, sharedRunInputs()[:1])
		gt.Bool(t, errors.Is(err, usecase.ErrTooFewDocuments)).True()

		snap, err := uc.Snapshot()
		gt.NoError(t, err).Required()
		gt.Value(t, snap.Summary.RunID).Equal(first.Summary.RunID)
	})

	t.Run("reruns produce identical pair and block sets", func(t *testing.T) {
		uc := usecase.New(memory.New(), testConfig())

		first, err := uc.Analyze(ctx, sharedRunInputs())
		gt.NoError(t, err).Required()
		second, err := uc.Analyze(ctx, sharedRunInputs())
		gt.NoError(t, err).Required()

		gt.Value(t, second.Pairs).Equal(first.Pairs)
		gt.Value(t, second.Blocks).Equal(first.Blocks)
		gt.Value(t, second.Metrics).Equal(first.Metrics)
		gt.Value(t, second.Summary.RunID).NotEqual(first.Summary.RunID)
	})

	t.Run("rejects duplicate document names", func(t *testing.T) {
		uc := usecase.New(memory.New(), testConfig())
		_, err := uc.Analyze(ctx, []usecase.DocumentInput{
			{Name: "a.txt", Text: "Some text goes in this file."},
			{Name: "a.txt", Text: "Different text, same file name."},
		})
		gt.Bool(t, errors.Is(err, usecase.ErrDuplicateDocument)).True()
	})

	t.Run("skips documents with no qualifying sentences", func(t *testing.T) {
		inputs := append(sharedRunInputs(), usecase.DocumentInput{Name: "stub.txt", Text: "Tiny. Words. Only."})
		uc := usecase.New(memory.New(), testConfig())

		result, err := uc.Analyze(ctx, inputs)
		gt.NoError(t, err).Required()
		gt.Value(t, result.Summary.NDocuments).Equal(3)
		gt.Array(t, result.Summary.SkippedDocs).Length(1)
		gt.Value(t, result.Summary.SkippedDocs[0].Doc).Equal("stub.txt")
	})

	t.Run("fails when fewer than two usable documents remain", func(t *testing.T) {
		uc := usecase.New(memory.New(), testConfig())
		_, err := uc.Analyze(ctx, []usecase.DocumentInput{
			{Name: "a.txt", Text: "The only real document with enough words."},
			{Name: "b.txt", Text: "Tiny."},
		})
		gt.Bool(t, errors.Is(err, usecase.ErrTooFewDocuments)).True()
	})

	t.Run("rejects invalid configuration before starting", func(t *testing.T) {
		cfg := testConfig()
		cfg.BlockMinRun = 0
		uc := usecase.New(memory.New(), cfg)
		_, err := uc.Analyze(ctx, sharedRunInputs())
		gt.Bool(t, errors.Is(err, model.ErrInvalidConfig)).True()
	})
}

func TestAnalyzeSemantic(t *testing.T) {
	ctx := context.Background()

	t.Run("semantic layer is gated by configuration", func(t *testing.T) {
		stub := &stubSemantic{}
		cfg := testConfig()
		uc := usecase.New(memory.New(), cfg, usecase.WithSemantic(stub))

		result, err := uc.Analyze(ctx, sharedRunInputs())
		gt.NoError(t, err).Required()
		gt.Value(t, stub.calls).Equal(0)
		gt.Bool(t, result.Summary.SemanticSkipped).False()
		gt.Value(t, result.Summary.EmbedModerate).Equal(0)
	})

	t.Run("enabled embeddings without a backend annotate the summary", func(t *testing.T) {
		cfg := testConfig()
		cfg.UseEmbeddings = true
		uc := usecase.New(memory.New(), cfg)

		result, err := uc.Analyze(ctx, sharedRunInputs())
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Summary.SemanticSkipped).True()
		gt.String(t, result.Summary.SemanticSkipNote).Contains("not configured")
	})

	t.Run("backend failure degrades the run instead of failing it", func(t *testing.T) {
		stub := &stubSemantic{err: goerr.New("backend down")}
		cfg := testConfig()
		cfg.UseEmbeddings = true
		uc := usecase.New(memory.New(), cfg, usecase.WithSemantic(stub))

		result, err := uc.Analyze(ctx, sharedRunInputs())
		gt.NoError(t, err).Required()
		gt.Value(t, stub.calls).Equal(1)
		gt.Bool(t, result.Summary.SemanticSkipped).True()
		gt.Value(t, result.Summary.ExactPairs).Equal(3)
	})

	t.Run("semantic pairs join the combined result", func(t *testing.T) {
		semPair := pair("a.txt", 3, "c.txt", 0, types.KindSemantic)
		semPair.Tier = types.TierStrict
		semPair.Cosine = 0.91
		stub := &stubSemantic{pairs: []model.MatchPair{semPair}}

		cfg := testConfig()
		cfg.UseEmbeddings = true
		uc := usecase.New(memory.New(), cfg, usecase.WithSemantic(stub))

		result, err := uc.Analyze(ctx, sharedRunInputs())
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Summary.SemanticSkipped).False()
		gt.Value(t, result.Summary.EmbedStrict).Equal(1)
		gt.Value(t, result.Summary.EmbedModerate).Equal(1)

		found := false
		for _, p := range result.Pairs {
			if p.Kind == types.KindSemantic {
				found = true
				gt.Value(t, p.Cosine).Equal(0.91)
			}
		}
		gt.Bool(t, found).True()
	})
}
