package model

import (
	"time"

	"github.com/corpus-tools/textreuse/pkg/domain/types"
)

// DocMetrics holds per-document counters derived from the pair and
// block sets of a run. Purely derived: recomputing from the same sets
// yields identical values.
type DocMetrics struct {
	Doc            string  `json:"doc"`
	TotalSentences int     `json:"total_sentences"`
	MatchedAny     int     `json:"matched_sentences_any"`
	MatchedAnyPct  float64 `json:"matched_sentences_pct"`
	InBlock        int     `json:"in_block_sentences"`
	InBlockPct     float64 `json:"in_block_sentences_pct"`
}

// SkippedDoc records a document excluded from a run, for auditability.
type SkippedDoc struct {
	Doc    string `json:"doc"`
	Reason string `json:"reason"`
}

// Summary is the run-level audit record: corpus-wide totals plus the
// exact configuration used, making every run reproducible from its
// output alone.
type Summary struct {
	RunID            types.RunID  `json:"run_id"`
	StartedAt        time.Time    `json:"started_at"`
	FinishedAt       time.Time    `json:"finished_at"`
	NDocuments       int          `json:"n_documents"`
	NSentencesTotal  int          `json:"n_sentences_total"`
	NSentencesKept   int          `json:"n_sentences_kept"`
	ExactPairs       int          `json:"exact_pairs"`
	SimhashStrict    int          `json:"simhash_pairs_strict"`
	SimhashModerate  int          `json:"simhash_pairs_moderate"`
	EmbedStrict      int          `json:"embed_pairs_strict"`
	EmbedModerate    int          `json:"embed_pairs_moderate"`
	BlockMatches     int          `json:"block_matches"`
	SemanticSkipped  bool         `json:"semantic_skipped"`
	SemanticSkipNote string       `json:"semantic_skip_note,omitempty"`
	SkippedDocs      []SkippedDoc `json:"skipped_docs,omitempty"`
	Params           RunConfig    `json:"params"`
	Docs             []string     `json:"docs"`
}

// AnalysisResult is the complete, immutable output of one run. A new
// run publishes a fresh result that supersedes the previous one
// wholesale; nothing is patched in place.
type AnalysisResult struct {
	Documents []*Document
	Pairs     []MatchPair
	Blocks    []Block
	Metrics   []DocMetrics
	Summary   Summary
}

// Document returns the ingested document by ID, or nil.
func (r *AnalysisResult) Document(id string) *Document {
	for _, d := range r.Documents {
		if d.ID == id {
			return d
		}
	}
	return nil
}
