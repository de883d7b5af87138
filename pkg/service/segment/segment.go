package segment

import (
	"regexp"
	"strings"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
)

// Long lines without terminal punctuation are force-split so a single
// pathological paragraph does not become one giant sentence.
const (
	maxLineTokens   = 80
	forcedChunkSize = 30
)

var (
	lineBreakRe = regexp.MustCompile(`[\r\n]+`)
	terminalRe  = regexp.MustCompile(`(?:[.!?:;])\s+`)
	wordRe      = regexp.MustCompile(`[a-z0-9]+`)
)

// Split breaks extracted plain text into raw sentences. Splitting is
// on sentence-terminal punctuation followed by whitespace; the
// terminator stays with its sentence. Empty input yields no sentences.
func Split(text string) []string {
	t := lineBreakRe.ReplaceAllString(text, " ")

	var parts []string
	start := 0
	for _, loc := range terminalRe.FindAllStringIndex(t, -1) {
		// loc[0]+1 keeps the punctuation mark on the left side
		parts = append(parts, t[start:loc[0]+1])
		start = loc[1]
	}
	parts = append(parts, t[start:])

	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		toks := strings.Fields(p)
		if len(toks) > maxLineTokens {
			for i := 0; i < len(toks); i += forcedChunkSize {
				end := min(i+forcedChunkSize, len(toks))
				out = append(out, strings.Join(toks[i:end], " "))
			}
		} else {
			out = append(out, p)
		}
	}
	return out
}

// Normalize lowercases a sentence, strips punctuation and special
// characters and collapses whitespace, leaving a single-space joined
// stream of word tokens. Two sentences are exact matches iff their
// normalized forms are equal.
func Normalize(s string) string {
	return strings.Join(Tokenize(s), " ")
}

// Tokenize extracts lowercase word tokens ([a-z0-9]+) from a sentence.
func Tokenize(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}

// Segment splits a document's text into sentences, normalizes each and
// marks the ones meeting the minimum word count. Filtered sentences
// keep their index so downstream block merging sees positional gaps.
// Pure: no failure mode beyond empty input yielding zero sentences.
func Segment(docID, text string, minWords int) *model.Document {
	raws := Split(text)
	doc := &model.Document{ID: docID, Sentences: make([]model.Sentence, 0, len(raws))}
	for i, raw := range raws {
		norm := Normalize(raw)
		words := len(Tokenize(norm))
		doc.Sentences = append(doc.Sentences, model.Sentence{
			Doc:       docID,
			Index:     i,
			Raw:       raw,
			Norm:      norm,
			Words:     words,
			Qualifies: words >= minWords,
		})
	}
	return doc
}
