package model

// Sentence is a single segmented sentence within a document. Index is
// zero-based and stable for the lifetime of the ingested document;
// sentences below the minimum word count keep their index so that
// block merging sees the positional gap.
type Sentence struct {
	Doc         string
	Index       int
	Raw         string
	Norm        string
	Words       int
	Qualifies   bool
	Fingerprint uint64
}

// Document is an ingested plain-text document split into ordered
// sentences. Immutable after ingestion.
type Document struct {
	ID        string
	Sentences []Sentence
}

// QualifyingCount returns the number of sentences that passed the
// minimum word count filter.
func (d *Document) QualifyingCount() int {
	n := 0
	for i := range d.Sentences {
		if d.Sentences[i].Qualifies {
			n++
		}
	}
	return n
}
