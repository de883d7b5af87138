package interfaces

import (
	"github.com/corpus-tools/textreuse/pkg/domain/model"
)

// ResultRepository defines the interface for published analysis
// results. Implementations must treat a published result as immutable:
// a new run replaces the whole snapshot, it never mutates the previous
// one in place.
type ResultRepository interface {
	// Publish atomically replaces the current result snapshot
	Publish(result *model.AnalysisResult)

	// Current returns the most recently published snapshot, or nil if
	// no run has completed yet. Callers must not modify it.
	Current() *model.AnalysisResult
}
