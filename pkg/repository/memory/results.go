package memory

import (
	"sync"

	"github.com/corpus-tools/textreuse/pkg/domain/model"
)

// Store keeps the latest published analysis result in memory. The
// snapshot is handed out by reference and invalidated wholesale when a
// new run publishes; it is never mutated after Publish.
type Store struct {
	mu      sync.RWMutex
	current *model.AnalysisResult
}

// New creates an empty result store
func New() *Store {
	return &Store{}
}

// Publish atomically replaces the current result snapshot
func (s *Store) Publish(result *model.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = result
}

// Current returns the most recently published snapshot, or nil
func (s *Store) Current() *model.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
