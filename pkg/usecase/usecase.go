package usecase

import (
	"sync"
	"time"

	"github.com/corpus-tools/textreuse/pkg/domain/interfaces"
	"github.com/corpus-tools/textreuse/pkg/domain/model"
	"github.com/corpus-tools/textreuse/pkg/domain/types"
	"github.com/corpus-tools/textreuse/pkg/service/semantic"
	"github.com/m-mizutani/goerr/v2"
)

// UseCases wires the detection pipeline to the published-result
// repository and the optional semantic matching service.
type UseCases struct {
	repo     interfaces.ResultRepository
	semantic semantic.Service
	cfg      model.RunConfig
	gate     runGate
}

// Option is a functional option for UseCases configuration
type Option func(*UseCases)

// WithSemantic attaches a semantic matching service. Without it, runs
// with embeddings enabled degrade to the exact and near-duplicate
// layers and annotate the summary.
func WithSemantic(s semantic.Service) Option {
	return func(uc *UseCases) {
		uc.semantic = s
	}
}

// New creates the use case layer for the given run configuration
func New(repo interfaces.ResultRepository, cfg model.RunConfig, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		cfg:  cfg,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Snapshot returns the currently published result set
func (uc *UseCases) Snapshot() (*model.AnalysisResult, error) {
	result := uc.repo.Current()
	if result == nil {
		return nil, goerr.Wrap(ErrNoResults, "no published snapshot")
	}
	return result, nil
}

// State reports the externally visible engine state
func (uc *UseCases) State() types.RunState {
	return uc.gate.state()
}

// runGate enforces the single-writer discipline: at most one run may
// be active at a time, since concurrent runs would race on the
// published output set.
type runGate struct {
	mu      sync.Mutex
	current types.RunState
	lastRun time.Time
}

func (g *runGate) tryStart() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == types.RunStateRunning {
		return goerr.Wrap(ErrRunInProgress, "analysis rejected")
	}
	g.current = types.RunStateRunning
	return nil
}

func (g *runGate) finish(ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ok {
		g.current = types.RunStateComplete
		g.lastRun = time.Now().UTC()
		return
	}
	g.current = types.RunStateIdle
}

func (g *runGate) state() types.RunState {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == "" {
		return types.RunStateIdle
	}
	return g.current
}
