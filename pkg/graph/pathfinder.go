package graph

import (
	"context"
	"time"

	"github.com/esolink/backend/pkg/common"
	"github.com/esolink/backend/pkg/logger"
)

// defaultComputeBudget bounds a single path search before the finder
// degrades to BFS.
const defaultComputeBudget = 30 * time.Second

// PathFinder runs bounded path discovery over a Store snapshot.
type PathFinder struct {
	budget time.Duration
}

// PathFinderOption configures a PathFinder.
type PathFinderOption func(*PathFinder)

// WithComputeBudget overrides the per-search compute budget.
func WithComputeBudget(d time.Duration) PathFinderOption {
	return func(f *PathFinder) {
		if d > 0 {
			f.budget = d
		}
	}
}

// NewPathFinder creates a PathFinder with the default 30s compute budget.
func NewPathFinder(opts ...PathFinderOption) *PathFinder {
	f := &PathFinder{budget: defaultComputeBudget}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Discover finds a connection path between two entities within maxDepth
// degrees using the requested algorithm. It returns the path and the
// algorithm that actually produced it: a search that blows its compute
// budget is retried once with BFS before giving up.
//
// A missing endpoint or an exhausted search yields a not-found error;
// maxDepth outside [1,7] a validation error. Both are expected outcomes for
// the caller, not system faults.
func (f *PathFinder) Discover(
	ctx context.Context,
	s *Store,
	sourceID, targetID string,
	maxDepth int,
	algo Algorithm,
) (common.Path, Algorithm, error) {
	if maxDepth < 1 || maxDepth > MaxDepth {
		return common.Path{}, algo, common.NewValidationError("max depth %d outside [1,%d]", maxDepth, MaxDepth)
	}
	src, ok := s.index[sourceID]
	if !ok {
		return common.Path{}, algo, common.NewNotFoundError("source entity %q not in graph", sourceID)
	}
	dst, ok := s.index[targetID]
	if !ok {
		return common.Path{}, algo, common.NewNotFoundError("target entity %q not in graph", targetID)
	}

	nodes, err := f.runBudgeted(ctx, algo, s, src, dst, maxDepth)
	if common.IsTimeout(err) && algo != AlgorithmBFS {
		logger.Warn("[PathFinder] Compute budget exceeded, degrading to bfs",
			"tenant_id", s.tenantID, "algorithm", string(algo))
		algo = AlgorithmBFS
		nodes, err = f.runBudgeted(ctx, algo, s, src, dst, maxDepth)
	}
	if err != nil {
		return common.Path{}, algo, err
	}

	return s.buildPath(nodes), algo, nil
}

func (f *PathFinder) runBudgeted(
	ctx context.Context,
	algo Algorithm,
	s *Store,
	src, dst int64,
	maxDepth int,
) ([]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, f.budget)
	defer cancel()
	return algo.search()(ctx, s, src, dst, maxDepth)
}
