package graph

import (
	"context"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// dijkstraSearch finds the path minimizing cumulative inverse-strength cost,
// so a longer chain of strong relationships can beat a short chain of weak
// ones. A cost-optimal path longer than maxDepth edges counts as no path
// within the depth bound.
func dijkstraSearch(ctx context.Context, s *Store, src, dst int64, maxDepth int) ([]int64, error) {
	if err := checkBudget(ctx); err != nil {
		return nil, err
	}

	shortest := path.DijkstraFrom(simple.Node(src), inverseCost{s.wg})
	nodes, _ := shortest.To(dst)
	if len(nodes) == 0 {
		return nil, errNoPath(maxDepth)
	}
	if len(nodes)-1 > maxDepth {
		return nil, errNoPath(maxDepth)
	}

	if err := checkBudget(ctx); err != nil {
		return nil, err
	}

	out := make([]int64, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID()
	}
	return out, nil
}
