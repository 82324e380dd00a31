package graph

import (
	"context"

	"github.com/esolink/backend/pkg/common"
)

// Algorithm selects a path-search strategy. The set is closed: values are
// obtained through the constants or ParseAlgorithm, never from free-form
// strings, so an unsupported name fails at construction time.
type Algorithm string

const (
	// AlgorithmBFS is the default: unweighted shortest hop count, ties
	// broken by adjacency insertion order.
	AlgorithmBFS Algorithm = "bfs"
	// AlgorithmDFS returns the first simple path found within the depth
	// bound, not necessarily the shortest.
	AlgorithmDFS Algorithm = "dfs"
	// AlgorithmDijkstra minimizes cumulative inverse-strength cost, so
	// stronger relationships are preferred over fewer hops.
	AlgorithmDijkstra Algorithm = "dijkstra"
	// AlgorithmLandmark prunes breadth-first search with precomputed
	// distances from high-centrality landmark entities. Falls back to BFS
	// when the graph is too small to carry landmarks.
	AlgorithmLandmark Algorithm = "landmark"
)

// ParseAlgorithm resolves a request-supplied algorithm name. The empty
// string selects BFS; anything outside the closed set is a validation error.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "":
		return AlgorithmBFS, nil
	case AlgorithmBFS, AlgorithmDFS, AlgorithmDijkstra, AlgorithmLandmark:
		return Algorithm(name), nil
	default:
		return "", common.NewValidationError("unsupported path algorithm %q", name)
	}
}

type searchFunc func(ctx context.Context, s *Store, src, dst int64, maxDepth int) ([]int64, error)

func (a Algorithm) search() searchFunc {
	switch a {
	case AlgorithmDFS:
		return dfsSearch
	case AlgorithmDijkstra:
		return dijkstraSearch
	case AlgorithmLandmark:
		return landmarkSearch
	default:
		return bfsSearch
	}
}

// checkBudget converts context expiry into the engine's timeout error.
func checkBudget(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return common.NewTimeoutError("path search exceeded compute budget")
	default:
		return nil
	}
}

func errNoPath(maxDepth int) error {
	return common.NewNotFoundError("no path found within %d degrees", maxDepth)
}
