package graph

import "context"

// dfsSearch returns the first simple path from src to dst found by a
// backtracking depth-first walk bounded at maxDepth edges. Neighbors are
// explored in adjacency insertion order.
func dfsSearch(ctx context.Context, s *Store, src, dst int64, maxDepth int) ([]int64, error) {
	visited := make([]bool, len(s.entities))
	path := make([]int64, 0, maxDepth+1)
	steps := 0

	var walk func(u int64, depth int) ([]int64, error)
	walk = func(u int64, depth int) ([]int64, error) {
		steps++
		if steps%budgetCheckInterval == 0 {
			if err := checkBudget(ctx); err != nil {
				return nil, err
			}
		}

		path = append(path, u)
		if u == dst {
			found := make([]int64, len(path))
			copy(found, path)
			return found, nil
		}
		if depth < maxDepth {
			visited[u] = true
			for _, nb := range s.adj[u] {
				if visited[nb.idx] {
					continue
				}
				found, err := walk(nb.idx, depth+1)
				if err != nil {
					return nil, err
				}
				if found != nil {
					return found, nil
				}
			}
			visited[u] = false
		}
		path = path[:len(path)-1]
		return nil, nil
	}

	found, err := walk(src, 0)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, errNoPath(maxDepth)
	}
	return found, nil
}
