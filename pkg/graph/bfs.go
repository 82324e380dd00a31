package graph

import "context"

// budgetCheckInterval is how many dequeues pass between context checks.
const budgetCheckInterval = 1024

// bfsSearch finds the shortest hop-count path from src to dst, visiting
// neighbors in adjacency insertion order so results are deterministic for a
// given snapshot.
func bfsSearch(ctx context.Context, s *Store, src, dst int64, maxDepth int) ([]int64, error) {
	if src == dst {
		return []int64{src}, nil
	}

	n := len(s.entities)
	visited := make([]bool, n)
	prev := make([]int64, n)
	depth := make([]int, n)
	visited[src] = true
	prev[src] = -1

	queue := make([]int64, 0, 64)
	queue = append(queue, src)

	for pops := 0; len(queue) > 0; pops++ {
		if pops%budgetCheckInterval == 0 {
			if err := checkBudget(ctx); err != nil {
				return nil, err
			}
		}

		u := queue[0]
		queue = queue[1:]
		if depth[u] == maxDepth {
			continue
		}
		for _, nb := range s.adj[u] {
			if visited[nb.idx] {
				continue
			}
			visited[nb.idx] = true
			prev[nb.idx] = u
			depth[nb.idx] = depth[u] + 1
			if nb.idx == dst {
				return reconstruct(prev, dst), nil
			}
			queue = append(queue, nb.idx)
		}
	}

	return nil, errNoPath(maxDepth)
}

// reconstruct walks predecessor links back from dst to the search root.
func reconstruct(prev []int64, dst int64) []int64 {
	var rev []int64
	for at := dst; at != -1; at = prev[at] {
		rev = append(rev, at)
	}
	path := make([]int64, len(rev))
	for i, idx := range rev {
		path[len(rev)-1-i] = idx
	}
	return path
}

// bfsDistances returns hop distances from src to every node, -1 where
// unreachable.
func (s *Store) bfsDistances(src int64) []int32 {
	dist := make([]int32, len(s.entities))
	for i := range dist {
		dist[i] = -1
	}
	dist[src] = 0
	queue := []int64{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, nb := range s.adj[u] {
			if dist[nb.idx] >= 0 {
				continue
			}
			dist[nb.idx] = dist[u] + 1
			queue = append(queue, nb.idx)
		}
	}
	return dist
}
