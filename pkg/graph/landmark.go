package graph

import (
	"context"
	"slices"
)

const (
	// landmarkCount is the number of high-centrality reference entities.
	landmarkCount = 4
	// landmarkMinEntities is the graph size below which landmark setup
	// costs more than it saves and plain BFS runs instead.
	landmarkMinEntities = 64
)

type landmark struct {
	idx  int64
	dist []int32
}

// landmarkSet lazily selects the highest-degree entities as landmarks and
// precomputes hop distances from each. Returns nil for small graphs.
func (s *Store) landmarkSet() []landmark {
	s.landmarkOnce.Do(func() {
		if len(s.entities) < landmarkMinEntities {
			return
		}

		type candidate struct {
			idx    int64
			degree int
		}
		candidates := make([]candidate, len(s.entities))
		for i := range s.entities {
			candidates[i] = candidate{idx: int64(i), degree: s.degree(int64(i))}
		}
		slices.SortFunc(candidates, func(a, b candidate) int {
			if a.degree != b.degree {
				return b.degree - a.degree
			}
			return int(a.idx - b.idx)
		})

		count := min(landmarkCount, len(candidates))
		for _, c := range candidates[:count] {
			s.landmarks = append(s.landmarks, landmark{idx: c.idx, dist: s.bfsDistances(c.idx)})
		}
	})
	return s.landmarks
}

// landmarkSearch runs BFS pruned by landmark distance tables: a neighbor is
// skipped when the triangle-inequality lower bound through any landmark
// proves it cannot reach the target within the remaining depth. Without
// landmarks it degrades to plain BFS.
func landmarkSearch(ctx context.Context, s *Store, src, dst int64, maxDepth int) ([]int64, error) {
	landmarks := s.landmarkSet()
	if len(landmarks) == 0 {
		return bfsSearch(ctx, s, src, dst, maxDepth)
	}
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
		remaining := maxDepth - depth[u] - 1
		for _, nb := range s.adj[u] {
			if visited[nb.idx] {
				continue
			}
			if nb.idx == dst {
				visited[nb.idx] = true
				prev[nb.idx] = u
				return reconstruct(prev, dst), nil
			}
			if landmarkLowerBound(landmarks, nb.idx, dst) > remaining {
				continue
			}
			visited[nb.idx] = true
			prev[nb.idx] = u
			depth[nb.idx] = depth[u] + 1
			queue = append(queue, nb.idx)
		}
	}

	return nil, errNoPath(maxDepth)
}

// landmarkLowerBound returns the tightest proven lower bound on the hop
// distance between two nodes, 0 when no landmark reaches both.
func landmarkLowerBound(landmarks []landmark, from, to int64) int {
	bound := 0
	for _, lm := range landmarks {
		df, dt := lm.dist[from], lm.dist[to]
		if df < 0 || dt < 0 {
			continue
		}
		diff := int(df - dt)
		if diff < 0 {
			diff = -diff
		}
		if diff > bound {
			bound = diff
		}
	}
	return bound
}
