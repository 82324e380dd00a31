package graph

import (
	"slices"

	"github.com/esolink/backend/pkg/common"
)

const (
	keyConnectorCount = 5
	// efficiencySampleCap bounds the all-pairs BFS behind path efficiency
	// on large graphs.
	efficiencySampleCap = 50
)

// Analyzer computes network-wide structural metrics over a Store snapshot.
type Analyzer struct{}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze computes degree centrality, average clustering coefficient,
// density, path efficiency, and the key-connector ranking. An empty or
// single-entity graph yields zeroed metrics, never an error.
func (a *Analyzer) Analyze(s *Store) common.NetworkMetrics {
	metrics := common.NetworkMetrics{
		Centrality:    make(map[string]float64),
		KeyConnectors: []string{},
	}

	n := len(s.entities)
	if n <= 1 {
		return metrics
	}

	for i, entity := range s.entities {
		metrics.Centrality[entity.ID] = float64(s.degree(int64(i))) / float64(n-1)
	}

	metrics.ClusteringCoefficient = a.clustering(s)
	metrics.Density = float64(s.wg.Edges().Len()) / (float64(n) * float64(n-1) / 2)
	metrics.PathEfficiency = a.pathEfficiency(s)
	metrics.KeyConnectors = a.keyConnectors(s, metrics.Centrality)

	return metrics
}

// clustering averages the local clustering coefficient over entities with at
// least two neighbors: the fraction of their neighbor pairs that are
// themselves connected.
func (a *Analyzer) clustering(s *Store) float64 {
	var sum float64
	counted := 0

	for i := range s.entities {
		neighbors := distinctNeighbors(s, int64(i))
		if len(neighbors) < 2 {
			continue
		}
		pairs := 0
		connected := 0
		for x := 0; x < len(neighbors); x++ {
			for y := x + 1; y < len(neighbors); y++ {
				pairs++
				if s.connected(neighbors[x], neighbors[y]) {
					connected++
				}
			}
		}
		sum += float64(connected) / float64(pairs)
		counted++
	}

	if counted == 0 {
		return 0
	}
	return sum / float64(counted)
}

// pathEfficiency measures how directly the network connects entity pairs:
// the mean of inverse hop distances from a deterministic sample of source
// entities, unreachable pairs contributing zero.
func (a *Analyzer) pathEfficiency(s *Store) float64 {
	n := len(s.entities)
	sources := min(n, efficiencySampleCap)

	var sum float64
	for src := 0; src < sources; src++ {
		dist := s.bfsDistances(int64(src))
		for idx, d := range dist {
			if idx == src || d <= 0 {
				continue
			}
			sum += 1 / float64(d)
		}
	}

	return sum / (float64(sources) * float64(n-1))
}

// keyConnectors ranks the top entities by centrality, ties broken by entity
// id for a stable ordering.
func (a *Analyzer) keyConnectors(s *Store, centrality map[string]float64) []string {
	ids := s.EntityIDs()
	slices.SortFunc(ids, func(x, y string) int {
		cx, cy := centrality[x], centrality[y]
		if cx != cy {
			if cx > cy {
				return -1
			}
			return 1
		}
		if x < y {
			return -1
		}
		if x > y {
			return 1
		}
		return 0
	})

	return ids[:min(keyConnectorCount, len(ids))]
}

func distinctNeighbors(s *Store, idx int64) []int64 {
	iter := s.wg.From(idx)
	out := make([]int64, 0, iter.Len())
	for iter.Next() {
		out = append(out, iter.Node().ID())
	}
	return out
}
