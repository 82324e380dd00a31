// Package graph implements the tenant-scoped relationship graph engine:
// an immutable in-memory snapshot built from relationship records, bounded
// path discovery, and network-wide structural metrics.
//
// A snapshot is built once per computation and read-only afterwards; callers
// needing fresh data rebuild from an updated relationship list.
package graph

import (
	"math"
	"sync"

	"github.com/esolink/backend/pkg/common"

	"gonum.org/v1/gonum/graph/simple"
)

// minEdgeStrength floors edge strength when inverting to a traversal cost so
// zero-strength edges stay finite.
const minEdgeStrength = 0.05

// Neighbor is one adjacency entry as seen from an entity.
type Neighbor struct {
	EntityID string
	Strength float64
	Type     string
}

// neighbor is the internal arena-indexed form of an adjacency entry.
type neighbor struct {
	idx      int64
	strength float64
	relType  string
}

// Store is an immutable adjacency snapshot of one tenant's active
// relationships. Entities live in a dense arena indexed by int64 node id;
// adjacency lists keep insertion order so traversal tie-breaks are
// deterministic. A gonum weighted undirected graph backs O(1) edge lookups
// and weighted shortest-path search.
type Store struct {
	tenantID string

	entities []common.Entity
	index    map[string]int64
	adj      [][]neighbor
	edges    int

	wg *simple.WeightedUndirectedGraph

	landmarkOnce sync.Once
	landmarks    []landmark
}

type edgeKey struct {
	source, target, relType string
}

// Build constructs a Store from a tenant's relationship records. Inactive
// relationships are skipped; each active one becomes a bidirectional edge
// weighted by its strength.
//
// Build fails with a validation error on strength outside [0,1], self-loop
// endpoints, or a duplicate (source, target, type) triple.
func Build(tenantID string, relationships []common.Relationship) (*Store, error) {
	s := &Store{
		tenantID: tenantID,
		index:    make(map[string]int64),
		wg:       simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}

	seen := make(map[edgeKey]struct{}, len(relationships))
	for _, rel := range relationships {
		if rel.Status != common.StatusActive {
			continue
		}
		if rel.Strength < 0 || rel.Strength > 1 {
			return nil, common.NewValidationError("relationship strength %v outside [0,1]", rel.Strength).
				With("relationship_id", rel.ID)
		}
		if rel.SourcePerson == rel.TargetPerson {
			return nil, common.NewValidationError("self-loop relationship on entity %q", rel.SourcePerson).
				With("relationship_id", rel.ID)
		}
		key := edgeKey{rel.SourcePerson, rel.TargetPerson, rel.RelationshipType}
		if _, dup := seen[key]; dup {
			return nil, common.NewValidationError("duplicate %q relationship between %q and %q",
				rel.RelationshipType, rel.SourcePerson, rel.TargetPerson).
				With("relationship_id", rel.ID)
		}
		seen[key] = struct{}{}

		u := s.ensureEntity(rel.SourcePerson)
		v := s.ensureEntity(rel.TargetPerson)

		s.adj[u] = append(s.adj[u], neighbor{idx: v, strength: rel.Strength, relType: rel.RelationshipType})
		s.adj[v] = append(s.adj[v], neighbor{idx: u, strength: rel.Strength, relType: rel.RelationshipType})
		s.edges++

		// Parallel edges of different types collapse to the strongest one
		// in the weighted backbone.
		if w, ok := s.wg.Weight(u, v); !ok || rel.Strength > w {
			s.wg.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: rel.Strength})
		}
	}

	return s, nil
}

func (s *Store) ensureEntity(id string) int64 {
	if idx, ok := s.index[id]; ok {
		return idx
	}
	idx := int64(len(s.entities))
	s.entities = append(s.entities, common.Entity{ID: id, Kind: common.KindPerson})
	s.index[id] = idx
	s.adj = append(s.adj, nil)
	s.wg.AddNode(simple.Node(idx))
	return idx
}

// TenantID returns the tenant this snapshot belongs to.
func (s *Store) TenantID() string { return s.tenantID }

// EntityCount returns the number of distinct entities in the snapshot.
func (s *Store) EntityCount() int { return len(s.entities) }

// EdgeCount returns the number of relationships in the snapshot, counting
// parallel edges of different types separately.
func (s *Store) EdgeCount() int { return s.edges }

// HasEntity reports whether the entity appears in the snapshot.
func (s *Store) HasEntity(id string) bool {
	_, ok := s.index[id]
	return ok
}

// EntityIDs returns all entity ids in arena (first-seen) order.
func (s *Store) EntityIDs() []string {
	ids := make([]string, len(s.entities))
	for i, e := range s.entities {
		ids[i] = e.ID
	}
	return ids
}

// Neighbors returns the adjacency entries of an entity in insertion order,
// or a not-found error if the entity is absent.
func (s *Store) Neighbors(id string) ([]Neighbor, error) {
	idx, ok := s.index[id]
	if !ok {
		return nil, common.NewNotFoundError("entity %q not in graph", id)
	}
	out := make([]Neighbor, len(s.adj[idx]))
	for i, n := range s.adj[idx] {
		out[i] = Neighbor{EntityID: s.entities[n.idx].ID, Strength: n.strength, Type: n.relType}
	}
	return out, nil
}

// degree returns the number of distinct neighbors of a node.
func (s *Store) degree(idx int64) int {
	return s.wg.From(idx).Len()
}

// connected reports whether an edge exists between two nodes.
func (s *Store) connected(u, v int64) bool {
	return s.wg.HasEdgeBetween(u, v)
}

// edgeBetween returns the strongest adjacency entry from u to v. The second
// return is false when no such edge exists.
func (s *Store) edgeBetween(u, v int64) (neighbor, bool) {
	var best neighbor
	found := false
	for _, n := range s.adj[u] {
		if n.idx != v {
			continue
		}
		if !found || n.strength > best.strength {
			best = n
			found = true
		}
	}
	return best, found
}

// inverseCost exposes the weighted backbone with edge weights inverted to
// costs, so weighted search prefers stronger relationships.
type inverseCost struct {
	*simple.WeightedUndirectedGraph
}

func (g inverseCost) Weight(xid, yid int64) (float64, bool) {
	w, ok := g.WeightedUndirectedGraph.Weight(xid, yid)
	if !ok {
		return 0, false
	}
	if xid == yid {
		return 0, true
	}
	return 1 / math.Max(w, minEdgeStrength), true
}
