package graph

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/esolink/backend/pkg/common"
)

func buildStore(t *testing.T, relationships []common.Relationship) *Store {
	t.Helper()
	s, err := Build("tenant-1", relationships)
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}
	return s
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		{input: "", want: AlgorithmBFS},
		{input: "bfs", want: AlgorithmBFS},
		{input: "dfs", want: AlgorithmDFS},
		{input: "dijkstra", want: AlgorithmDijkstra},
		{input: "landmark", want: AlgorithmLandmark},
		{input: "astar", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("input="+tt.input, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				if !common.IsValidation(err) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDiscover_TwoHopPath(t *testing.T) {
	s := buildStore(t, []common.Relationship{
		rel("r1", "alice", "bob", "direct", 0.9),
		rel("r2", "bob", "carol", "referral", 0.6),
	})

	finder := NewPathFinder()
	path, used, err := finder.Discover(context.Background(), s, "alice", "carol", MaxDepth, AlgorithmBFS)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if used != AlgorithmBFS {
		t.Fatalf("expected bfs, got %q", used)
	}

	want := []string{"alice", "bob", "carol"}
	if len(path.Entities) != len(want) {
		t.Fatalf("expected path %v, got %v", want, path.Entities)
	}
	for i, id := range path.Entities {
		if id != want[i] {
			t.Fatalf("expected path %v, got %v", want, path.Entities)
		}
	}
	if path.Length != 2 {
		t.Fatalf("expected length 2, got %d", path.Length)
	}
	if path.Quality != common.QualityExcellent {
		t.Fatalf("expected excellent quality, got %q", path.Quality)
	}
	if math.Abs(path.ConfidenceScore-0.714) > 1e-9 {
		t.Fatalf("expected confidence 0.714, got %v", path.ConfidenceScore)
	}
	if math.Abs(path.Analysis.AverageStrength-0.75) > 1e-9 {
		t.Fatalf("expected average strength 0.75, got %v", path.Analysis.AverageStrength)
	}
	if math.Abs(path.Analysis.MinimumStrength-0.6) > 1e-9 {
		t.Fatalf("expected minimum strength 0.6, got %v", path.Analysis.MinimumStrength)
	}
	if len(path.Analysis.RelationshipTypes) != 2 {
		t.Fatalf("expected 2 relationship types, got %v", path.Analysis.RelationshipTypes)
	}
}

func TestDiscover_SourceEqualsTarget(t *testing.T) {
	s := buildStore(t, []common.Relationship{
		rel("r1", "alice", "bob", "direct", 0.9),
	})

	path, _, err := NewPathFinder().Discover(context.Background(), s, "alice", "alice", MaxDepth, AlgorithmBFS)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if path.Length != 0 {
		t.Fatalf("expected length 0, got %d", path.Length)
	}
	if len(path.Entities) != 1 || path.Entities[0] != "alice" {
		t.Fatalf("expected single-entity path, got %v", path.Entities)
	}
}

func TestDiscover_MissingEndpoints(t *testing.T) {
	s := buildStore(t, []common.Relationship{
		rel("r1", "alice", "bob", "direct", 0.9),
	})
	finder := NewPathFinder()

	if _, _, err := finder.Discover(context.Background(), s, "ghost", "bob", MaxDepth, AlgorithmBFS); !common.IsNotFound(err) {
		t.Fatalf("expected not-found error for missing source, got %v", err)
	}
	if _, _, err := finder.Discover(context.Background(), s, "alice", "ghost", MaxDepth, AlgorithmBFS); !common.IsNotFound(err) {
		t.Fatalf("expected not-found error for missing target, got %v", err)
	}
}

func TestDiscover_MaxDepthValidation(t *testing.T) {
	s := buildStore(t, []common.Relationship{
		rel("r1", "alice", "bob", "direct", 0.9),
	})
	finder := NewPathFinder()

	for _, depth := range []int{0, -1, 8} {
		if _, _, err := finder.Discover(context.Background(), s, "alice", "bob", depth, AlgorithmBFS); !common.IsValidation(err) {
			t.Fatalf("depth %d: expected validation error, got %v", depth, err)
		}
	}
}

func TestDiscover_DepthBound(t *testing.T) {
	// Chain of 4 edges: a-b-c-d-e. With maxDepth 3 the far end is out of
	// reach.
	s := buildStore(t, []common.Relationship{
		rel("r1", "a", "b", "direct", 0.5),
		rel("r2", "b", "c", "direct", 0.5),
		rel("r3", "c", "d", "direct", 0.5),
		rel("r4", "d", "e", "direct", 0.5),
	})
	finder := NewPathFinder()

	if _, _, err := finder.Discover(context.Background(), s, "a", "e", 3, AlgorithmBFS); !common.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	path, _, err := finder.Discover(context.Background(), s, "a", "e", 4, AlgorithmBFS)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if path.Length != 4 {
		t.Fatalf("expected length 4, got %d", path.Length)
	}
}

func TestDiscover_DisconnectedComponents(t *testing.T) {
	s := buildStore(t, []common.Relationship{
		rel("r1", "a", "b", "direct", 0.5),
		rel("r2", "c", "d", "direct", 0.5),
	})

	_, _, err := NewPathFinder().Discover(context.Background(), s, "a", "d", MaxDepth, AlgorithmBFS)
	if !common.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDiscover_BFSTieBreakIsDeterministic(t *testing.T) {
	// Two equal-length routes from a to d. BFS must keep the one through
	// the first-inserted neighbor.
	relationships := []common.Relationship{
		rel("r1", "a", "b", "direct", 0.5),
		rel("r2", "a", "c", "direct", 0.5),
		rel("r3", "b", "d", "direct", 0.5),
		rel("r4", "c", "d", "direct", 0.5),
	}

	for i := 0; i < 10; i++ {
		s := buildStore(t, relationships)
		path, _, err := NewPathFinder().Discover(context.Background(), s, "a", "d", MaxDepth, AlgorithmBFS)
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if path.Entities[1] != "b" {
			t.Fatalf("run %d: expected route through b, got %v", i, path.Entities)
		}
	}
}

func TestDiscover_DijkstraPrefersStrongerRoute(t *testing.T) {
	// Direct edge is weak; the two-hop route through carol is much
	// stronger and wins on cumulative inverse-strength cost.
	s := buildStore(t, []common.Relationship{
		rel("r1", "alice", "bob", "direct", 0.1),
		rel("r2", "alice", "carol", "partner", 0.9),
		rel("r3", "carol", "bob", "partner", 0.9),
	})

	path, used, err := NewPathFinder().Discover(context.Background(), s, "alice", "bob", MaxDepth, AlgorithmDijkstra)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if used != AlgorithmDijkstra {
		t.Fatalf("expected dijkstra, got %q", used)
	}
	if path.Length != 2 || path.Entities[1] != "carol" {
		t.Fatalf("expected route through carol, got %v", path.Entities)
	}
}

func TestDiscover_DFSRespectsDepthBound(t *testing.T) {
	s := buildStore(t, []common.Relationship{
		rel("r1", "a", "b", "direct", 0.5),
		rel("r2", "b", "c", "direct", 0.5),
		rel("r3", "c", "d", "direct", 0.5),
	})

	path, _, err := NewPathFinder().Discover(context.Background(), s, "a", "d", MaxDepth, AlgorithmDFS)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if path.Length > MaxDepth {
		t.Fatalf("path exceeds depth bound: %v", path.Entities)
	}
	if path.Entities[0] != "a" || path.Entities[len(path.Entities)-1] != "d" {
		t.Fatalf("path has wrong endpoints: %v", path.Entities)
	}

	if _, _, err := NewPathFinder().Discover(context.Background(), s, "a", "d", 2, AlgorithmDFS); !common.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDiscover_LandmarkSmallGraphFallsBackToBFS(t *testing.T) {
	s := buildStore(t, []common.Relationship{
		rel("r1", "alice", "bob", "direct", 0.9),
		rel("r2", "bob", "carol", "referral", 0.6),
	})

	path, used, err := NewPathFinder().Discover(context.Background(), s, "alice", "carol", MaxDepth, AlgorithmLandmark)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if used != AlgorithmLandmark {
		t.Fatalf("expected landmark, got %q", used)
	}
	if path.Length != 2 {
		t.Fatalf("expected length 2, got %d", path.Length)
	}
}

func TestDiscover_LandmarkLargeGraphMatchesBFSLength(t *testing.T) {
	// Hub-and-spoke ring big enough to activate landmark pruning.
	var relationships []common.Relationship
	n := 80
	for i := 0; i < n; i++ {
		relationships = append(relationships,
			rel(fmt.Sprintf("ring-%d", i), fmt.Sprintf("p%d", i), fmt.Sprintf("p%d", (i+1)%n), "direct", 0.5))
	}
	for i := 1; i < n; i += 10 {
		relationships = append(relationships,
			rel(fmt.Sprintf("hub-%d", i), "p0", fmt.Sprintf("p%d", i), "partner", 0.8))
	}

	bfsStore := buildStore(t, relationships)
	bfsPath, _, err := NewPathFinder().Discover(context.Background(), bfsStore, "p3", "p12", MaxDepth, AlgorithmBFS)
	if err != nil {
		t.Fatalf("bfs: expected nil error, got %v", err)
	}

	lmStore := buildStore(t, relationships)
	lmPath, used, err := NewPathFinder().Discover(context.Background(), lmStore, "p3", "p12", MaxDepth, AlgorithmLandmark)
	if err != nil {
		t.Fatalf("landmark: expected nil error, got %v", err)
	}
	if used != AlgorithmLandmark {
		t.Fatalf("expected landmark, got %q", used)
	}
	if lmPath.Length != bfsPath.Length {
		t.Fatalf("landmark length %d differs from bfs length %d", lmPath.Length, bfsPath.Length)
	}
}

func TestDiscover_CancelledContext(t *testing.T) {
	s := buildStore(t, []common.Relationship{
		rel("r1", "alice", "bob", "direct", 0.9),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// BFS has no fallback left, so the timeout surfaces.
	_, _, err := NewPathFinder().Discover(ctx, s, "alice", "bob", MaxDepth, AlgorithmBFS)
	if !common.IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}
