package engine

import (
	"context"
	"testing"
	"time"

	"github.com/esolink/backend/pkg/broadcast"
	"github.com/esolink/backend/pkg/common"
	"github.com/esolink/backend/pkg/store"
)

type fakeStorage struct {
	relationships []common.Relationship
	grants        map[string]common.Grant
}

func (f *fakeStorage) ListRelationships(_ context.Context, tenantID string, filter store.RelationshipFilter) ([]common.Relationship, error) {
	var out []common.Relationship
	for _, rel := range f.relationships {
		if rel.TenantID != tenantID {
			continue
		}
		if filter.Status != "" && rel.Status != filter.Status {
			continue
		}
		if filter.RelationshipType != "" && rel.RelationshipType != filter.RelationshipType {
			continue
		}
		if filter.EntityID != "" && rel.SourcePerson != filter.EntityID && rel.TargetPerson != filter.EntityID {
			continue
		}
		out = append(out, rel)
	}
	return out, nil
}

func (f *fakeStorage) GetRelationship(_ context.Context, tenantID, publicID string) (common.Relationship, error) {
	for _, rel := range f.relationships {
		if rel.TenantID == tenantID && rel.ID == publicID {
			return rel, nil
		}
	}
	return common.Relationship{}, common.NewNotFoundError("relationship %q not found", publicID)
}

func (f *fakeStorage) AddRelationship(_ context.Context, rel common.Relationship) (common.Relationship, error) {
	f.relationships = append(f.relationships, rel)
	return rel, nil
}

func (f *fakeStorage) DeleteRelationship(_ context.Context, tenantID, publicID string) error {
	for i, rel := range f.relationships {
		if rel.TenantID == tenantID && rel.ID == publicID {
			f.relationships = append(f.relationships[:i], f.relationships[i+1:]...)
			return nil
		}
	}
	return common.NewNotFoundError("relationship %q not found", publicID)
}

func (f *fakeStorage) GetGrant(_ context.Context, tenantID, publicID string) (common.Grant, error) {
	grant, ok := f.grants[tenantID+"/"+publicID]
	if !ok {
		return common.Grant{}, common.NewNotFoundError("grant %q not found", publicID)
	}
	return grant, nil
}

type captureBroadcaster struct {
	events []broadcast.Event
}

func (c *captureBroadcaster) Publish(_ context.Context, event broadcast.Event) error {
	c.events = append(c.events, event)
	return nil
}

func testRel(id, source, target, relType string, strength float64, status common.RelationshipStatus) common.Relationship {
	return common.Relationship{
		ID:               id,
		TenantID:         "tenant-1",
		SourcePerson:     source,
		TargetPerson:     target,
		RelationshipType: relType,
		Strength:         strength,
		Status:           status,
	}
}

func newTestEngine(storage *fakeStorage) (*Engine, *captureBroadcaster) {
	bc := &captureBroadcaster{}
	eng := New(storage, bc, WithClock(func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}))
	return eng, bc
}

func TestDiscoverPath(t *testing.T) {
	storage := &fakeStorage{relationships: []common.Relationship{
		testRel("r1", "alice", "bob", "direct", 0.9, common.StatusActive),
		testRel("r2", "bob", "carol", "referral", 0.6, common.StatusActive),
	}}
	eng, _ := newTestEngine(storage)

	result, err := eng.DiscoverPath(context.Background(), "tenant-1", DiscoverPathParams{
		SourceID: "alice",
		TargetID: "carol",
		MaxDepth: 7,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.AlgorithmUsed != "bfs" {
		t.Fatalf("expected bfs, got %q", result.AlgorithmUsed)
	}
	if result.Path.Length != 2 {
		t.Fatalf("expected length 2, got %d", result.Path.Length)
	}
	if result.ComputationTimeMs < 0 {
		t.Fatalf("negative computation time: %d", result.ComputationTimeMs)
	}
}

func TestDiscoverPath_UnknownAlgorithm(t *testing.T) {
	eng, _ := newTestEngine(&fakeStorage{})

	_, err := eng.DiscoverPath(context.Background(), "tenant-1", DiscoverPathParams{
		SourceID:  "alice",
		TargetID:  "bob",
		MaxDepth:  7,
		Algorithm: "astar",
	})
	if !common.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDiscoverPath_IgnoresInactiveRelationships(t *testing.T) {
	storage := &fakeStorage{relationships: []common.Relationship{
		testRel("r1", "alice", "bob", "direct", 0.9, common.StatusActive),
		testRel("r2", "bob", "carol", "referral", 0.6, common.StatusInactive),
	}}
	eng, _ := newTestEngine(storage)

	_, err := eng.DiscoverPath(context.Background(), "tenant-1", DiscoverPathParams{
		SourceID: "alice",
		TargetID: "carol",
		MaxDepth: 7,
	})
	if !common.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestAnalyzeNetwork_PublishesKPIUpdate(t *testing.T) {
	storage := &fakeStorage{relationships: []common.Relationship{
		testRel("r1", "alice", "bob", "direct", 0.9, common.StatusActive),
		testRel("r2", "bob", "carol", "referral", 0.6, common.StatusActive),
	}}
	eng, bc := newTestEngine(storage)

	metrics, err := eng.AnalyzeNetwork(context.Background(), "tenant-1", true)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(metrics.Centrality) != 3 {
		t.Fatalf("expected centrality for 3 entities, got %v", metrics.Centrality)
	}

	if len(bc.events) != 1 {
		t.Fatalf("expected 1 broadcast event, got %d", len(bc.events))
	}
	event := bc.events[0]
	if event.Type != broadcast.EventKPIUpdate {
		t.Fatalf("expected kpi_update event, got %q", event.Type)
	}
	if event.TenantID != "tenant-1" {
		t.Fatalf("expected tenant-1, got %q", event.TenantID)
	}
}

func TestAnalyzeNetwork_NoPublishWithoutFlag(t *testing.T) {
	storage := &fakeStorage{relationships: []common.Relationship{
		testRel("r1", "alice", "bob", "direct", 0.9, common.StatusActive),
	}}
	eng, bc := newTestEngine(storage)

	if _, err := eng.AnalyzeNetwork(context.Background(), "tenant-1", false); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(bc.events) != 0 {
		t.Fatalf("expected no broadcast events, got %d", len(bc.events))
	}
}

func TestNetworkStats(t *testing.T) {
	storage := &fakeStorage{relationships: []common.Relationship{
		testRel("r1", "alice", "bob", "direct", 0.9, common.StatusActive),
		testRel("r2", "alice", "carol", "referral", 0.5, common.StatusActive),
		testRel("r3", "bob", "dave", "direct", 0.7, common.StatusActive),
		testRel("r4", "carol", "dave", "vendor", 0.3, common.StatusInactive),
	}}
	eng, _ := newTestEngine(storage)

	stats, err := eng.NetworkStats(context.Background(), "tenant-1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if stats.TotalRelationships != 3 {
		t.Fatalf("expected 3 active relationships, got %d", stats.TotalRelationships)
	}
	if stats.UniquePeople != 4 {
		t.Fatalf("expected 4 unique people, got %d", stats.UniquePeople)
	}
	if stats.RelationshipsByType["direct"] != 2 {
		t.Fatalf("expected 2 direct relationships, got %d", stats.RelationshipsByType["direct"])
	}
	want := (0.9 + 0.5 + 0.7) / 3
	if diff := stats.AverageRelationshipStrength - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected average strength %v, got %v", want, stats.AverageRelationshipStrength)
	}
	if stats.MostConnectedPerson == "" {
		t.Fatal("expected a most connected person")
	}
	if len(stats.StrongestConnections) != 3 {
		t.Fatalf("expected 3 strongest connections, got %d", len(stats.StrongestConnections))
	}
	if stats.StrongestConnections[0].ID != "r1" {
		t.Fatalf("expected r1 as strongest connection, got %q", stats.StrongestConnections[0].ID)
	}
}

func TestScoreRelationship(t *testing.T) {
	storage := &fakeStorage{relationships: []common.Relationship{
		testRel("r1", "alice", "bob", "direct", 0.9, common.StatusActive),
	}}
	eng, _ := newTestEngine(storage)

	score, err := eng.ScoreRelationship(context.Background(), "tenant-1", "r1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if score < 0 || score > 1 {
		t.Fatalf("score outside [0,1]: %v", score)
	}

	if _, err := eng.ScoreRelationship(context.Background(), "tenant-1", "ghost"); !common.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestPredictGrantSuccess_PublishesMilestoneEvent(t *testing.T) {
	storage := &fakeStorage{grants: map[string]common.Grant{
		"tenant-1/g1": {
			ID:       "g1",
			TenantID: "tenant-1",
			Deadline: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			Amount:   250_000,
		},
	}}
	eng, bc := newTestEngine(storage)

	prediction, err := eng.PredictGrantSuccess(context.Background(), "tenant-1", "g1", true)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if prediction.Score <= 0 || prediction.Score > 100 {
		t.Fatalf("score outside (0,100]: %v", prediction.Score)
	}

	if len(bc.events) != 1 {
		t.Fatalf("expected 1 broadcast event, got %d", len(bc.events))
	}
	if bc.events[0].Type != broadcast.EventGrantMilestone {
		t.Fatalf("expected grant_milestone event, got %q", bc.events[0].Type)
	}
}

func TestPredictGrantSuccess_UnknownGrant(t *testing.T) {
	eng, _ := newTestEngine(&fakeStorage{grants: map[string]common.Grant{}})

	_, err := eng.PredictGrantSuccess(context.Background(), "tenant-1", "ghost", false)
	if !common.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestEngine_TenantIsolation(t *testing.T) {
	storage := &fakeStorage{relationships: []common.Relationship{
		testRel("r1", "alice", "bob", "direct", 0.9, common.StatusActive),
		{
			ID: "r2", TenantID: "tenant-2", SourcePerson: "bob", TargetPerson: "carol",
			RelationshipType: "direct", Strength: 0.9, Status: common.StatusActive,
		},
	}}
	eng, _ := newTestEngine(storage)

	// carol only exists in tenant-2's graph.
	_, err := eng.DiscoverPath(context.Background(), "tenant-1", DiscoverPathParams{
		SourceID: "alice",
		TargetID: "carol",
		MaxDepth: 7,
	})
	if !common.IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
