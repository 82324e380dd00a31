// Package engine wires the graph engine together: storage in, snapshot,
// path discovery / network analysis / scoring, results out through the
// broadcaster. An Engine is an explicit instance constructed per request or
// per job and passed by reference; there is no ambient global state, and no
// cross-tenant shared mutable state.
package engine

import (
	"context"
	"slices"
	"time"

	"github.com/esolink/backend/pkg/broadcast"
	"github.com/esolink/backend/pkg/common"
	"github.com/esolink/backend/pkg/graph"
	"github.com/esolink/backend/pkg/logger"
	"github.com/esolink/backend/pkg/scoring"
	"github.com/esolink/backend/pkg/store"
)

const strongestConnectionCount = 5

// Engine runs tenant-scoped graph computations end to end.
type Engine struct {
	storage     store.RelationshipStorage
	broadcaster broadcast.Broadcaster
	finder      *graph.PathFinder
	analyzer    *graph.Analyzer
	now         func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithComputeBudget overrides the path finder's per-search compute budget.
func WithComputeBudget(d time.Duration) Option {
	return func(e *Engine) {
		e.finder = graph.NewPathFinder(graph.WithComputeBudget(d))
	}
}

// WithClock overrides the time source used by the scoring functions.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine. A nil broadcaster disables result pushing.
func New(storage store.RelationshipStorage, broadcaster broadcast.Broadcaster, opts ...Option) *Engine {
	e := &Engine{
		storage:     storage,
		broadcaster: broadcaster,
		finder:      graph.NewPathFinder(),
		analyzer:    graph.NewAnalyzer(),
		now:         time.Now,
	}
	if broadcaster == nil {
		e.broadcaster = broadcast.Nop{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Snapshot materializes a tenant's active relationships into an immutable
// graph snapshot. Callers running several computations in one request reuse
// the returned store rather than rebuilding.
func (e *Engine) Snapshot(ctx context.Context, tenantID string) (*graph.Store, error) {
	relationships, err := e.storage.ListRelationships(ctx, tenantID, store.RelationshipFilter{
		Status: common.StatusActive,
	})
	if err != nil {
		return nil, err
	}
	return graph.Build(tenantID, relationships)
}

// DiscoverPathParams are the request parameters for path discovery.
type DiscoverPathParams struct {
	SourceID  string
	TargetID  string
	MaxDepth  int
	Algorithm string
}

// DiscoverPathResult is the synchronous path discovery response.
type DiscoverPathResult struct {
	Path              common.Path `json:"path"`
	AlgorithmUsed     string      `json:"algorithm_used"`
	ComputationTimeMs int64       `json:"computation_time_ms"`
}

// DiscoverPath finds a bounded connection path between two entities in the
// tenant's graph.
func (e *Engine) DiscoverPath(ctx context.Context, tenantID string, params DiscoverPathParams) (DiscoverPathResult, error) {
	algo, err := graph.ParseAlgorithm(params.Algorithm)
	if err != nil {
		return DiscoverPathResult{}, err
	}

	snapshot, err := e.Snapshot(ctx, tenantID)
	if err != nil {
		return DiscoverPathResult{}, err
	}

	started := time.Now()
	path, used, err := e.finder.Discover(ctx, snapshot, params.SourceID, params.TargetID, params.MaxDepth, algo)
	if err != nil {
		return DiscoverPathResult{}, err
	}

	return DiscoverPathResult{
		Path:              path,
		AlgorithmUsed:     string(used),
		ComputationTimeMs: time.Since(started).Milliseconds(),
	}, nil
}

// AnalyzeNetwork computes structural metrics for a tenant's graph and pushes
// them as a kpi_update when publish is set. Broadcast failure is logged and
// never surfaced.
func (e *Engine) AnalyzeNetwork(ctx context.Context, tenantID string, publish bool) (common.NetworkMetrics, error) {
	snapshot, err := e.Snapshot(ctx, tenantID)
	if err != nil {
		return common.NetworkMetrics{}, err
	}

	metrics := e.analyzer.Analyze(snapshot)
	if publish {
		e.publish(ctx, broadcast.NewEvent(broadcast.EventKPIUpdate, tenantID, metrics))
	}
	return metrics, nil
}

// NetworkStats aggregates the tenant's active relationships into the
// network/stats view.
func (e *Engine) NetworkStats(ctx context.Context, tenantID string) (common.NetworkStats, error) {
	relationships, err := e.storage.ListRelationships(ctx, tenantID, store.RelationshipFilter{
		Status: common.StatusActive,
	})
	if err != nil {
		return common.NetworkStats{}, err
	}
	snapshot, err := graph.Build(tenantID, relationships)
	if err != nil {
		return common.NetworkStats{}, err
	}

	stats := common.NetworkStats{
		TotalRelationships:  len(relationships),
		UniquePeople:        snapshot.EntityCount(),
		RelationshipsByType: make(map[string]int),
	}

	var strengthSum float64
	for _, rel := range relationships {
		stats.RelationshipsByType[rel.RelationshipType]++
		strengthSum += rel.Strength
	}
	if len(relationships) > 0 {
		stats.AverageRelationshipStrength = strengthSum / float64(len(relationships))
	}

	metrics := e.analyzer.Analyze(snapshot)
	stats.NetworkDensity = metrics.Density
	if len(metrics.KeyConnectors) > 0 {
		stats.MostConnectedPerson = metrics.KeyConnectors[0]
	}

	strongest := slices.Clone(relationships)
	slices.SortFunc(strongest, func(a, b common.Relationship) int {
		if a.Strength != b.Strength {
			if a.Strength > b.Strength {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	stats.StrongestConnections = strongest[:min(strongestConnectionCount, len(strongest))]

	return stats, nil
}

// ScoreRelationship computes the weighted strength score of one stored
// relationship.
func (e *Engine) ScoreRelationship(ctx context.Context, tenantID, relationshipID string) (float64, error) {
	rel, err := e.storage.GetRelationship(ctx, tenantID, relationshipID)
	if err != nil {
		return 0, err
	}
	return scoring.CalculateStrength(rel, e.now()), nil
}

// PredictGrantSuccess computes the success probability for a stored grant
// and pushes it as a grant_milestone event when publish is set.
func (e *Engine) PredictGrantSuccess(ctx context.Context, tenantID, grantID string, publish bool) (common.SuccessProbability, error) {
	grant, err := e.storage.GetGrant(ctx, tenantID, grantID)
	if err != nil {
		return common.SuccessProbability{}, err
	}

	prediction := scoring.PredictSuccess(grant, e.now())
	if publish {
		e.publish(ctx, broadcast.NewEvent(broadcast.EventGrantMilestone, tenantID, prediction))
	}
	return prediction, nil
}

// publish is fire-and-forget: delivery failures are logged, never raised.
func (e *Engine) publish(ctx context.Context, event broadcast.Event) {
	if err := e.broadcaster.Publish(ctx, event); err != nil {
		logger.Error("[Engine] Broadcast failed", "type", string(event.Type), "tenant_id", event.TenantID, "err", err)
	}
}
