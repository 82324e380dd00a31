package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/esolink/backend/pkg/engine"
	"github.com/esolink/backend/pkg/leaselock"
	"github.com/esolink/backend/pkg/logger"
	pgxstore "github.com/esolink/backend/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

// analysisLeaseTTL bounds how long a worker may hold a tenant's analysis
// lease before it expires on its own.
const analysisLeaseTTL = 2 * time.Minute

// parallelScoringJobs caps concurrent grant predictions per message.
const parallelScoringJobs = 8

// AnalysisJobMsg schedules a network analysis for one tenant.
type AnalysisJobMsg struct {
	TenantID  string `json:"tenant_id"`
	Broadcast bool   `json:"broadcast"`
}

// ScoringJobMsg schedules success predictions for a tenant's grants.
type ScoringJobMsg struct {
	TenantID  string   `json:"tenant_id"`
	GrantIDs  []string `json:"grant_ids"`
	Broadcast bool     `json:"broadcast"`
}

// ProcessAnalysisMessage runs a full network analysis for the tenant named
// in the message. A per-tenant lease keeps concurrent workers from analyzing
// the same tenant twice; a busy lease is not an error, the scheduled run is
// simply skipped.
func ProcessAnalysisMessage(
	ctx context.Context,
	conn *pgxpool.Pool,
	ch *amqp091.Channel,
	body string,
) error {
	var msg AnalysisJobMsg
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("failed to decode analysis job: %w", err)
	}
	if msg.TenantID == "" {
		return fmt.Errorf("analysis job missing tenant id")
	}

	eng := engine.New(pgxstore.NewRelationshipDBStorage(conn), NewAmqpBroadcaster(ch))
	locker := leaselock.New(conn)

	err := locker.WithLease(ctx, "network_analysis:"+msg.TenantID, leaselock.Options{
		TTL: analysisLeaseTTL,
	}, func(ctx context.Context) error {
		metrics, err := eng.AnalyzeNetwork(ctx, msg.TenantID, msg.Broadcast)
		if err != nil {
			return err
		}
		logger.Info("[Worker] Network analysis completed",
			"tenant_id", msg.TenantID,
			"density", metrics.Density,
			"key_connectors", len(metrics.KeyConnectors),
		)
		return nil
	})
	if errors.Is(err, leaselock.ErrBusy) {
		logger.Info("[Worker] Analysis already running for tenant, skipping", "tenant_id", msg.TenantID)
		return nil
	}
	return err
}

// ProcessScoringMessage predicts success for each grant in the message,
// fanning out across a bounded worker group.
func ProcessScoringMessage(
	ctx context.Context,
	conn *pgxpool.Pool,
	ch *amqp091.Channel,
	body string,
) error {
	var msg ScoringJobMsg
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("failed to decode scoring job: %w", err)
	}
	if msg.TenantID == "" {
		return fmt.Errorf("scoring job missing tenant id")
	}

	eng := engine.New(pgxstore.NewRelationshipDBStorage(conn), NewAmqpBroadcaster(ch))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelScoringJobs)
	for _, grantID := range msg.GrantIDs {
		id := grantID
		eg.Go(func() error {
			prediction, err := eng.PredictGrantSuccess(gCtx, msg.TenantID, id, msg.Broadcast)
			if err != nil {
				return fmt.Errorf("predicting success for grant %s: %w", id, err)
			}
			logger.Debug("[Worker] Grant scored", "tenant_id", msg.TenantID, "grant_id", id, "score", prediction.Score)
			return nil
		})
	}

	return eg.Wait()
}
