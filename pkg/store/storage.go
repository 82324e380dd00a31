// Package store defines the persistence contract the graph engine consumes.
// The engine never performs blocking I/O itself: a RelationshipStorage hands
// it already-materialized records and the engine returns pure results.
package store

import (
	"context"

	"github.com/esolink/backend/pkg/common"
)

// RelationshipFilter narrows a relationship listing. Zero values mean no
// constraint.
type RelationshipFilter struct {
	Status           common.RelationshipStatus
	RelationshipType string
	EntityID         string
}

// RelationshipStorage persists and lists the relationship and grant records
// the engine computes over. Implementations translate their own failures
// into the engine error taxonomy: dependency errors for infrastructure
// faults, validation errors for constraint violations, not-found for absent
// records.
type RelationshipStorage interface {
	ListRelationships(ctx context.Context, tenantID string, filter RelationshipFilter) ([]common.Relationship, error)
	GetRelationship(ctx context.Context, tenantID, publicID string) (common.Relationship, error)
	AddRelationship(ctx context.Context, rel common.Relationship) (common.Relationship, error)
	DeleteRelationship(ctx context.Context, tenantID, publicID string) error

	GetGrant(ctx context.Context, tenantID, publicID string) (common.Grant, error)
}
