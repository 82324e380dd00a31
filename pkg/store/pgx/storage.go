// Package pgx implements the store.RelationshipStorage contract on
// PostgreSQL through pgx. Queries run against any connection satisfying the
// pgxIConn seam, so a pool, a single connection, or a transaction all work.
package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/esolink/backend/pkg/common"
	"github.com/esolink/backend/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const uniqueViolationCode = "23505"

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// RelationshipDBStorage persists relationships and grants in PostgreSQL.
type RelationshipDBStorage struct {
	conn pgxIConn
}

// NewRelationshipDBStorage creates a storage backed by an existing
// connection or pool.
func NewRelationshipDBStorage(conn pgxIConn) *RelationshipDBStorage {
	return &RelationshipDBStorage{conn: conn}
}

const listRelationshipsSQL = `
SELECT public_id, tenant_id, source_person, target_person, relationship_type,
       strength, status, metadata, last_contact, interactions, created_at, updated_at
FROM relationships
WHERE tenant_id = $1
  AND ($2 = '' OR status = $2)
  AND ($3 = '' OR relationship_type = $3)
  AND ($4 = '' OR source_person = $4 OR target_person = $4)
ORDER BY id`

// ListRelationships returns a tenant's relationships in insertion order,
// optionally narrowed by the filter.
func (s *RelationshipDBStorage) ListRelationships(
	ctx context.Context,
	tenantID string,
	filter store.RelationshipFilter,
) ([]common.Relationship, error) {
	rows, err := s.conn.Query(ctx, listRelationshipsSQL,
		tenantID, string(filter.Status), filter.RelationshipType, filter.EntityID)
	if err != nil {
		return nil, common.NewDependencyError(err, "listing relationships for tenant %q", tenantID)
	}
	defer rows.Close()

	var out []common.Relationship
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, common.NewDependencyError(err, "scanning relationship row")
		}
		out = append(out, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewDependencyError(err, "listing relationships for tenant %q", tenantID)
	}
	return out, nil
}

const getRelationshipSQL = `
SELECT public_id, tenant_id, source_person, target_person, relationship_type,
       strength, status, metadata, last_contact, interactions, created_at, updated_at
FROM relationships
WHERE tenant_id = $1 AND public_id = $2`

// GetRelationship fetches one relationship by its public id.
func (s *RelationshipDBStorage) GetRelationship(
	ctx context.Context,
	tenantID, publicID string,
) (common.Relationship, error) {
	row := s.conn.QueryRow(ctx, getRelationshipSQL, tenantID, publicID)
	rel, err := scanRelationship(row)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return common.Relationship{}, common.NewNotFoundError("relationship %q not found", publicID)
	}
	if err != nil {
		return common.Relationship{}, common.NewDependencyError(err, "fetching relationship %q", publicID)
	}
	return rel, nil
}

const addRelationshipSQL = `
INSERT INTO relationships
  (public_id, tenant_id, source_person, target_person, relationship_type,
   strength, status, metadata, last_contact, interactions)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at, updated_at`

// AddRelationship inserts a relationship, assigning a public id when the
// record has none. A duplicate (tenant, source, target, type) hits the
// unique index and is rejected as a validation error.
func (s *RelationshipDBStorage) AddRelationship(
	ctx context.Context,
	rel common.Relationship,
) (common.Relationship, error) {
	if rel.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return common.Relationship{}, common.NewDependencyError(err, "generating relationship id")
		}
		rel.ID = id
	}
	if rel.Status == "" {
		rel.Status = common.StatusActive
	}

	metadata, err := json.Marshal(orEmpty(rel.Metadata))
	if err != nil {
		return common.Relationship{}, common.NewDependencyError(err, "encoding relationship metadata")
	}

	row := s.conn.QueryRow(ctx, addRelationshipSQL,
		rel.ID, rel.TenantID, rel.SourcePerson, rel.TargetPerson, rel.RelationshipType,
		rel.Strength, string(rel.Status), metadata, rel.LastContact, rel.Interactions)
	if err := row.Scan(&rel.CreatedAt, &rel.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return common.Relationship{}, common.NewValidationError(
				"duplicate %q relationship between %q and %q",
				rel.RelationshipType, rel.SourcePerson, rel.TargetPerson)
		}
		return common.Relationship{}, common.NewDependencyError(err, "inserting relationship")
	}
	return rel, nil
}

const deleteRelationshipSQL = `
DELETE FROM relationships WHERE tenant_id = $1 AND public_id = $2`

// DeleteRelationship removes a relationship by its public id.
func (s *RelationshipDBStorage) DeleteRelationship(ctx context.Context, tenantID, publicID string) error {
	tag, err := s.conn.Exec(ctx, deleteRelationshipSQL, tenantID, publicID)
	if err != nil {
		return common.NewDependencyError(err, "deleting relationship %q", publicID)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("relationship %q not found", publicID)
	}
	return nil
}

const getGrantSQL = `
SELECT public_id, tenant_id, deadline, amount, milestones,
       relationship_strength, resource_availability
FROM grants
WHERE tenant_id = $1 AND public_id = $2`

// GetGrant fetches one grant with its milestone list.
func (s *RelationshipDBStorage) GetGrant(ctx context.Context, tenantID, publicID string) (common.Grant, error) {
	var grant common.Grant
	var milestones []byte

	row := s.conn.QueryRow(ctx, getGrantSQL, tenantID, publicID)
	err := row.Scan(&grant.ID, &grant.TenantID, &grant.Deadline, &grant.Amount,
		&milestones, &grant.RelationshipStrength, &grant.ResourceAvailability)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return common.Grant{}, common.NewNotFoundError("grant %q not found", publicID)
	}
	if err != nil {
		return common.Grant{}, common.NewDependencyError(err, "fetching grant %q", publicID)
	}
	if err := json.Unmarshal(milestones, &grant.Milestones); err != nil {
		return common.Grant{}, common.NewDependencyError(err, "decoding milestones for grant %q", publicID)
	}
	return grant, nil
}

func scanRelationship(row pgxv5.Row) (common.Relationship, error) {
	var rel common.Relationship
	var status string
	var metadata []byte
	var lastContact *time.Time

	err := row.Scan(&rel.ID, &rel.TenantID, &rel.SourcePerson, &rel.TargetPerson,
		&rel.RelationshipType, &rel.Strength, &status, &metadata, &lastContact,
		&rel.Interactions, &rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		return common.Relationship{}, err
	}
	rel.Status = common.RelationshipStatus(status)
	rel.LastContact = lastContact
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &rel.Metadata); err != nil {
			return common.Relationship{}, err
		}
	}
	return rel, nil
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
