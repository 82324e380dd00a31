package common

import "time"

// EntityKind classifies a node in the relationship graph.
type EntityKind string

const (
	KindPerson       EntityKind = "person"
	KindOrganization EntityKind = "organization"
	KindSponsor      EntityKind = "sponsor"
	KindGrantmaker   EntityKind = "grantmaker"
	KindInfluencer   EntityKind = "influencer"
)

// Entity represents a node in the relationship graph: a person, organization,
// sponsor, grantmaker, or influencer. Entities are immutable once created and
// are only removed when their owning tenant's data is purged.
type Entity struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

// RelationshipStatus marks whether a relationship participates in graph
// traversal. Inactive relationships are kept for history but never become
// edges.
type RelationshipStatus string

const (
	StatusActive   RelationshipStatus = "active"
	StatusInactive RelationshipStatus = "inactive"
)

// Relationship is a stored connection between two entities. It is persisted
// with a source/target orientation but treated as undirected for traversal.
//
// No two relationships of one tenant may share the same
// (source, target, type) triple.
type Relationship struct {
	ID               string             `json:"id"`
	TenantID         string             `json:"tenant_id"`
	SourcePerson     string             `json:"source_person"`
	TargetPerson     string             `json:"target_person"`
	RelationshipType string             `json:"relationship_type"`
	Strength         float64            `json:"strength"`
	Status           RelationshipStatus `json:"status"`
	Metadata         map[string]string  `json:"metadata,omitempty"`
	LastContact      *time.Time         `json:"last_contact,omitempty"`
	Interactions     int                `json:"interactions"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// PathQuality buckets a discovered path by its hop count.
type PathQuality string

const (
	QualityExcellent PathQuality = "excellent"
	QualityGood      PathQuality = "good"
	QualityFair      PathQuality = "fair"
	QualityWeak      PathQuality = "weak"
)

// RelationshipAnalysis summarizes the edges traversed by a path.
type RelationshipAnalysis struct {
	AverageStrength   float64  `json:"average_strength"`
	MinimumStrength   float64  `json:"minimum_strength"`
	RelationshipTypes []string `json:"relationship_types"`
}

// Path is an ordered connection chain between two entities. Paths are
// computed per request and never persisted.
type Path struct {
	Entities        []string             `json:"entities"`
	Length          int                  `json:"length"`
	Quality         PathQuality          `json:"quality"`
	ConfidenceScore float64              `json:"confidence_score"`
	Analysis        RelationshipAnalysis `json:"relationship_analysis"`
}

// NetworkMetrics is a per-tenant structural snapshot of the graph.
type NetworkMetrics struct {
	Centrality            map[string]float64 `json:"centrality"`
	ClusteringCoefficient float64            `json:"clustering_coefficient"`
	Density               float64            `json:"density"`
	PathEfficiency        float64            `json:"path_efficiency"`
	KeyConnectors         []string           `json:"key_connectors"`
}

// Milestone is a single deliverable on a grant timeline.
type Milestone struct {
	DueDate   time.Time `json:"due_date"`
	Completed bool      `json:"completed"`
}

// Grant is the slice of a grant record the scoring engine consumes. The
// relationship-strength and resource-availability factors are carried on the
// record; zero values fall back to scoring defaults.
type Grant struct {
	ID                   string      `json:"id"`
	TenantID             string      `json:"tenant_id"`
	Deadline             time.Time   `json:"deadline"`
	Amount               float64     `json:"amount"`
	Milestones           []Milestone `json:"milestones"`
	RelationshipStrength float64     `json:"relationship_strength,omitempty"`
	ResourceAvailability float64     `json:"resource_availability,omitempty"`
}

// SuccessFactors are the weighted inputs behind a success prediction.
type SuccessFactors struct {
	TimelineHealth       float64 `json:"timeline_health"`
	RelationshipStrength float64 `json:"relationship_strength"`
	HistoricalSuccess    float64 `json:"historical_success"`
	ResourceAvailability float64 `json:"resource_availability"`
}

// SuccessProbability is the grant-success prediction returned to the caller.
type SuccessProbability struct {
	Score           float64        `json:"score"`
	Factors         SuccessFactors `json:"factors"`
	Recommendations []string       `json:"recommendations"`
}

// NetworkStats is the aggregate view served by the network/stats endpoint.
type NetworkStats struct {
	TotalRelationships          int            `json:"total_relationships"`
	UniquePeople                int            `json:"unique_people"`
	RelationshipsByType         map[string]int `json:"relationships_by_type"`
	AverageRelationshipStrength float64        `json:"average_relationship_strength"`
	NetworkDensity              float64        `json:"network_density"`
	MostConnectedPerson         string         `json:"most_connected_person"`
	StrongestConnections        []Relationship `json:"strongest_connections"`
}
