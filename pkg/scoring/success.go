package scoring

import (
	"math"
	"time"

	"github.com/esolink/backend/pkg/common"
)

const (
	timelineFactorWeight     = 0.3
	relationshipFactorWeight = 0.3
	historicalFactorWeight   = 0.25
	resourceFactorWeight     = 0.15

	historicalBaseline = 0.65

	defaultRelationshipStrength = 0.7
	defaultResourceAvailability = 0.8
)

const (
	recommendMilestones    = "Focus on completing overdue milestones to bring the grant timeline back on track"
	recommendStakeholders  = "Strengthen engagement with the grantmaker's key stakeholders"
	recommendResources     = "Review resource allocation and secure additional capacity before the deadline"
	recommendSubmitNow     = "Deadline is critical: prioritize final submission preparations immediately"
	recommendDocumentation = "Begin assembling supporting documentation ahead of the deadline"
)

// PredictSuccess scores a grant's success probability in [0,100] from
// timeline health, relationship strength, historical success, and resource
// availability, with threshold-driven recommendations.
func PredictSuccess(grant common.Grant, now time.Time) common.SuccessProbability {
	daysRemaining := grant.Deadline.Sub(now).Hours() / 24

	factors := common.SuccessFactors{
		TimelineHealth:       timelineHealth(grant, daysRemaining),
		RelationshipStrength: orDefault(grant.RelationshipStrength, defaultRelationshipStrength),
		HistoricalSuccess:    historicalSuccess(grant.Amount),
		ResourceAvailability: orDefault(grant.ResourceAvailability, defaultResourceAvailability),
	}

	score := math.Round(100 * (timelineFactorWeight*factors.TimelineHealth +
		relationshipFactorWeight*factors.RelationshipStrength +
		historicalFactorWeight*factors.HistoricalSuccess +
		resourceFactorWeight*factors.ResourceAvailability))

	return common.SuccessProbability{
		Score:           score,
		Factors:         factors,
		Recommendations: recommendations(factors, daysRemaining),
	}
}

// timelineHealth compares milestone completion against where the timeline
// says the grant should be. A passed deadline scores zero; a grant without
// milestones in front of its deadline is on track.
func timelineHealth(grant common.Grant, daysRemaining float64) float64 {
	if daysRemaining < 0 {
		return 0
	}
	if len(grant.Milestones) == 0 {
		return 1
	}

	completed := 0
	for _, m := range grant.Milestones {
		if m.Completed {
			completed++
		}
	}
	completedFraction := float64(completed) / float64(len(grant.Milestones))
	expectedFraction := math.Max(0, 1-daysRemaining/365)

	return math.Min(1, completedFraction/math.Max(expectedFraction, 0.1))
}

// historicalSuccess starts from the baseline and discounts large awards,
// which historically convert less often.
func historicalSuccess(amount float64) float64 {
	switch {
	case amount > 1_000_000:
		return historicalBaseline * 0.9
	case amount > 500_000:
		return historicalBaseline * 0.95
	default:
		return historicalBaseline
	}
}

func recommendations(factors common.SuccessFactors, daysRemaining float64) []string {
	recs := make([]string, 0, 4)
	if factors.TimelineHealth < 0.7 {
		recs = append(recs, recommendMilestones)
	}
	if factors.RelationshipStrength < 0.8 {
		recs = append(recs, recommendStakeholders)
	}
	if factors.ResourceAvailability < 0.8 {
		recs = append(recs, recommendResources)
	}
	switch {
	case daysRemaining < 30:
		recs = append(recs, recommendSubmitNow)
	case daysRemaining < 60:
		recs = append(recs, recommendDocumentation)
	}
	return recs
}

func orDefault(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
