// Package scoring computes relationship-strength and grant-success scores
// from weighted factors. All functions are pure: they take explicit inputs,
// including the reference time, and perform no I/O.
package scoring

import (
	"time"

	"github.com/esolink/backend/pkg/common"
)

const (
	recencyWeight   = 0.3
	frequencyWeight = 0.3
	typeWeight      = 0.2
	baselineWeight  = 0.2

	defaultBaseline   = 0.5
	defaultTypeWeight = 0.5
)

var relationshipTypeWeights = map[string]float64{
	"direct":   1.0,
	"partner":  0.9,
	"sponsor":  0.9,
	"vendor":   0.7,
	"referral": 0.6,
	"indirect": 0.4,
}

// CalculateStrength scores a relationship in [0,1] from contact recency,
// interaction frequency, relationship type, and the previously stored
// strength as a baseline.
func CalculateStrength(rel common.Relationship, now time.Time) float64 {
	score := recencyWeight*recencyFactor(rel.LastContact, now) +
		frequencyWeight*frequencyFactor(rel.Interactions) +
		typeWeight*typeWeightFor(rel.RelationshipType) +
		baselineWeight*baselineFor(rel.Strength)

	return clamp01(score)
}

func recencyFactor(lastContact *time.Time, now time.Time) float64 {
	if lastContact == nil {
		return 0.3
	}
	days := now.Sub(*lastContact).Hours() / 24
	switch {
	case days <= 7:
		return 1.0
	case days <= 30:
		return 0.8
	case days <= 90:
		return 0.6
	case days <= 180:
		return 0.4
	default:
		return 0.2
	}
}

func frequencyFactor(interactions int) float64 {
	switch {
	case interactions >= 50:
		return 1.0
	case interactions >= 20:
		return 0.8
	case interactions >= 10:
		return 0.6
	case interactions >= 5:
		return 0.4
	default:
		return 0.2
	}
}

func typeWeightFor(relType string) float64 {
	if w, ok := relationshipTypeWeights[relType]; ok {
		return w
	}
	return defaultTypeWeight
}

// baselineFor treats a zero stored strength as unset.
func baselineFor(stored float64) float64 {
	if stored == 0 {
		return defaultBaseline
	}
	return stored
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
