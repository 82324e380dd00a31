package graph

import (
	"math"
	"slices"

	"github.com/esolink/backend/pkg/common"
)

// MaxDepth is the hard ceiling on path length, the "seven degrees of
// separation" domain constraint.
const MaxDepth = 7

// qualityForLength buckets a path by its edge count.
func qualityForLength(length int) common.PathQuality {
	switch {
	case length <= 2:
		return common.QualityExcellent
	case length <= 4:
		return common.QualityGood
	case length <= 6:
		return common.QualityFair
	default:
		return common.QualityWeak
	}
}

// confidenceForLength decays with path length, floored at 0.1 and rounded
// to 3 decimals.
func confidenceForLength(length int) float64 {
	c := math.Max(0.1, 1.0-float64(length)/float64(MaxDepth))
	return math.Round(c*1000) / 1000
}

// buildPath converts a node-index sequence into the caller-facing Path,
// scoring each hop by the strongest edge between its endpoints.
func (s *Store) buildPath(nodes []int64) common.Path {
	entities := make([]string, len(nodes))
	for i, idx := range nodes {
		entities[i] = s.entities[idx].ID
	}

	length := len(nodes) - 1
	analysis := common.RelationshipAnalysis{MinimumStrength: 1}
	var sum float64
	var types []string
	for i := 0; i < length; i++ {
		edge, ok := s.edgeBetween(nodes[i], nodes[i+1])
		if !ok {
			continue
		}
		sum += edge.strength
		if edge.strength < analysis.MinimumStrength {
			analysis.MinimumStrength = edge.strength
		}
		if !slices.Contains(types, edge.relType) {
			types = append(types, edge.relType)
		}
	}
	if length > 0 {
		analysis.AverageStrength = sum / float64(length)
	} else {
		analysis.MinimumStrength = 0
	}
	analysis.RelationshipTypes = types

	return common.Path{
		Entities:        entities,
		Length:          length,
		Quality:         qualityForLength(length),
		ConfidenceScore: confidenceForLength(length),
		Analysis:        analysis,
	}
}
