package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/esolink/backend/pkg/common"
)

var scoringNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) *time.Time {
	t := scoringNow.AddDate(0, 0, -days)
	return &t
}

func TestCalculateStrength(t *testing.T) {
	tests := []struct {
		name string
		rel  common.Relationship
		want float64
	}{
		{
			name: "fresh direct relationship",
			rel: common.Relationship{
				RelationshipType: "direct",
				Strength:         0.9,
				LastContact:      daysAgo(1),
				Interactions:     60,
			},
			// 0.3*1.0 + 0.3*1.0 + 0.2*1.0 + 0.2*0.9
			want: 0.98,
		},
		{
			name: "stale indirect relationship",
			rel: common.Relationship{
				RelationshipType: "indirect",
				Strength:         0.2,
				LastContact:      daysAgo(400),
				Interactions:     1,
			},
			// 0.3*0.2 + 0.3*0.2 + 0.2*0.4 + 0.2*0.2
			want: 0.24,
		},
		{
			name: "never contacted defaults",
			rel: common.Relationship{
				RelationshipType: "unknown-type",
			},
			// 0.3*0.3 + 0.3*0.2 + 0.2*0.5 + 0.2*0.5
			want: 0.35,
		},
		{
			name: "zero baseline treated as unset",
			rel: common.Relationship{
				RelationshipType: "direct",
				LastContact:      daysAgo(14),
				Interactions:     25,
			},
			// 0.3*0.8 + 0.3*0.8 + 0.2*1.0 + 0.2*0.5
			want: 0.78,
		},
		{
			name: "quarter old sponsor",
			rel: common.Relationship{
				RelationshipType: "sponsor",
				Strength:         0.6,
				LastContact:      daysAgo(60),
				Interactions:     12,
			},
			// 0.3*0.6 + 0.3*0.6 + 0.2*0.9 + 0.2*0.6
			want: 0.66,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStrength(tt.rel, scoringNow)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCalculateStrength_StaysInUnitRange(t *testing.T) {
	rel := common.Relationship{
		RelationshipType: "direct",
		Strength:         1,
		LastContact:      daysAgo(0),
		Interactions:     1000,
	}
	if got := CalculateStrength(rel, scoringNow); got > 1 {
		t.Fatalf("score above 1: %v", got)
	}

	rel = common.Relationship{RelationshipType: "indirect", Strength: 0.01}
	if got := CalculateStrength(rel, scoringNow); got < 0 {
		t.Fatalf("score below 0: %v", got)
	}
}

func TestRecencyFactor_Boundaries(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{days: 7, want: 1.0},
		{days: 8, want: 0.8},
		{days: 30, want: 0.8},
		{days: 31, want: 0.6},
		{days: 90, want: 0.6},
		{days: 180, want: 0.4},
		{days: 181, want: 0.2},
	}

	for _, tt := range tests {
		got := recencyFactor(daysAgo(tt.days), scoringNow)
		if got != tt.want {
			t.Fatalf("days=%d: expected %v, got %v", tt.days, tt.want, got)
		}
	}
}

func TestFrequencyFactor_Boundaries(t *testing.T) {
	tests := []struct {
		interactions int
		want         float64
	}{
		{interactions: 0, want: 0.2},
		{interactions: 4, want: 0.2},
		{interactions: 5, want: 0.4},
		{interactions: 10, want: 0.6},
		{interactions: 20, want: 0.8},
		{interactions: 50, want: 1.0},
	}

	for _, tt := range tests {
		got := frequencyFactor(tt.interactions)
		if got != tt.want {
			t.Fatalf("interactions=%d: expected %v, got %v", tt.interactions, tt.want, got)
		}
	}
}
