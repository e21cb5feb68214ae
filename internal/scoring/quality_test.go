package scoring

import (
	"testing"

	"typeforge/internal/domain"
)

func TestQualityLabelFor(t *testing.T) {
	tests := []struct {
		consistency float64
		want        domain.QualityLabel
	}{
		{0.95, domain.QualityExcellent},
		{0.85, domain.QualityExcellent},
		{0.84, domain.QualityGood},
		{0.70, domain.QualityGood},
		{0.69, domain.QualityAcceptable},
		{0.55, domain.QualityAcceptable},
		{0.54, domain.QualityQuestionable},
		{0.0, domain.QualityQuestionable},
	}
	for _, tt := range tests {
		if got := QualityLabelFor(tt.consistency); got != tt.want {
			t.Fatalf("QualityLabelFor(%v) = %s, want %s", tt.consistency, got, tt.want)
		}
	}
}

func TestRetestRecommended(t *testing.T) {
	tests := []struct {
		name       string
		label      domain.QualityLabel
		confidence float64
		want       bool
	}{
		{"questionable label", domain.QualityQuestionable, 0.9, true},
		{"low confidence", domain.QualityGood, 0.55, true},
		{"solid assessment", domain.QualityExcellent, 0.8, false},
		{"boundary confidence", domain.QualityAcceptable, 0.6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RetestRecommended(tt.label, tt.confidence); got != tt.want {
				t.Fatalf("RetestRecommended(%s, %v) = %v, want %v", tt.label, tt.confidence, got, tt.want)
			}
		})
	}
}

func TestExplorationAreasOrdering(t *testing.T) {
	areas := ExplorationAreas([]domain.Dimension{domain.DimensionJP, domain.DimensionEI})
	if len(areas) != 2 {
		t.Fatalf("expected 2 areas, got %v", areas)
	}
	// Canonical dimension order regardless of input order.
	if areas[0] != "Social energy and interaction preferences" ||
		areas[1] != "Lifestyle and structure preferences" {
		t.Fatalf("areas out of canonical order: %v", areas)
	}

	if got := ExplorationAreas(nil); got != nil {
		t.Fatalf("no borderline dimensions should yield nil, got %v", got)
	}
}

func TestStabilityPredictionBounds(t *testing.T) {
	questions, answers := esfpFixture()
	result := Score(answers, questions)

	clean := domain.StatisticalMetrics{InternalConsistency: 1, ResponseConsistency: 1}
	noisy := domain.StatisticalMetrics{ExtremeResponseBias: 1, AcquiescenceBias: 1}

	high := StabilityPrediction(result.Analyses, clean)
	low := StabilityPrediction(result.Analyses, noisy)
	if high <= low {
		t.Fatalf("clean metrics must predict higher stability: %v vs %v", high, low)
	}
	if got := StabilityPrediction(nil, clean); got != 0.5 {
		t.Fatalf("no analyses: stability = %v, want 0.5", got)
	}
}
