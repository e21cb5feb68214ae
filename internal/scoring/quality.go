package scoring

import "typeforge/internal/domain"

// Quality label cut points over internal consistency.
const (
	qualityExcellentAt  = 0.85
	qualityGoodAt       = 0.70
	qualityAcceptableAt = 0.55
)

// retestConfidenceFloor is the aggregate type confidence below which a
// retest is suggested even when the quality label is acceptable.
const retestConfidenceFloor = 0.6

// QualityLabelFor grades internal consistency into the fixed buckets.
func QualityLabelFor(internalConsistency float64) domain.QualityLabel {
	switch {
	case internalConsistency >= qualityExcellentAt:
		return domain.QualityExcellent
	case internalConsistency >= qualityGoodAt:
		return domain.QualityGood
	case internalConsistency >= qualityAcceptableAt:
		return domain.QualityAcceptable
	default:
		return domain.QualityQuestionable
	}
}

// QualityScore blends the consistency metrics, the inverted biases and
// the mean per-dimension confidence into one overall score.
func QualityScore(m domain.StatisticalMetrics, avgConfidence float64) float64 {
	factors := []float64{
		m.InternalConsistency,
		m.ResponseConsistency,
		1 - m.ExtremeResponseBias,
		1 - m.AcquiescenceBias,
		avgConfidence,
	}
	return clamp01(mean(factors))
}

// StabilityPrediction estimates how likely the resolved type is to
// survive a retest: strong preferences and clean metrics raise it,
// response bias lowers it.
func StabilityPrediction(analyses []domain.DimensionAnalysis, m domain.StatisticalMetrics) float64 {
	if len(analyses) == 0 {
		return 0.5
	}
	var strengths, confidences []float64
	for _, a := range analyses {
		strengths = append(strengths, (a.Fraction-0.5)*2)
		confidences = append(confidences, a.Confidence)
	}
	statQuality := (m.InternalConsistency + m.ResponseConsistency) / 2
	biasPenalty := (m.ExtremeResponseBias + m.AcquiescenceBias) / 2
	stability := mean(strengths)*0.4 + mean(confidences)*0.3 + statQuality*0.2 - biasPenalty*0.1
	return clamp01(stability)
}

// RetestRecommended flags assessments whose label or aggregate
// confidence is too weak to stand on its own.
func RetestRecommended(label domain.QualityLabel, typeConfidence float64) bool {
	return label == domain.QualityQuestionable || typeConfidence < retestConfidenceFloor
}

// explorationAreaTexts names what a borderline result in each dimension
// is actually about, for follow-up guidance.
var explorationAreaTexts = map[domain.Dimension]string{
	domain.DimensionEI: "Social energy and interaction preferences",
	domain.DimensionSN: "Information processing and focus preferences",
	domain.DimensionTF: "Decision-making and value systems",
	domain.DimensionJP: "Lifestyle and structure preferences",
}

// ExplorationAreas lists follow-up areas for every borderline dimension,
// in canonical dimension order.
func ExplorationAreas(borderline []domain.Dimension) []string {
	if len(borderline) == 0 {
		return nil
	}
	flagged := make(map[domain.Dimension]bool, len(borderline))
	for _, d := range borderline {
		flagged[d] = true
	}
	var areas []string
	for _, d := range domain.Dimensions {
		if flagged[d] {
			areas = append(areas, explorationAreaTexts[d])
		}
	}
	return areas
}
