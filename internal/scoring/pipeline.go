package scoring

import (
	"math"
	"strings"

	"typeforge/internal/domain"
)

// Borderline criteria: a dimension is a close call when its fraction sits
// within borderlineMargin of neutral, or when confidence is weak while
// the standard error is large.
const (
	borderlineMargin        = 0.1
	borderlineLowConfidence = 0.7
	borderlineHighError     = 0.15
)

// Score runs the full pipeline over one session's answer set: tally,
// tie-break resolution, clarity, confidence, reliability metrics and
// quality reporting. It is a pure function; identical inputs always
// produce an identical result, including slice ordering.
func Score(answers []domain.Answer, questions []domain.Question) domain.PersonalityResult {
	index := QuestionIndex(questions)
	counts := Tally(answers, index)

	var (
		letters     strings.Builder
		analyses    []domain.DimensionAnalysis
		confidences []float64
		tied        []domain.Dimension
		borderline  []domain.Dimension
	)

	for _, d := range domain.Dimensions {
		c := counts[d]
		p := c.DominantFraction()
		n := c.Total()
		letter, isTied := ResolveLetter(d, c)

		analysis := domain.DimensionAnalysis{
			Dimension:     d,
			FirstCount:    c.First,
			SecondCount:   c.Second,
			Total:         n,
			SignedScore:   c.SignedScore(),
			Fraction:      p,
			Letter:        letter,
			Tied:          isTied,
			Clarity:       ClassifyClarity(p),
			Confidence:    DimensionConfidence(p, n),
			StandardError: StandardError(p, n),
			ZScore:        ZScore(p, n),
		}

		letters.WriteString(letter)
		analyses = append(analyses, analysis)
		confidences = append(confidences, analysis.Confidence)
		if isTied {
			tied = append(tied, d)
		}
		if isBorderline(analysis) {
			borderline = append(borderline, d)
		}
	}

	metrics := ComputeMetrics(answers, index, confidences)
	typeConfidence := mean(confidences)
	label := QualityLabelFor(metrics.InternalConsistency)

	return domain.PersonalityResult{
		TypeCode:             letters.String(),
		TypeConfidence:       typeConfidence,
		Analyses:             analyses,
		Metrics:              metrics,
		TiedDimensions:       tied,
		BorderlineDimensions: borderline,
		Quality:              label,
		QualityScore:         QualityScore(metrics, typeConfidence),
		StabilityPrediction:  StabilityPrediction(analyses, metrics),
		RetestRecommended:    RetestRecommended(label, typeConfidence),
		ExplorationAreas:     ExplorationAreas(borderline),
	}
}

func isBorderline(a domain.DimensionAnalysis) bool {
	closeToNeutral := math.Abs(a.Fraction-0.5) < borderlineMargin
	uncertain := a.Confidence < borderlineLowConfidence && a.StandardError > borderlineHighError
	return closeToNeutral || uncertain
}
