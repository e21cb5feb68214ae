package scoring

import (
	"math"

	"typeforge/internal/domain"
)

// StandardError is the binomial standard error sqrt(p(1−p)/n). An empty
// dimension reports the maximal error of 1.
func StandardError(p float64, n int) float64 {
	if n == 0 {
		return 1
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}

// ZScore is the distance from the neutral 0.5 in standard errors.
// A unanimous dimension has zero sampling error; its z-score is reported
// as 0 and confidence is handled separately.
func ZScore(p float64, n int) float64 {
	se := StandardError(p, n)
	if se == 0 {
		return 0
	}
	return math.Abs(p-0.5) / se
}

// DimensionConfidence maps a dominant fraction and sample size to a
// confidence in [0,1]: min(1, z/2). A unanimous split is fully
// confident; an empty dimension has none.
func DimensionConfidence(p float64, n int) float64 {
	if n == 0 {
		return 0
	}
	se := StandardError(p, n)
	if se == 0 {
		if p != 0.5 {
			return 1
		}
		return 0
	}
	z := math.Abs(p-0.5) / se
	return math.Min(1, z/2)
}

// maxBinaryVariance is the variance ceiling for a binary variable,
// reached at an exact 50/50 split. Used to normalize consistency.
const maxBinaryVariance = 0.25

// internalConsistency is a variance-based proxy for how uniformly the
// respondent answered within each dimension: 1 − the average normalized
// within-dimension variance of the binary choices. 0.5 when no
// dimension has enough answers to carry a variance.
func internalConsistency(byDimension map[domain.Dimension][]float64) float64 {
	var consistencies []float64
	for _, d := range domain.Dimensions {
		responses := byDimension[d]
		if len(responses) < 2 {
			continue
		}
		consistency := 1 - sampleVariance(responses)/maxBinaryVariance
		consistencies = append(consistencies, clamp01(consistency))
	}
	if len(consistencies) == 0 {
		return 0.5
	}
	return mean(consistencies)
}

// responseConsistency is 1 − the average absolute deviation of each
// dimension's binary choices from that dimension's mean choice.
func responseConsistency(byDimension map[domain.Dimension][]float64) float64 {
	var deviations []float64
	for _, d := range domain.Dimensions {
		responses := byDimension[d]
		if len(responses) == 0 {
			continue
		}
		m := mean(responses)
		var total float64
		for _, x := range responses {
			total += math.Abs(x - m)
		}
		deviations = append(deviations, total/float64(len(responses)))
	}
	if len(deviations) == 0 {
		return 0.5
	}
	return clamp01(1 - mean(deviations))
}

// extremeResponseBias measures the imbalance between the two literal
// option counts, scaled to [0,1]; 1 means every answer picked the same
// option letter regardless of content.
func extremeResponseBias(answers []domain.Answer) float64 {
	if len(answers) == 0 {
		return 0
	}
	first := 0
	for _, a := range answers {
		if a.SelectedOption == domain.OptionFirst {
			first++
		}
	}
	rate := float64(first) / float64(len(answers))
	return math.Abs(rate-0.5) * 2
}

// acquiescenceBias measures the deviation of the pole-mapped "first
// option" rate from the expected 0.5, scaled to [0,1].
func acquiescenceBias(answers []domain.Answer, questions map[string]domain.Question) float64 {
	mapped := 0
	firstPole := 0
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		mapped++
		if mapsToFirstPole(a.SelectedOption, q) {
			firstPole++
		}
	}
	if mapped == 0 {
		return 0
	}
	rate := float64(firstPole) / float64(mapped)
	return math.Abs(rate-0.5) * 2
}

// confidenceInterval is the 95% interval on the mean per-dimension
// confidence: mean ± 1.96·(stddev/√count), clipped to [0,1].
func confidenceInterval(confidences []float64) (lower, upper float64) {
	if len(confidences) == 0 {
		return 0, 1
	}
	m := mean(confidences)
	margin := 1.96 * sampleStddev(confidences) / math.Sqrt(float64(len(confidences)))
	return clamp01(m - margin), clamp01(m + margin)
}

// ComputeMetrics derives the whole-assessment reliability measures from
// the full answer set and the per-dimension confidences.
func ComputeMetrics(answers []domain.Answer, questions map[string]domain.Question, confidences []float64) domain.StatisticalMetrics {
	byDimension := make(map[domain.Dimension][]float64, len(domain.Dimensions))
	for _, a := range answers {
		q, ok := questions[a.QuestionID]
		if !ok {
			continue
		}
		value := 0.0
		if a.SelectedOption == domain.OptionFirst {
			value = 1.0
		}
		byDimension[q.Dimension] = append(byDimension[q.Dimension], value)
	}

	lower, upper := confidenceInterval(confidences)
	return domain.StatisticalMetrics{
		InternalConsistency: internalConsistency(byDimension),
		ResponseConsistency: responseConsistency(byDimension),
		ExtremeResponseBias: extremeResponseBias(answers),
		AcquiescenceBias:    acquiescenceBias(answers, questions),
		ConfidenceLower:     lower,
		ConfidenceUpper:     upper,
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var total float64
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var total float64
	for _, x := range xs {
		d := x - m
		total += d * d
	}
	return total / float64(len(xs)-1)
}

func sampleStddev(xs []float64) float64 {
	return math.Sqrt(sampleVariance(xs))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
