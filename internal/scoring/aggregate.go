// Package scoring implements the pure assessment pipeline: tallying
// forced-choice answers per dimension, resolving the four-letter type
// with deterministic tie-breaking, and deriving clarity, confidence and
// reliability metrics. Nothing in this package performs I/O; the same
// (answers, questions) input always produces the same result.
package scoring

import (
	"typeforge/internal/domain"
)

// DimensionCounts is the raw tally for one dimension: how many answers
// mapped to the first pole (E/S/T/J) versus the second (I/N/F/P).
type DimensionCounts struct {
	First  int
	Second int
}

// Total returns how many answers were counted for the dimension.
func (c DimensionCounts) Total() int {
	return c.First + c.Second
}

// SignedScore is (first − second) / total, 0 when nothing was answered.
// Positive values lean toward the first pole.
func (c DimensionCounts) SignedScore() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.First-c.Second) / float64(total)
}

// DominantFraction is the winning side's share of the total, in
// [0.5, 1.0] whenever total > 0 and exactly 0.5 for an empty dimension.
func (c DimensionCounts) DominantFraction() float64 {
	total := c.Total()
	if total == 0 {
		return 0.5
	}
	dominant := c.First
	if c.Second > dominant {
		dominant = c.Second
	}
	return float64(dominant) / float64(total)
}

// mapsToFirstPole applies a question's polarity flag to a literal choice.
// A given literal option does not universally mean the same pole: option A
// counts toward the first pole only when the question says it does.
func mapsToFirstPole(opt domain.AnswerOption, q domain.Question) bool {
	if opt == domain.OptionFirst {
		return q.OptionAMapsToFirst
	}
	return !q.OptionAMapsToFirst
}

// Tally counts answers per dimension using each question's own polarity
// flag. Answers for unknown questions are skipped. The returned map
// always carries all four dimensions, so an unanswered dimension shows
// up as a zero tally rather than a missing key.
func Tally(answers []domain.Answer, questions map[string]domain.Question) map[domain.Dimension]DimensionCounts {
	counts := make(map[domain.Dimension]DimensionCounts, len(domain.Dimensions))
	for _, d := range domain.Dimensions {
		counts[d] = DimensionCounts{}
	}

	for _, answer := range answers {
		question, ok := questions[answer.QuestionID]
		if !ok {
			continue
		}
		c := counts[question.Dimension]
		if mapsToFirstPole(answer.SelectedOption, question) {
			c.First++
		} else {
			c.Second++
		}
		counts[question.Dimension] = c
	}

	return counts
}

// QuestionIndex builds the lookup Tally consumes from an active question list.
func QuestionIndex(questions []domain.Question) map[string]domain.Question {
	index := make(map[string]domain.Question, len(questions))
	for _, q := range questions {
		index[q.ID] = q
	}
	return index
}
