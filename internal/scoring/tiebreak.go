package scoring

import (
	"math"

	"typeforge/internal/domain"
)

// TieMargin is the |signed score| below which a dimension is declared
// tied and routed through the clarification stage. The margin policy is
// used rather than an exact-zero test: a near 50/50 split carries no
// more signal than an exact one.
const TieMargin = 0.1

// tieBreakLetters is the fixed policy table: which letter wins when a
// dimension's counts are tied. It encodes policy, not tuning, and is
// never mutated at runtime.
var tieBreakLetters = map[domain.Dimension]string{
	domain.DimensionEI: "I",
	domain.DimensionSN: "N",
	domain.DimensionTF: "F",
	domain.DimensionJP: "P",
}

// TieBreakLetter returns the letter the policy table assigns to a tied
// dimension.
func TieBreakLetter(d domain.Dimension) string {
	return tieBreakLetters[d]
}

// IsTied reports whether the tally is within the tie margin of neutral.
// An empty dimension is tied by definition.
func IsTied(c DimensionCounts) bool {
	return math.Abs(c.SignedScore()) < TieMargin
}

// ResolveLetter picks the dimension's resolved letter. Outside the tie
// margin the majority side wins; inside it the policy table decides and
// the dimension is flagged for tie-break clarification.
func ResolveLetter(d domain.Dimension, c DimensionCounts) (letter string, tied bool) {
	if IsTied(c) {
		return TieBreakLetter(d), true
	}
	if c.First > c.Second {
		return d.FirstPole(), false
	}
	return d.SecondPole(), false
}
