package domain

import "fmt"

// Dimension is one of the four preference axes of the assessment.
// Each dimension has exactly two mutually exclusive poles; the first
// pole is the first letter of the pair.
type Dimension string

const (
	DimensionEI Dimension = "EI"
	DimensionSN Dimension = "SN"
	DimensionTF Dimension = "TF"
	DimensionJP Dimension = "JP"
)

// Dimensions lists the four axes in canonical type-code order.
// The slice is never mutated.
var Dimensions = []Dimension{DimensionEI, DimensionSN, DimensionTF, DimensionJP}

// ParseDimension validates a raw dimension tag.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimensionEI, DimensionSN, DimensionTF, DimensionJP:
		return Dimension(s), nil
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// FirstPole returns the letter counted when an answer maps to the
// dimension's first side (E, S, T or J).
func (d Dimension) FirstPole() string {
	return string(d[0])
}

// SecondPole returns the opposite letter (I, N, F or P).
func (d Dimension) SecondPole() string {
	return string(d[1])
}

// HasPole reports whether letter belongs to this dimension's pair.
func (d Dimension) HasPole(letter string) bool {
	return letter == d.FirstPole() || letter == d.SecondPole()
}

// Clarity is the qualitative strength bucket for a dimension's dominance,
// ordered from weakest to strongest.
type Clarity string

const (
	ClaritySlight    Clarity = "SLIGHT"
	ClarityModerate  Clarity = "MODERATE"
	ClarityClear     Clarity = "CLEAR"
	ClarityVeryClear Clarity = "VERY_CLEAR"
)

var clarityRank = map[Clarity]int{
	ClaritySlight:    0,
	ClarityModerate:  1,
	ClarityClear:     2,
	ClarityVeryClear: 3,
}

// Less reports whether c is a weaker bucket than other.
func (c Clarity) Less(other Clarity) bool {
	return clarityRank[c] < clarityRank[other]
}
