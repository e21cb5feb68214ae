package scoring

import "typeforge/internal/domain"

// Clarity cut points over the dominant-side fraction. They correspond to
// distances {0.2, 0.4, 0.7} from the neutral point scaled to [0,1]
// (distance = (fraction - 0.5) * 2); comparisons run on the fraction
// domain so exact boundaries like 0.6 and 0.7 bucket deterministically.
// The scheme is applied uniformly to all four dimensions.
const (
	clarityModerateAt  = 0.60
	clarityClearAt     = 0.70
	clarityVeryClearAt = 0.85
)

// ClassifyClarity maps a dominant-side fraction in [0.5, 1.0] to its
// strength bucket.
func ClassifyClarity(fraction float64) domain.Clarity {
	switch {
	case fraction < clarityModerateAt:
		return domain.ClaritySlight
	case fraction < clarityClearAt:
		return domain.ClarityModerate
	case fraction < clarityVeryClearAt:
		return domain.ClarityClear
	default:
		return domain.ClarityVeryClear
	}
}
