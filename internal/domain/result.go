package domain

// DimensionAnalysis is the derived view of one dimension after scoring.
// All fields are computed; nothing here is persisted on its own.
type DimensionAnalysis struct {
	Dimension      Dimension `json:"dimension"`
	FirstCount     int       `json:"first_count"`
	SecondCount    int       `json:"second_count"`
	Total          int       `json:"total"`
	SignedScore    float64   `json:"signed_score"`
	Fraction       float64   `json:"fraction"`
	Letter         string    `json:"letter"`
	Tied           bool      `json:"tied"`
	Clarity        Clarity   `json:"clarity"`
	Confidence     float64   `json:"confidence"`
	StandardError  float64   `json:"standard_error"`
	ZScore         float64   `json:"z_score"`
}

// StatisticalMetrics are whole-assessment reliability measures.
type StatisticalMetrics struct {
	InternalConsistency float64 `json:"internal_consistency"`
	ResponseConsistency float64 `json:"response_consistency"`
	ExtremeResponseBias float64 `json:"extreme_response_bias"`
	AcquiescenceBias    float64 `json:"acquiescence_bias"`
	ConfidenceLower     float64 `json:"confidence_lower"`
	ConfidenceUpper     float64 `json:"confidence_upper"`
}

// QualityLabel grades the overall reliability of an assessment.
type QualityLabel string

const (
	QualityExcellent    QualityLabel = "EXCELLENT"
	QualityGood         QualityLabel = "GOOD"
	QualityAcceptable   QualityLabel = "ACCEPTABLE"
	QualityQuestionable QualityLabel = "QUESTIONABLE"
)

// PersonalityResult is the full output of the scoring pipeline. It is a
// pure function of (answers, questions): scoring the same inputs twice
// yields an identical value.
type PersonalityResult struct {
	TypeCode       string              `json:"type_code"`
	TypeConfidence float64             `json:"type_confidence"`

	Analyses []DimensionAnalysis `json:"analyses"`
	Metrics  StatisticalMetrics  `json:"metrics"`

	TiedDimensions       []Dimension `json:"tied_dimensions"`
	BorderlineDimensions []Dimension `json:"borderline_dimensions"`

	Quality             QualityLabel `json:"quality"`
	QualityScore        float64      `json:"quality_score"`
	StabilityPrediction float64      `json:"stability_prediction"`
	RetestRecommended   bool         `json:"retest_recommended"`
	ExplorationAreas    []string     `json:"exploration_areas"`
}

// Analysis returns the per-dimension analysis for d, if present.
func (r PersonalityResult) Analysis(d Dimension) (DimensionAnalysis, bool) {
	for _, a := range r.Analyses {
		if a.Dimension == d {
			return a, true
		}
	}
	return DimensionAnalysis{}, false
}

// HasTies reports whether any dimension needs tie-break clarification.
func (r PersonalityResult) HasTies() bool {
	return len(r.TiedDimensions) > 0
}
