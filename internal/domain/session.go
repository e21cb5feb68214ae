package domain

import "time"

// Stage is one step of the assessment flow. The legal moves between
// stages live in the state machine's adjacency table, not here.
type Stage string

const (
	StageAnswerQuestions     Stage = "ANSWER_QUESTIONS"
	StageRateCareerClusters  Stage = "RATE_CAREER_CLUSTERS"
	StageCalculateAssessment Stage = "CALCULATE_ASSESSMENT"
	StageTieResolvement      Stage = "TIE_RESOLVEMENT"
	StageRateAssessment      Stage = "RATE_ASSESSMENT"
	StageReport              Stage = "REPORT"
)

// ParseStage validates a raw stage value.
func ParseStage(s string) (Stage, bool) {
	switch Stage(s) {
	case StageAnswerQuestions, StageRateCareerClusters, StageCalculateAssessment,
		StageTieResolvement, StageRateAssessment, StageReport:
		return Stage(s), true
	}
	return "", false
}

// Terminal reports whether the stage ends the flow.
func (s Stage) Terminal() bool {
	return s == StageReport
}

// DeploymentMode selects which catalogue a session is served from.
// Carried as data only; scoring does not branch on it.
type DeploymentMode string

const (
	ModeStandard DeploymentMode = "STANDARD"
	ModeMawhiba  DeploymentMode = "MAWHIBA"
)

// DimensionOutcome is the per-dimension slice of a session's persisted
// result: the dominant-side fraction and its clarity bucket.
type DimensionOutcome struct {
	Fraction float64 `json:"fraction"`
	Clarity  Clarity `json:"clarity"`
}

// Session is the single mutable entity of the flow. It is mutated only
// through the state machine's transition operation and becomes immutable
// once Stage is REPORT. Version backs the optimistic write: every
// committed snapshot increments it and a stale writer is rejected.
type Session struct {
	ID           string         `json:"id"`
	Token        string         `json:"token"`
	StudentName  string         `json:"student_name,omitempty"`
	StudentEmail string         `json:"student_email,omitempty"`
	Mode         DeploymentMode `json:"deployment_mode"`
	Language     string         `json:"language"`

	Stage            Stage                          `json:"stage"`
	TypeCode         string                         `json:"type_code,omitempty"`
	Outcomes         map[Dimension]DimensionOutcome `json:"outcomes,omitempty"`
	AssessmentRating int                            `json:"assessment_rating,omitempty"`
	Completed        bool                           `json:"completed"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so transition code can build the next
// snapshot without touching the committed one.
func (s Session) Clone() Session {
	out := s
	if s.Outcomes != nil {
		out.Outcomes = make(map[Dimension]DimensionOutcome, len(s.Outcomes))
		for d, o := range s.Outcomes {
			out.Outcomes[d] = o
		}
	}
	return out
}

// HasResult reports whether the scoring pipeline already wrote a type
// code onto the session.
func (s Session) HasResult() bool {
	return s.TypeCode != ""
}
