package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"typeforge/internal/domain"
	"typeforge/internal/repository"
	"typeforge/internal/scoring"
)

// stageAdjacency is the complete transition table of the assessment
// flow. A (current, target) pair absent from this table is illegal no
// matter what the payload says. Initialized once, never mutated.
var stageAdjacency = map[domain.Stage][]domain.Stage{
	domain.StageAnswerQuestions:     {domain.StageRateCareerClusters},
	domain.StageRateCareerClusters:  {domain.StageCalculateAssessment},
	domain.StageCalculateAssessment: {domain.StageTieResolvement, domain.StageRateAssessment},
	domain.StageTieResolvement:      {domain.StageRateAssessment},
	domain.StageRateAssessment:      {domain.StageReport},
	domain.StageReport:              {},
}

// stageProgress maps each stage to its fixed completion percentage.
var stageProgress = map[domain.Stage]int{
	domain.StageAnswerQuestions:     20,
	domain.StageRateCareerClusters:  40,
	domain.StageCalculateAssessment: 60,
	domain.StageTieResolvement:      70,
	domain.StageRateAssessment:      80,
	domain.StageReport:              100,
}

// TransitionPayload carries the stage-specific input a transition may
// need: the tie-break choices when leaving TieResolvement and the
// respondent's rating when entering Report.
type TransitionPayload struct {
	TieResolutions   map[domain.Dimension]string
	AssessmentRating int
}

// TransitionResult is the successful outcome of a transition: the newly
// committed session snapshot and, when the calculation stage was
// entered, the freshly scored result.
type TransitionResult struct {
	Session domain.Session
	Result  *domain.PersonalityResult
}

// StateMachine gates every stage change of an assessment session. All
// mutation goes through AttemptTransition, which evaluates the target's
// requirement predicate, builds a new session snapshot and commits it
// with an optimistic version check. On any failure the stored session
// is untouched.
type StateMachine struct {
	sessions  repository.SessionRepository
	answers   repository.AnswerRepository
	questions repository.QuestionRepository
	careers   repository.CareerRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewStateMachine(
	sessions repository.SessionRepository,
	answers repository.AnswerRepository,
	questions repository.QuestionRepository,
	careers repository.CareerRepository,
	logger *zap.Logger,
) *StateMachine {
	return &StateMachine{
		sessions:  sessions,
		answers:   answers,
		questions: questions,
		careers:   careers,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ProgressPercentage returns the fixed completion percentage of a stage.
func ProgressPercentage(stage domain.Stage) int {
	return stageProgress[stage]
}

// canReach reports whether the adjacency table allows current → target.
func canReach(current, target domain.Stage) bool {
	for _, s := range stageAdjacency[current] {
		if s == target {
			return true
		}
	}
	return false
}

// AttemptTransition moves a session to target after checking the
// adjacency table and the target's requirement predicate. Entering
// CalculateAssessment runs the scoring pipeline and persists its output
// onto the session as part of the same snapshot.
func (m *StateMachine) AttemptTransition(ctx context.Context, session domain.Session, target domain.Stage, payload TransitionPayload) (TransitionResult, error) {
	if session.Stage.Terminal() {
		return TransitionResult{}, domain.InvalidTransitionf("session %s is already completed", session.ID)
	}
	if !canReach(session.Stage, target) {
		return TransitionResult{}, domain.InvalidTransitionf("cannot move from %s to %s", session.Stage, target)
	}

	next := session.Clone()
	var scored *domain.PersonalityResult

	switch target {
	case domain.StageRateCareerClusters:
		if err := m.requireAllQuestionsAnswered(ctx, session); err != nil {
			return TransitionResult{}, err
		}

	case domain.StageCalculateAssessment:
		if err := m.requireClusterRatings(ctx, session); err != nil {
			return TransitionResult{}, err
		}
		result, err := m.runScoring(ctx, session)
		if err != nil {
			return TransitionResult{}, err
		}
		applyResult(&next, result)
		scored = &result

	case domain.StageTieResolvement:
		if !session.HasResult() {
			return TransitionResult{}, domain.UnmetRequirementf("assessment has not been calculated yet")
		}
		if len(tiedDimensions(session)) == 0 {
			return TransitionResult{}, domain.UnmetRequirementf("no tied dimensions to resolve")
		}

	case domain.StageRateAssessment:
		if !session.HasResult() {
			return TransitionResult{}, domain.UnmetRequirementf("assessment has not been calculated yet")
		}
		tied := tiedDimensions(session)
		if session.Stage == domain.StageCalculateAssessment && len(tied) > 0 {
			return TransitionResult{}, domain.UnmetRequirementf("tied dimensions %v must be resolved first", tied)
		}
		if session.Stage == domain.StageTieResolvement {
			if err := applyTieResolutions(&next, tied, payload.TieResolutions); err != nil {
				return TransitionResult{}, err
			}
		}

	case domain.StageReport:
		rating := payload.AssessmentRating
		if rating == 0 {
			rating = session.AssessmentRating
		}
		if rating < 1 || rating > 5 {
			return TransitionResult{}, domain.UnmetRequirementf("assessment rating between 1 and 5 is required")
		}
		next.AssessmentRating = rating
		next.Completed = true
	}

	next.Stage = target
	next.Version = session.Version + 1
	next.UpdatedAt = m.now()

	if err := m.sessions.UpdateSnapshot(ctx, next, session.Version); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return TransitionResult{}, fmt.Errorf("%w: session %s was modified concurrently", domain.ErrConflict, session.ID)
		}
		return TransitionResult{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	m.logger.Info("session stage advanced",
		zap.String("session_id", session.ID),
		zap.String("from", string(session.Stage)),
		zap.String("to", string(target)),
	)
	return TransitionResult{Session: next, Result: scored}, nil
}

// AllowedTransitions returns the subset of the adjacency table whose
// requirement predicates currently hold for the session.
func (m *StateMachine) AllowedTransitions(ctx context.Context, session domain.Session) ([]domain.Stage, error) {
	var allowed []domain.Stage
	for _, target := range stageAdjacency[session.Stage] {
		ok, err := m.requirementHolds(ctx, session, target)
		if err != nil {
			return nil, err
		}
		if ok {
			allowed = append(allowed, target)
		}
	}
	return allowed, nil
}

func (m *StateMachine) requirementHolds(ctx context.Context, session domain.Session, target domain.Stage) (bool, error) {
	switch target {
	case domain.StageRateCareerClusters:
		err := m.requireAllQuestionsAnswered(ctx, session)
		return requirementOutcome(err)
	case domain.StageCalculateAssessment:
		err := m.requireClusterRatings(ctx, session)
		return requirementOutcome(err)
	case domain.StageTieResolvement:
		return session.HasResult() && len(tiedDimensions(session)) > 0, nil
	case domain.StageRateAssessment:
		if !session.HasResult() {
			return false, nil
		}
		if session.Stage == domain.StageCalculateAssessment {
			return len(tiedDimensions(session)) == 0, nil
		}
		return true, nil
	case domain.StageReport:
		return session.AssessmentRating >= 1 && session.AssessmentRating <= 5, nil
	}
	return false, nil
}

// requirementOutcome separates "requirement not met" from real errors.
func requirementOutcome(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrUnmetRequirement) || errors.Is(err, domain.ErrValidation) {
		return false, nil
	}
	return false, err
}

func (m *StateMachine) requireAllQuestionsAnswered(ctx context.Context, session domain.Session) error {
	questions, err := m.questions.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	answered, err := m.answers.CountBySession(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if len(questions) == 0 {
		return domain.UnmetRequirementf("no active questions configured")
	}
	if answered < len(questions) {
		return domain.UnmetRequirementf("all %d questions must be answered (%d answered)", len(questions), answered)
	}
	return nil
}

func (m *StateMachine) requireClusterRatings(ctx context.Context, session domain.Session) error {
	ratings, err := m.careers.ListClusterRatings(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if len(ratings) < domain.RequiredClusterRatings {
		return domain.UnmetRequirementf("All %d career clusters must be rated", domain.RequiredClusterRatings)
	}
	for _, r := range ratings {
		if r.Rating < 1 || r.Rating > 5 {
			return domain.Validationf("cluster %s rating %d outside 1..5", r.ClusterID, r.Rating)
		}
	}
	return nil
}

// runScoring loads the session's answers and the active question set
// and runs the pure pipeline over them.
func (m *StateMachine) runScoring(ctx context.Context, session domain.Session) (domain.PersonalityResult, error) {
	answers, err := m.answers.ListBySession(ctx, session.ID)
	if err != nil {
		return domain.PersonalityResult{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	questions, err := m.questions.ListActive(ctx)
	if err != nil {
		return domain.PersonalityResult{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return scoring.Score(answers, questions), nil
}

// applyResult writes the pipeline output onto the next snapshot.
func applyResult(next *domain.Session, result domain.PersonalityResult) {
	next.TypeCode = result.TypeCode
	next.Outcomes = make(map[domain.Dimension]domain.DimensionOutcome, len(result.Analyses))
	for _, a := range result.Analyses {
		next.Outcomes[a.Dimension] = domain.DimensionOutcome{
			Fraction: a.Fraction,
			Clarity:  a.Clarity,
		}
	}
}

// tiedDimensions recovers which dimensions were tie-broken from the
// persisted fractions: |signed score| < margin is equivalent to the
// fraction sitting within margin/2 of neutral.
func tiedDimensions(session domain.Session) []domain.Dimension {
	var tied []domain.Dimension
	for _, d := range domain.Dimensions {
		outcome, ok := session.Outcomes[d]
		if !ok {
			continue
		}
		if outcome.Fraction-0.5 < scoring.TieMargin/2 {
			tied = append(tied, d)
		}
	}
	return tied
}

// applyTieResolutions overrides tie-broken letters with the
// respondent's explicit choices. Only tied dimensions may be overridden
// and each chosen letter must belong to its dimension's pair.
func applyTieResolutions(next *domain.Session, tied []domain.Dimension, resolutions map[domain.Dimension]string) error {
	if len(resolutions) == 0 {
		return nil
	}
	tiedSet := make(map[domain.Dimension]bool, len(tied))
	for _, d := range tied {
		tiedSet[d] = true
	}

	code := []byte(next.TypeCode)
	if len(code) != len(domain.Dimensions) {
		return domain.Validationf("session has no resolvable type code")
	}
	for i, d := range domain.Dimensions {
		letter, ok := resolutions[d]
		if !ok {
			continue
		}
		if !tiedSet[d] {
			return domain.Validationf("dimension %s is not tied and cannot be overridden", d)
		}
		if !d.HasPole(letter) {
			return domain.Validationf("letter %q is not a pole of dimension %s", letter, d)
		}
		code[i] = letter[0]
	}
	next.TypeCode = string(code)
	return nil
}
