package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"typeforge/internal/domain"
	"typeforge/internal/repository"
)

// AssessmentService is the upward-facing surface of the assessment
// flow. It owns session lookup and input validation and delegates every
// stage change to the state machine.
type AssessmentService struct {
	machine   *StateMachine
	sessions  repository.SessionRepository
	answers   repository.AnswerRepository
	questions repository.QuestionRepository
	types     repository.PersonalityTypeRepository
	careers   repository.CareerRepository
	defaults  SessionDefaults
	logger    *zap.Logger
	now       func() time.Time
}

// SessionDefaults holds the deployment-wide fallbacks applied when a
// new session does not specify a mode or language.
type SessionDefaults struct {
	Mode     domain.DeploymentMode
	Language string
}

// normalize replaces unknown values with the built-in fallbacks so a
// misconfigured deployment still produces valid sessions.
func (d SessionDefaults) normalize() SessionDefaults {
	if d.Mode != domain.ModeStandard && d.Mode != domain.ModeMawhiba {
		d.Mode = domain.ModeStandard
	}
	if d.Language != "en" && d.Language != "ar" {
		d.Language = "en"
	}
	return d
}

func NewAssessmentService(
	machine *StateMachine,
	sessions repository.SessionRepository,
	answers repository.AnswerRepository,
	questions repository.QuestionRepository,
	types repository.PersonalityTypeRepository,
	careers repository.CareerRepository,
	defaults SessionDefaults,
	logger *zap.Logger,
) *AssessmentService {
	return &AssessmentService{
		machine:   machine,
		sessions:  sessions,
		answers:   answers,
		questions: questions,
		types:     types,
		careers:   careers,
		defaults:  defaults.normalize(),
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// StartSessionInput carries the optional respondent data for a new session.
type StartSessionInput struct {
	StudentName  string
	StudentEmail string
	Mode         string
	Language     string
}

// StartSession creates a session at the initial stage. Unknown modes
// and languages fall back to the configured defaults rather than failing.
func (s *AssessmentService) StartSession(ctx context.Context, input StartSessionInput) (domain.Session, error) {
	mode := domain.DeploymentMode(input.Mode)
	if mode != domain.ModeStandard && mode != domain.ModeMawhiba {
		mode = s.defaults.Mode
	}
	language := input.Language
	if language != "en" && language != "ar" {
		language = s.defaults.Language
	}

	now := s.now()
	session := domain.Session{
		ID:           uuid.NewString(),
		Token:        uuid.NewString(),
		StudentName:  input.StudentName,
		StudentEmail: input.StudentEmail,
		Mode:         mode,
		Language:     language,
		Stage:        domain.StageAnswerQuestions,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.logger.Info("assessment session started",
		zap.String("session_id", session.ID),
		zap.String("mode", string(mode)),
	)
	return session, nil
}

// GetQuestions returns the active question set in presentation order.
func (s *AssessmentService) GetQuestions(ctx context.Context) ([]domain.Question, error) {
	return s.questions.ListActive(ctx)
}

// QuestionView is one question rendered in a single language.
type QuestionView struct {
	ID          string           `json:"id"`
	OrderNumber int              `json:"order_number"`
	Dimension   domain.Dimension `json:"dimension"`
	Text        string           `json:"text"`
	OptionAText string           `json:"option_a_text"`
	OptionBText string           `json:"option_b_text"`
}

// GetLocalizedQuestions renders the active question set in the
// requested language. Unknown languages fall back to the configured
// default.
func (s *AssessmentService) GetLocalizedQuestions(ctx context.Context, language string) ([]QuestionView, error) {
	if language != "en" && language != "ar" {
		language = s.defaults.Language
	}
	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, QuestionView{
			ID:          q.ID,
			OrderNumber: q.OrderNumber,
			Dimension:   q.Dimension,
			Text:        q.Text(language),
			OptionAText: q.OptionText(domain.OptionFirst, language),
			OptionBText: q.OptionText(domain.OptionSecond, language),
		})
	}
	return views, nil
}

// AnswerProgress reports how far through the questionnaire a session is.
type AnswerProgress struct {
	Answered   int     `json:"answered"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Complete   bool    `json:"complete"`
}

// ProcessAnswerSubmission records one forced choice. Answers are only
// accepted while the session is in the answering stage; resubmitting a
// question replaces the stored choice.
func (s *AssessmentService) ProcessAnswerSubmission(ctx context.Context, token, questionID, selectedOption string) (AnswerProgress, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return AnswerProgress{}, err
	}
	if session.Completed {
		return AnswerProgress{}, domain.UnmetRequirementf("assessment already completed")
	}
	if session.Stage != domain.StageAnswerQuestions {
		return AnswerProgress{}, domain.UnmetRequirementf("answers can only be submitted during the question stage")
	}

	option, ok := domain.ParseAnswerOption(selectedOption)
	if !ok {
		return AnswerProgress{}, domain.Validationf("selected option must be %q or %q", domain.OptionFirst, domain.OptionSecond)
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return AnswerProgress{}, err
	}
	if !question.IsActive {
		return AnswerProgress{}, domain.NotFoundf("question %s is not active", questionID)
	}

	answer := domain.Answer{
		ID:             uuid.NewString(),
		SessionID:      session.ID,
		QuestionID:     question.ID,
		SelectedOption: option,
		AnsweredAt:     s.now(),
	}
	if err := s.answers.Upsert(ctx, answer); err != nil {
		return AnswerProgress{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	return s.answerProgress(ctx, session.ID)
}

func (s *AssessmentService) answerProgress(ctx context.Context, sessionID string) (AnswerProgress, error) {
	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return AnswerProgress{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	answered, err := s.answers.CountBySession(ctx, sessionID)
	if err != nil {
		return AnswerProgress{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	progress := AnswerProgress{Answered: answered, Total: len(questions)}
	if progress.Total > 0 {
		progress.Percentage = math.Round(float64(answered)/float64(progress.Total)*10000) / 100
		progress.Complete = answered >= progress.Total
	}
	return progress, nil
}

// ClusterRatingInput is one cluster interest rating on the 1..5 scale.
type ClusterRatingInput struct {
	ClusterID string `json:"cluster_id"`
	Rating    int    `json:"rating"`
}

// ProcessClusterRatingSubmission stores cluster ratings and, once all
// required clusters are rated, advances the session into the
// calculation stage, which runs the scoring pipeline. With fewer than
// the required ratings the stored stage is left unchanged and the
// caller gets an unmet-requirement failure.
func (s *AssessmentService) ProcessClusterRatingSubmission(ctx context.Context, token string, ratings []ClusterRatingInput) (TransitionResult, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return TransitionResult{}, err
	}
	if session.Stage != domain.StageRateCareerClusters {
		return TransitionResult{}, domain.UnmetRequirementf("cluster ratings can only be submitted during the cluster rating stage")
	}

	for _, r := range ratings {
		if r.ClusterID == "" {
			return TransitionResult{}, domain.Validationf("cluster id is required")
		}
		if r.Rating < 1 || r.Rating > 5 {
			return TransitionResult{}, domain.Validationf("cluster %s rating %d outside 1..5", r.ClusterID, r.Rating)
		}
	}
	now := s.now()
	for _, r := range ratings {
		rating := domain.ClusterRating{
			SessionID: session.ID,
			ClusterID: r.ClusterID,
			Rating:    r.Rating,
			RatedAt:   now,
		}
		if err := s.careers.UpsertClusterRating(ctx, rating); err != nil {
			return TransitionResult{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
	}

	count, err := s.careers.CountClusterRatings(ctx, session.ID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if count < domain.RequiredClusterRatings {
		return TransitionResult{}, domain.UnmetRequirementf("All %d career clusters must be rated", domain.RequiredClusterRatings)
	}

	return s.machine.AttemptTransition(ctx, session, domain.StageCalculateAssessment, TransitionPayload{})
}

// ProcessTieBreakerResolution applies the respondent's letter choices
// for tied dimensions and advances the session to the rating stage.
func (s *AssessmentService) ProcessTieBreakerResolution(ctx context.Context, token string, resolutions map[string]string) (TransitionResult, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return TransitionResult{}, err
	}
	if session.Stage != domain.StageTieResolvement {
		return TransitionResult{}, domain.UnmetRequirementf("no tie resolution is pending for this session")
	}

	parsed := make(map[domain.Dimension]string, len(resolutions))
	for raw, letter := range resolutions {
		d, err := domain.ParseDimension(raw)
		if err != nil {
			return TransitionResult{}, domain.Validationf("%v", err)
		}
		parsed[d] = letter
	}

	return s.machine.AttemptTransition(ctx, session, domain.StageRateAssessment, TransitionPayload{TieResolutions: parsed})
}

// ProcessAssessmentRating records the respondent's rating of the
// assessment itself and moves the session to the terminal report stage.
func (s *AssessmentService) ProcessAssessmentRating(ctx context.Context, token string, rating int) (TransitionResult, error) {
	if rating < 1 || rating > 5 {
		return TransitionResult{}, domain.Validationf("assessment rating %d outside 1..5", rating)
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return TransitionResult{}, err
	}
	return s.machine.AttemptTransition(ctx, session, domain.StageReport, TransitionPayload{AssessmentRating: rating})
}

// AttemptTransition is the generic transition entry point for callers
// that drive the flow explicitly.
func (s *AssessmentService) AttemptTransition(ctx context.Context, token, target string, payload TransitionPayload) (TransitionResult, error) {
	stage, ok := domain.ParseStage(target)
	if !ok {
		return TransitionResult{}, domain.Validationf("unknown stage %q", target)
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return TransitionResult{}, err
	}
	return s.machine.AttemptTransition(ctx, session, stage, payload)
}

// StateInfo is the session's current position in the flow.
type StateInfo struct {
	Session            domain.Session `json:"session"`
	Progress           int            `json:"progress"`
	AllowedTransitions []domain.Stage `json:"allowed_transitions"`
	Answers            AnswerProgress `json:"answers"`
}

// GetCurrentStateInfo reports the stage, its fixed progress percentage,
// the transitions whose requirements currently hold, and answer counts.
func (s *AssessmentService) GetCurrentStateInfo(ctx context.Context, token string) (StateInfo, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return StateInfo{}, err
	}
	allowed, err := s.machine.AllowedTransitions(ctx, session)
	if err != nil {
		return StateInfo{}, err
	}
	progress, err := s.answerProgress(ctx, session.ID)
	if err != nil {
		return StateInfo{}, err
	}
	return StateInfo{
		Session:            session,
		Progress:           ProgressPercentage(session.Stage),
		AllowedTransitions: allowed,
		Answers:            progress,
	}, nil
}

// ResultsView joins a session's persisted result with its personality
// type description. TypeName is the display name picked for the
// session's language.
type ResultsView struct {
	Session  domain.Session         `json:"session"`
	Type     domain.PersonalityType `json:"personality_type"`
	TypeName string                 `json:"type_name"`
}

// GetResults returns the persisted result for a session that has been
// through the calculation stage.
func (s *AssessmentService) GetResults(ctx context.Context, token string) (ResultsView, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return ResultsView{}, err
	}
	if !session.HasResult() {
		return ResultsView{}, domain.UnmetRequirementf("results have not been calculated yet")
	}
	personalityType, err := s.types.GetByCode(ctx, session.TypeCode)
	if err != nil {
		return ResultsView{}, err
	}
	return ResultsView{
		Session:  session,
		Type:     personalityType,
		TypeName: personalityType.Name(session.Language),
	}, nil
}

// ListSessions exposes recent sessions for administration.
func (s *AssessmentService) ListSessions(ctx context.Context, limit, offset int) ([]domain.Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessions.ListRecent(ctx, limit, offset)
}
