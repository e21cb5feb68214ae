package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"typeforge/internal/domain"
	"typeforge/internal/service"
)

type mockSessionRepo struct {
	sessions map[string]domain.Session
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]domain.Session)}
}

func (m *mockSessionRepo) Create(_ context.Context, session domain.Session) error {
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *mockSessionRepo) GetByID(_ context.Context, id string) (domain.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return domain.Session{}, domain.NotFoundf("session %s", id)
	}
	return s.Clone(), nil
}

func (m *mockSessionRepo) GetByToken(_ context.Context, token string) (domain.Session, error) {
	for _, s := range m.sessions {
		if s.Token == token {
			return s.Clone(), nil
		}
	}
	return domain.Session{}, domain.NotFoundf("session token %s", token)
}

func (m *mockSessionRepo) UpdateSnapshot(_ context.Context, session domain.Session, expectedVersion int) error {
	stored, ok := m.sessions[session.ID]
	if !ok {
		return domain.NotFoundf("session %s", session.ID)
	}
	if stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *mockSessionRepo) ListRecent(_ context.Context, limit, _ int) ([]domain.Session, error) {
	out := make([]domain.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type mockAnswerRepo struct {
	answers map[string]map[string]domain.Answer
}

func newMockAnswerRepo() *mockAnswerRepo {
	return &mockAnswerRepo{answers: make(map[string]map[string]domain.Answer)}
}

func (m *mockAnswerRepo) Upsert(_ context.Context, answer domain.Answer) error {
	if m.answers[answer.SessionID] == nil {
		m.answers[answer.SessionID] = make(map[string]domain.Answer)
	}
	m.answers[answer.SessionID][answer.QuestionID] = answer
	return nil
}

func (m *mockAnswerRepo) ListBySession(_ context.Context, sessionID string) ([]domain.Answer, error) {
	var out []domain.Answer
	for _, a := range m.answers[sessionID] {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAnswerRepo) CountBySession(_ context.Context, sessionID string) (int, error) {
	return len(m.answers[sessionID]), nil
}

type mockQuestionRepo struct {
	questions []domain.Question
}

func (m *mockQuestionRepo) ListActive(_ context.Context) ([]domain.Question, error) {
	return m.questions, nil
}

func (m *mockQuestionRepo) GetByID(_ context.Context, id string) (domain.Question, error) {
	for _, q := range m.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.NotFoundf("question %s", id)
}

type mockCareerRepo struct {
	clusters []domain.CareerCluster
	ratings  map[string]map[string]domain.ClusterRating
	matches  map[string][]domain.CareerMatch
}

func newMockCareerRepo() *mockCareerRepo {
	return &mockCareerRepo{
		ratings: make(map[string]map[string]domain.ClusterRating),
		matches: make(map[string][]domain.CareerMatch),
	}
}

func (m *mockCareerRepo) ListClusters(_ context.Context) ([]domain.CareerCluster, error) {
	return m.clusters, nil
}

func (m *mockCareerRepo) UpsertClusterRating(_ context.Context, rating domain.ClusterRating) error {
	if m.ratings[rating.SessionID] == nil {
		m.ratings[rating.SessionID] = make(map[string]domain.ClusterRating)
	}
	m.ratings[rating.SessionID][rating.ClusterID] = rating
	return nil
}

func (m *mockCareerRepo) ListClusterRatings(_ context.Context, sessionID string) ([]domain.ClusterRating, error) {
	var out []domain.ClusterRating
	for _, r := range m.ratings[sessionID] {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockCareerRepo) CountClusterRatings(_ context.Context, sessionID string) (int, error) {
	return len(m.ratings[sessionID]), nil
}

func (m *mockCareerRepo) ListMatchesForType(_ context.Context, typeCode string) ([]domain.CareerMatch, error) {
	return m.matches[typeCode], nil
}

type mockTypeRepo struct {
	types map[string]domain.PersonalityType
}

func (m *mockTypeRepo) GetByCode(_ context.Context, code string) (domain.PersonalityType, error) {
	t, ok := m.types[code]
	if !ok {
		return domain.PersonalityType{}, domain.NotFoundf("personality type %s", code)
	}
	return t, nil
}

func (m *mockTypeRepo) List(_ context.Context) ([]domain.PersonalityType, error) {
	out := make([]domain.PersonalityType, 0, len(m.types))
	for _, t := range m.types {
		out = append(out, t)
	}
	return out, nil
}

// routerFixture wires real services over the mocks behind a full router.
type routerFixture struct {
	sessions  *mockSessionRepo
	answers   *mockAnswerRepo
	questions *mockQuestionRepo
	careers   *mockCareerRepo
	types     *mockTypeRepo
	tokens    *service.TokenService
	limiter   service.SubmissionRateLimiter
}

func newRouterFixture(questions []domain.Question) *routerFixture {
	return &routerFixture{
		sessions:  newMockSessionRepo(),
		answers:   newMockAnswerRepo(),
		questions: &mockQuestionRepo{questions: questions},
		careers:   newMockCareerRepo(),
		types:     &mockTypeRepo{types: make(map[string]domain.PersonalityType)},
		tokens:    service.NewTokenServiceWithStore("test-secret", 15*time.Minute, time.Hour, service.NewMemoryRefreshTokenStore()),
	}
}

// engine builds the full gin router over the fixture, with the given
// bcrypt hash guarding the admin login.
func (f *routerFixture) engine(adminPasswordHash string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	machine := service.NewStateMachine(f.sessions, f.answers, f.questions, f.careers, logger)
	assessments := service.NewAssessmentService(machine, f.sessions, f.answers, f.questions, f.types, f.careers, service.SessionDefaults{}, logger)
	careers := service.NewCareerService(f.sessions, f.careers, logger)
	auth := service.NewAuthService("admin", adminPasswordHash, f.tokens, logger)

	assessmentH := NewAssessmentHandler(logger, assessments, f.limiter)
	careerH := NewCareerHandler(logger, careers)
	adminH := NewAdminHandler(logger, auth, assessments)
	return NewRouter(logger, assessmentH, careerH, adminH, f.tokens)
}

func testQuestions(perDim int) []domain.Question {
	var out []domain.Question
	order := 1
	for _, d := range domain.Dimensions {
		for i := 0; i < perDim; i++ {
			id := fmt.Sprintf("%s-%d", d, i+1)
			out = append(out, domain.Question{
				ID:                 id,
				OrderNumber:        order,
				Dimension:          d,
				TextEn:             "question " + id,
				TextAr:             "سؤال " + id,
				OptionATextEn:      "option A " + id,
				OptionATextAr:      "الخيار أ " + id,
				OptionBTextEn:      "option B " + id,
				OptionBTextAr:      "الخيار ب " + id,
				OptionAMapsToFirst: true,
				IsActive:           true,
			})
			order++
		}
	}
	return out
}

func seedTestSession(repo *mockSessionRepo, stage domain.Stage) domain.Session {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	session := domain.Session{
		ID:        "sess-1",
		Token:     "tok-1",
		Mode:      domain.ModeStandard,
		Language:  "en",
		Stage:     stage,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = repo.Create(context.Background(), session)
	return session
}
