package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"typeforge/internal/domain"
)

// In-memory repository fakes shared by the service tests.

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, domain.NotFoundf("session %s", id)
	}
	return s.Clone(), nil
}

func (r *fakeSessionRepo) GetByToken(_ context.Context, token string) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.Token == token {
			return s.Clone(), nil
		}
	}
	return domain.Session{}, domain.NotFoundf("session token %s", token)
}

func (r *fakeSessionRepo) UpdateSnapshot(_ context.Context, session domain.Session, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.sessions[session.ID]
	if !ok {
		return domain.NotFoundf("session %s", session.ID)
	}
	if stored.Version != expectedVersion {
		return domain.ErrConflict
	}
	r.sessions[session.ID] = session.Clone()
	return nil
}

func (r *fakeSessionRepo) ListRecent(_ context.Context, limit, _ int) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.Clone())
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAnswerRepo struct {
	mu      sync.Mutex
	answers map[string]map[string]domain.Answer
}

func newFakeAnswerRepo() *fakeAnswerRepo {
	return &fakeAnswerRepo{answers: make(map[string]map[string]domain.Answer)}
}

func (r *fakeAnswerRepo) Upsert(_ context.Context, answer domain.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.answers[answer.SessionID] == nil {
		r.answers[answer.SessionID] = make(map[string]domain.Answer)
	}
	r.answers[answer.SessionID][answer.QuestionID] = answer
	return nil
}

func (r *fakeAnswerRepo) ListBySession(_ context.Context, sessionID string) ([]domain.Answer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Answer
	for _, a := range r.answers[sessionID] {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAnswerRepo) CountBySession(_ context.Context, sessionID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.answers[sessionID]), nil
}

type fakeQuestionRepo struct {
	questions []domain.Question
}

func (r *fakeQuestionRepo) ListActive(_ context.Context) ([]domain.Question, error) {
	var out []domain.Question
	for _, q := range r.questions {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) GetByID(_ context.Context, id string) (domain.Question, error) {
	for _, q := range r.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return domain.Question{}, domain.NotFoundf("question %s", id)
}

type fakeCareerRepo struct {
	mu       sync.Mutex
	clusters []domain.CareerCluster
	ratings  map[string]map[string]domain.ClusterRating
	matches  map[string][]domain.CareerMatch
}

func newFakeCareerRepo() *fakeCareerRepo {
	return &fakeCareerRepo{
		ratings: make(map[string]map[string]domain.ClusterRating),
		matches: make(map[string][]domain.CareerMatch),
	}
}

func (r *fakeCareerRepo) ListClusters(_ context.Context) ([]domain.CareerCluster, error) {
	return r.clusters, nil
}

func (r *fakeCareerRepo) UpsertClusterRating(_ context.Context, rating domain.ClusterRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ratings[rating.SessionID] == nil {
		r.ratings[rating.SessionID] = make(map[string]domain.ClusterRating)
	}
	r.ratings[rating.SessionID][rating.ClusterID] = rating
	return nil
}

func (r *fakeCareerRepo) ListClusterRatings(_ context.Context, sessionID string) ([]domain.ClusterRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ClusterRating
	for _, rating := range r.ratings[sessionID] {
		out = append(out, rating)
	}
	return out, nil
}

func (r *fakeCareerRepo) CountClusterRatings(_ context.Context, sessionID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ratings[sessionID]), nil
}

func (r *fakeCareerRepo) ListMatchesForType(_ context.Context, typeCode string) ([]domain.CareerMatch, error) {
	return r.matches[typeCode], nil
}

type fakeTypeRepo struct {
	types map[string]domain.PersonalityType
}

func (r *fakeTypeRepo) GetByCode(_ context.Context, code string) (domain.PersonalityType, error) {
	t, ok := r.types[code]
	if !ok {
		return domain.PersonalityType{}, domain.NotFoundf("personality type %s", code)
	}
	return t, nil
}

func (r *fakeTypeRepo) List(_ context.Context) ([]domain.PersonalityType, error) {
	out := make([]domain.PersonalityType, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	return out, nil
}

// questionSet builds perDim active questions for every dimension, all
// with option A mapping to the first pole.
func questionSet(perDim int) []domain.Question {
	var out []domain.Question
	order := 1
	for _, d := range domain.Dimensions {
		for i := 0; i < perDim; i++ {
			out = append(out, domain.Question{
				ID:                 fmt.Sprintf("%s-%d", d, i+1),
				OrderNumber:        order,
				Dimension:          d,
				OptionAMapsToFirst: true,
				IsActive:           true,
			})
			order++
		}
	}
	return out
}

func seedSession(repo *fakeSessionRepo, stage domain.Stage) domain.Session {
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

func seedAnswers(repo *fakeAnswerRepo, sessionID string, questions []domain.Question, pick func(domain.Question) domain.AnswerOption) {
	for i, q := range questions {
		_ = repo.Upsert(context.Background(), domain.Answer{
			ID:             fmt.Sprintf("ans-%d", i+1),
			SessionID:      sessionID,
			QuestionID:     q.ID,
			SelectedOption: pick(q),
		})
	}
}

func seedClusterRatings(repo *fakeCareerRepo, sessionID string, count int) {
	for i := 0; i < count; i++ {
		_ = repo.UpsertClusterRating(context.Background(), domain.ClusterRating{
			SessionID: sessionID,
			ClusterID: fmt.Sprintf("cluster-%02d", i+1),
			Rating:    3,
		})
	}
}
