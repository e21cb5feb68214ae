package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"typeforge/internal/domain"
)

func TestCareerRecommendationsEndpoint(t *testing.T) {
	f := newRouterFixture(testQuestions(2))
	engine := f.engine("")

	session := seedTestSession(f.sessions, domain.StageReport)
	session.TypeCode = "INTJ"
	session.Version = 2
	if err := f.sessions.UpdateSnapshot(context.Background(), session, 1); err != nil {
		t.Fatalf("seed: %v", err)
	}
	f.careers.matches["INTJ"] = []domain.CareerMatch{
		{CareerID: "c1", NameEn: "Software Engineer", ClusterID: "tech", MatchScore: 0.9},
		{CareerID: "c2", NameEn: "Data Analyst", ClusterID: "tech", MatchScore: 0.8},
	}

	rec := doJSON(t, engine, http.MethodGet, "/assessment/sessions/tok-1/careers?limit=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("total = %d, want 1 with limit", resp.Total)
	}
}

func TestCareerRecommendationsBeforeResult(t *testing.T) {
	f := newRouterFixture(testQuestions(2))
	engine := f.engine("")
	seedTestSession(f.sessions, domain.StageAnswerQuestions)

	rec := doJSON(t, engine, http.MethodGet, "/assessment/sessions/tok-1/careers", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCareerRecommendationsBadLimit(t *testing.T) {
	f := newRouterFixture(testQuestions(2))
	engine := f.engine("")
	seedTestSession(f.sessions, domain.StageAnswerQuestions)

	rec := doJSON(t, engine, http.MethodGet, "/assessment/sessions/tok-1/careers?limit=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListClustersEndpoint(t *testing.T) {
	f := newRouterFixture(nil)
	f.careers.clusters = []domain.CareerCluster{
		{ID: "tech", NameEn: "Technology"},
		{ID: "health", NameEn: "Health Science"},
	}
	engine := f.engine("")

	rec := doJSON(t, engine, http.MethodGet, "/careers/clusters", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Clusters []domain.CareerCluster `json:"clusters"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(resp.Clusters))
	}
}
