package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"typeforge/internal/domain"
	"typeforge/internal/repository"
)

// Weights for the blended career ranking. The base fit matrix carries
// most of the signal; the respondent's own cluster interest shifts the
// ordering without drowning it out.
const (
	matchScoreWeight      = 0.7
	clusterInterestWeight = 0.3
	neutralClusterRating  = 3
)

// RankedCareer is one career recommendation with its blended score.
type RankedCareer struct {
	domain.CareerMatch
	ClusterRating int     `json:"cluster_rating,omitempty"`
	FinalScore    float64 `json:"final_score"`
}

// CareerService ranks careers for a completed session by blending the
// type-career fit matrix with the session's cluster interest ratings.
type CareerService struct {
	sessions repository.SessionRepository
	careers  repository.CareerRepository
	logger   *zap.Logger
}

func NewCareerService(sessions repository.SessionRepository, careers repository.CareerRepository, logger *zap.Logger) *CareerService {
	return &CareerService{sessions: sessions, careers: careers, logger: logger}
}

// ListClusters returns the rateable career clusters.
func (s *CareerService) ListClusters(ctx context.Context) ([]domain.CareerCluster, error) {
	return s.careers.ListClusters(ctx)
}

// RecommendationsForSession ranks careers for the session's resolved
// type. A cluster the respondent never rated contributes a neutral
// interest score. The result is ordered best first and truncated to
// limit when limit is positive.
func (s *CareerService) RecommendationsForSession(ctx context.Context, token string, limit int) ([]RankedCareer, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.HasResult() {
		return nil, domain.UnmetRequirementf("career recommendations require a calculated result")
	}

	matches, err := s.careers.ListMatchesForType(ctx, session.TypeCode)
	if err != nil {
		return nil, err
	}
	ratings, err := s.careers.ListClusterRatings(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	byCluster := make(map[string]int, len(ratings))
	for _, r := range ratings {
		byCluster[r.ClusterID] = r.Rating
	}

	ranked := make([]RankedCareer, 0, len(matches))
	for _, m := range matches {
		rating, rated := byCluster[m.ClusterID]
		if !rated {
			rating = neutralClusterRating
		}
		interest := float64(rating-1) / 4
		entry := RankedCareer{
			CareerMatch: m,
			FinalScore:  matchScoreWeight*m.MatchScore + clusterInterestWeight*interest,
		}
		if rated {
			entry.ClusterRating = rating
		}
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return ranked[i].NameEn < ranked[j].NameEn
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	s.logger.Debug("ranked careers for session",
		zap.String("session_id", session.ID),
		zap.String("type_code", session.TypeCode),
		zap.Int("careers", len(ranked)),
	)
	return ranked, nil
}
