package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"typeforge/internal/domain"
)

type CareerRepository interface {
	ListClusters(ctx context.Context) ([]domain.CareerCluster, error)
	// UpsertClusterRating stores one cluster interest rating for a
	// session; re-rating a cluster replaces the previous value.
	UpsertClusterRating(ctx context.Context, rating domain.ClusterRating) error
	ListClusterRatings(ctx context.Context, sessionID string) ([]domain.ClusterRating, error)
	CountClusterRatings(ctx context.Context, sessionID string) (int, error)
	// ListMatchesForType returns the fit-matrix rows for a type code,
	// best score first.
	ListMatchesForType(ctx context.Context, typeCode string) ([]domain.CareerMatch, error)
}

type PgCareerRepository struct {
	pool *pgxpool.Pool
}

func NewPgCareerRepository(pool *pgxpool.Pool) *PgCareerRepository {
	return &PgCareerRepository{pool: pool}
}

func (r *PgCareerRepository) ListClusters(ctx context.Context) ([]domain.CareerCluster, error) {
	const query = `
		SELECT id, name_en, name_ar, description_en, description_ar
		FROM career_clusters
		ORDER BY name_en
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clusters []domain.CareerCluster
	for rows.Next() {
		var c domain.CareerCluster
		if err := rows.Scan(&c.ID, &c.NameEn, &c.NameAr, &c.DescriptionEn, &c.DescriptionAr); err != nil {
			return nil, err
		}
		clusters = append(clusters, c)
	}
	return clusters, rows.Err()
}

func (r *PgCareerRepository) UpsertClusterRating(ctx context.Context, rating domain.ClusterRating) error {
	const query = `
		INSERT INTO cluster_ratings (session_id, cluster_id, rating, rated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, cluster_id)
		DO UPDATE SET
			rating = EXCLUDED.rating,
			rated_at = EXCLUDED.rated_at
	`
	_, err := r.pool.Exec(ctx, query,
		rating.SessionID,
		rating.ClusterID,
		rating.Rating,
		rating.RatedAt,
	)
	return err
}

func (r *PgCareerRepository) ListClusterRatings(ctx context.Context, sessionID string) ([]domain.ClusterRating, error) {
	const query = `
		SELECT session_id, cluster_id, rating, rated_at
		FROM cluster_ratings
		WHERE session_id = $1
		ORDER BY cluster_id
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []domain.ClusterRating
	for rows.Next() {
		var rt domain.ClusterRating
		if err := rows.Scan(&rt.SessionID, &rt.ClusterID, &rt.Rating, &rt.RatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

func (r *PgCareerRepository) CountClusterRatings(ctx context.Context, sessionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM cluster_ratings WHERE session_id = $1`
	var count int
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&count)
	return count, err
}

func (r *PgCareerRepository) ListMatchesForType(ctx context.Context, typeCode string) ([]domain.CareerMatch, error) {
	const query = `
		SELECT c.id, c.name_en, c.name_ar, cl.id, cl.name_en, cl.name_ar,
			COALESCE(c.ssoc_code, ''), m.match_score
		FROM personality_career_matches m
		JOIN personality_types t ON t.id = m.personality_type_id
		JOIN careers c ON c.id = m.career_id
		JOIN career_clusters cl ON cl.id = c.cluster_id
		WHERE t.code = $1 AND c.is_active = TRUE
		ORDER BY m.match_score DESC, c.name_en
	`
	rows, err := r.pool.Query(ctx, query, typeCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.CareerMatch
	for rows.Next() {
		var m domain.CareerMatch
		if err := rows.Scan(
			&m.CareerID, &m.NameEn, &m.NameAr,
			&m.ClusterID, &m.ClusterEn, &m.ClusterAr,
			&m.SSOCCode, &m.MatchScore,
		); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
