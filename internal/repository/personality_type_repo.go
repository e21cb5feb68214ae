package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"typeforge/internal/domain"
)

type PersonalityTypeRepository interface {
	GetByCode(ctx context.Context, code string) (domain.PersonalityType, error)
	List(ctx context.Context) ([]domain.PersonalityType, error)
}

type PgPersonalityTypeRepository struct {
	pool *pgxpool.Pool
}

func NewPgPersonalityTypeRepository(pool *pgxpool.Pool) *PgPersonalityTypeRepository {
	return &PgPersonalityTypeRepository{pool: pool}
}

const personalityTypeColumns = `
	id, code, name_en, name_ar, description_en, description_ar,
	strengths_en, strengths_ar, challenges_en, challenges_ar, created_at
`

func (r *PgPersonalityTypeRepository) GetByCode(ctx context.Context, code string) (domain.PersonalityType, error) {
	query := `SELECT ` + personalityTypeColumns + ` FROM personality_types WHERE code = $1`
	t, err := scanPersonalityType(r.pool.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PersonalityType{}, domain.NotFoundf("personality type %s", code)
	}
	return t, err
}

func (r *PgPersonalityTypeRepository) List(ctx context.Context) ([]domain.PersonalityType, error) {
	query := `SELECT ` + personalityTypeColumns + ` FROM personality_types ORDER BY code`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []domain.PersonalityType
	for rows.Next() {
		t, err := scanPersonalityType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func scanPersonalityType(row rowScanner) (domain.PersonalityType, error) {
	var t domain.PersonalityType
	err := row.Scan(
		&t.ID,
		&t.Code,
		&t.NameEn,
		&t.NameAr,
		&t.DescriptionEn,
		&t.DescriptionAr,
		&t.StrengthsEn,
		&t.StrengthsAr,
		&t.ChallengesEn,
		&t.ChallengesAr,
		&t.CreatedAt,
	)
	return t, err
}
