package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"typeforge/internal/domain"
)

type QuestionRepository interface {
	// ListActive returns the active question set ordered by order_number.
	ListActive(ctx context.Context) ([]domain.Question, error)
	GetByID(ctx context.Context, id string) (domain.Question, error)
}

type PgQuestionRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuestionRepository(pool *pgxpool.Pool) *PgQuestionRepository {
	return &PgQuestionRepository{pool: pool}
}

const questionColumns = `
	id, order_number, dimension,
	text_en, text_ar,
	option_a_text_en, option_a_text_ar,
	option_b_text_en, option_b_text_ar,
	option_a_maps_to_first, is_active, created_at, updated_at
`

func (r *PgQuestionRepository) ListActive(ctx context.Context) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + `
		FROM questions
		WHERE is_active = TRUE
		ORDER BY order_number
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *PgQuestionRepository) GetByID(ctx context.Context, id string) (domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	q, err := scanQuestion(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.NotFoundf("question %s", id)
	}
	return q, err
}

func scanQuestion(row rowScanner) (domain.Question, error) {
	var (
		q         domain.Question
		dimension string
	)
	err := row.Scan(
		&q.ID,
		&q.OrderNumber,
		&dimension,
		&q.TextEn,
		&q.TextAr,
		&q.OptionATextEn,
		&q.OptionATextAr,
		&q.OptionBTextEn,
		&q.OptionBTextAr,
		&q.OptionAMapsToFirst,
		&q.IsActive,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		return domain.Question{}, err
	}
	q.Dimension = domain.Dimension(dimension)
	return q, nil
}
