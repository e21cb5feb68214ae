package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"typeforge/internal/domain"
)

type AnswerRepository interface {
	// Upsert stores one answer; resubmitting the same question for the
	// same session replaces the stored option.
	Upsert(ctx context.Context, answer domain.Answer) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Answer, error)
	CountBySession(ctx context.Context, sessionID string) (int, error)
}

type PgAnswerRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnswerRepository(pool *pgxpool.Pool) *PgAnswerRepository {
	return &PgAnswerRepository{pool: pool}
}

func (r *PgAnswerRepository) Upsert(ctx context.Context, answer domain.Answer) error {
	const query = `
		INSERT INTO assessment_answers (id, session_id, question_id, selected_option, answered_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, question_id)
		DO UPDATE SET
			selected_option = EXCLUDED.selected_option,
			answered_at = EXCLUDED.answered_at
	`
	_, err := r.pool.Exec(ctx, query,
		answer.ID,
		answer.SessionID,
		answer.QuestionID,
		string(answer.SelectedOption),
		answer.AnsweredAt,
	)
	return err
}

func (r *PgAnswerRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.Answer, error) {
	const query = `
		SELECT id, session_id, question_id, selected_option, answered_at
		FROM assessment_answers
		WHERE session_id = $1
		ORDER BY answered_at, question_id
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []domain.Answer
	for rows.Next() {
		var (
			a      domain.Answer
			option string
		)
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &option, &a.AnsweredAt); err != nil {
			return nil, err
		}
		a.SelectedOption = domain.AnswerOption(option)
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

func (r *PgAnswerRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM assessment_answers WHERE session_id = $1`
	var count int
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(&count)
	return count, err
}
