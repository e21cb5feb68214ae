package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"typeforge/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
	GetByToken(ctx context.Context, token string) (domain.Session, error)
	// UpdateSnapshot commits a full session snapshot. The write only
	// lands when the stored row still carries expectedVersion; a stale
	// writer gets domain.ErrConflict and must re-read and retry.
	UpdateSnapshot(ctx context.Context, session domain.Session, expectedVersion int) error
	ListRecent(ctx context.Context, limit, offset int) ([]domain.Session, error)
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

const sessionColumns = `
	id, token, student_name, student_email, deployment_mode, language,
	stage, type_code,
	ei_fraction, sn_fraction, tf_fraction, jp_fraction,
	ei_clarity, sn_clarity, tf_clarity, jp_clarity,
	assessment_rating, completed, version, created_at, updated_at
`

func (r *PgSessionRepository) Create(ctx context.Context, session domain.Session) error {
	const query = `
		INSERT INTO assessment_sessions (
			id, token, student_name, student_email, deployment_mode, language,
			stage, completed, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.Token,
		session.StudentName,
		session.StudentEmail,
		string(session.Mode),
		session.Language,
		string(session.Stage),
		session.Completed,
		session.Version,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	return r.getWhere(ctx, "id = $1", id)
}

func (r *PgSessionRepository) GetByToken(ctx context.Context, token string) (domain.Session, error) {
	return r.getWhere(ctx, "token = $1", token)
}

func (r *PgSessionRepository) getWhere(ctx context.Context, cond string, arg any) (domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM assessment_sessions WHERE ` + cond
	row := r.pool.QueryRow(ctx, query, arg)
	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, domain.NotFoundf("session %v", arg)
	}
	return session, err
}

func (r *PgSessionRepository) UpdateSnapshot(ctx context.Context, session domain.Session, expectedVersion int) error {
	const query = `
		UPDATE assessment_sessions SET
			stage = $1,
			type_code = $2,
			ei_fraction = $3, sn_fraction = $4, tf_fraction = $5, jp_fraction = $6,
			ei_clarity = $7, sn_clarity = $8, tf_clarity = $9, jp_clarity = $10,
			assessment_rating = $11,
			completed = $12,
			version = $13,
			updated_at = $14
		WHERE id = $15 AND version = $16
	`
	fractions, clarities := outcomeColumns(session.Outcomes)
	tag, err := r.pool.Exec(ctx, query,
		string(session.Stage),
		nullString(session.TypeCode),
		fractions[0], fractions[1], fractions[2], fractions[3],
		clarities[0], clarities[1], clarities[2], clarities[3],
		nullInt(session.AssessmentRating),
		session.Completed,
		session.Version,
		session.UpdatedAt,
		session.ID,
		expectedVersion,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *PgSessionRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM assessment_sessions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session            domain.Session
		mode, stage        string
		typeCode           sql.NullString
		fractions          [4]sql.NullFloat64
		clarities          [4]sql.NullString
		rating             sql.NullInt64
	)
	err := row.Scan(
		&session.ID,
		&session.Token,
		&session.StudentName,
		&session.StudentEmail,
		&mode,
		&session.Language,
		&stage,
		&typeCode,
		&fractions[0], &fractions[1], &fractions[2], &fractions[3],
		&clarities[0], &clarities[1], &clarities[2], &clarities[3],
		&rating,
		&session.Completed,
		&session.Version,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return domain.Session{}, err
	}
	session.Mode = domain.DeploymentMode(mode)
	session.Stage = domain.Stage(stage)
	session.TypeCode = typeCode.String
	if rating.Valid {
		session.AssessmentRating = int(rating.Int64)
	}
	for i, d := range domain.Dimensions {
		if !fractions[i].Valid {
			continue
		}
		if session.Outcomes == nil {
			session.Outcomes = make(map[domain.Dimension]domain.DimensionOutcome, 4)
		}
		session.Outcomes[d] = domain.DimensionOutcome{
			Fraction: fractions[i].Float64,
			Clarity:  domain.Clarity(clarities[i].String),
		}
	}
	return session, nil
}

func outcomeColumns(outcomes map[domain.Dimension]domain.DimensionOutcome) (fractions [4]any, clarities [4]any) {
	for i, d := range domain.Dimensions {
		outcome, ok := outcomes[d]
		if !ok {
			continue
		}
		fractions[i] = outcome.Fraction
		clarities[i] = string(outcome.Clarity)
	}
	return fractions, clarities
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
