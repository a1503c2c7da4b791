package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type QuizRepository interface {
	CreateQuestion(ctx context.Context, q *domain.QuizQuestion) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*domain.QuizQuestion, error)
	ListQuestions(ctx context.Context, tradeID uuid.UUID) ([]domain.QuizQuestion, error)
	RandomQuestions(ctx context.Context, tradeID uuid.UUID, limit int) ([]domain.QuizQuestion, error)
	GetQuestionsByIDs(ctx context.Context, tradeID uuid.UUID, ids []uuid.UUID) ([]domain.QuizQuestion, error)
	UpdateQuestion(ctx context.Context, q *domain.QuizQuestion) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
	CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error
	ListAttempts(ctx context.Context, userID uuid.UUID) ([]domain.QuizAttempt, error)
}

type quizRepository struct {
	db *sqlx.DB
}

func NewQuizRepository(db *sqlx.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) CreateQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	query := `
		INSERT INTO quiz_questions (question_id, trade_id, question, options, correct_index, explanation, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		q.ID, q.TradeID, q.Question, q.Options, q.CorrectIndex, q.Explanation, q.IsActive,
	).Scan(&q.CreatedAt)
}

func (r *quizRepository) GetQuestion(ctx context.Context, id uuid.UUID) (*domain.QuizQuestion, error) {
	var q domain.QuizQuestion
	err := r.db.GetContext(ctx, &q, `SELECT * FROM quiz_questions WHERE question_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quizRepository) ListQuestions(ctx context.Context, tradeID uuid.UUID) ([]domain.QuizQuestion, error) {
	var questions []domain.QuizQuestion
	query := `SELECT * FROM quiz_questions WHERE trade_id = $1 ORDER BY created_at`
	err := r.db.SelectContext(ctx, &questions, query, tradeID)
	return questions, err
}

func (r *quizRepository) RandomQuestions(ctx context.Context, tradeID uuid.UUID, limit int) ([]domain.QuizQuestion, error) {
	var questions []domain.QuizQuestion
	query := `SELECT * FROM quiz_questions WHERE trade_id = $1 AND is_active ORDER BY RANDOM() LIMIT $2`
	err := r.db.SelectContext(ctx, &questions, query, tradeID, limit)
	return questions, err
}

func (r *quizRepository) GetQuestionsByIDs(ctx context.Context, tradeID uuid.UUID, ids []uuid.UUID) ([]domain.QuizQuestion, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM quiz_questions WHERE trade_id = ? AND question_id IN (?)`, tradeID, ids)
	if err != nil {
		return nil, err
	}

	var questions []domain.QuizQuestion
	err = r.db.SelectContext(ctx, &questions, r.db.Rebind(query), args...)
	return questions, err
}

func (r *quizRepository) UpdateQuestion(ctx context.Context, q *domain.QuizQuestion) error {
	query := `
		UPDATE quiz_questions
		SET question = $2, options = $3, correct_index = $4, explanation = $5, is_active = $6
		WHERE question_id = $1`

	res, err := r.db.ExecContext(ctx, query, q.ID, q.Question, q.Options, q.CorrectIndex, q.Explanation, q.IsActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *quizRepository) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM quiz_questions WHERE question_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *quizRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	query := `
		INSERT INTO quiz_attempts (attempt_id, user_id, trade_id, score, total, percent, passed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		attempt.ID, attempt.UserID, attempt.TradeID, attempt.Score, attempt.Total, attempt.Percent, attempt.Passed,
	).Scan(&attempt.CreatedAt)
}

func (r *quizRepository) ListAttempts(ctx context.Context, userID uuid.UUID) ([]domain.QuizAttempt, error) {
	var attempts []domain.QuizAttempt
	query := `SELECT * FROM quiz_attempts WHERE user_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &attempts, query, userID)
	return attempts, err
}
