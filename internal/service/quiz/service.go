package quiz

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

var (
	ErrTradeNotFound     = errors.New("trade not found")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrTradespersonOnly  = errors.New("only tradespeople can take skills quizzes")
	ErrNoAnswers         = errors.New("at least one answer is required")
	ErrNoQuestions       = errors.New("no questions are available for this trade")
	ErrDuplicateQuestion = errors.New("each question may be answered once")
)

type Service interface {
	ListQuestions(ctx context.Context, tradeID uuid.UUID) ([]domain.QuizQuestion, error)
	CreateQuestion(ctx context.Context, tradeID uuid.UUID, input domain.QuizQuestionInput) (*domain.QuizQuestion, error)
	UpdateQuestion(ctx context.Context, id uuid.UUID, input domain.QuizQuestionInput) (*domain.QuizQuestion, error)
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
	Start(ctx context.Context, user *domain.User, tradeID uuid.UUID) ([]domain.PublicQuestion, error)
	Submit(ctx context.Context, user *domain.User, tradeID uuid.UUID, input domain.SubmitQuizInput) (*domain.QuizAttempt, error)
	Results(ctx context.Context, userID uuid.UUID) ([]domain.QuizAttempt, error)
}

type service struct {
	quizRepo  repository.QuizRepository
	tradeRepo repository.TradeRepository
}

func NewService(quizRepo repository.QuizRepository, tradeRepo repository.TradeRepository) Service {
	return &service{quizRepo: quizRepo, tradeRepo: tradeRepo}
}

func (s *service) requireTrade(ctx context.Context, tradeID uuid.UUID) error {
	t, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTradeNotFound
	}
	return nil
}

func (s *service) ListQuestions(ctx context.Context, tradeID uuid.UUID) ([]domain.QuizQuestion, error) {
	if err := s.requireTrade(ctx, tradeID); err != nil {
		return nil, err
	}
	questions, err := s.quizRepo.ListQuestions(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []domain.QuizQuestion{}
	}
	return questions, nil
}

func (s *service) CreateQuestion(ctx context.Context, tradeID uuid.UUID, input domain.QuizQuestionInput) (*domain.QuizQuestion, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireTrade(ctx, tradeID); err != nil {
		return nil, err
	}

	q := &domain.QuizQuestion{
		ID:           uuid.New(),
		TradeID:      tradeID,
		Question:     strings.TrimSpace(input.Question),
		Options:      input.Options,
		CorrectIndex: input.CorrectIndex,
		Explanation:  input.Explanation,
		IsActive:     true,
	}
	if input.IsActive != nil {
		q.IsActive = *input.IsActive
	}

	if err := s.quizRepo.CreateQuestion(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *service) UpdateQuestion(ctx context.Context, id uuid.UUID, input domain.QuizQuestionInput) (*domain.QuizQuestion, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	q, err := s.quizRepo.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, ErrQuestionNotFound
	}

	q.Question = strings.TrimSpace(input.Question)
	q.Options = input.Options
	q.CorrectIndex = input.CorrectIndex
	q.Explanation = input.Explanation
	if input.IsActive != nil {
		q.IsActive = *input.IsActive
	}

	if err := s.quizRepo.UpdateQuestion(ctx, q); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *service) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	err := s.quizRepo.DeleteQuestion(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrQuestionNotFound
	}
	return err
}

// Start draws up to QuizQuestionCount random active questions without their answers.
func (s *service) Start(ctx context.Context, user *domain.User, tradeID uuid.UUID) ([]domain.PublicQuestion, error) {
	if !user.IsTradesperson() {
		return nil, ErrTradespersonOnly
	}
	if err := s.requireTrade(ctx, tradeID); err != nil {
		return nil, err
	}

	questions, err := s.quizRepo.RandomQuestions(ctx, tradeID, domain.QuizQuestionCount)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	out := make([]domain.PublicQuestion, 0, len(questions))
	for i := range questions {
		out = append(out, questions[i].Public())
	}
	return out, nil
}

// Submit scores the answered questions. Questions that do not belong to the trade are ignored.
func (s *service) Submit(ctx context.Context, user *domain.User, tradeID uuid.UUID, input domain.SubmitQuizInput) (*domain.QuizAttempt, error) {
	if !user.IsTradesperson() {
		return nil, ErrTradespersonOnly
	}
	if len(input.Answers) == 0 {
		return nil, ErrNoAnswers
	}
	if err := s.requireTrade(ctx, tradeID); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(input.Answers))
	ids := make([]uuid.UUID, 0, len(input.Answers))
	for _, a := range input.Answers {
		if seen[a.QuestionID] {
			return nil, ErrDuplicateQuestion
		}
		seen[a.QuestionID] = true
		ids = append(ids, a.QuestionID)
	}

	questions, err := s.quizRepo.GetQuestionsByIDs(ctx, tradeID, ids)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	byID := make(map[uuid.UUID]domain.QuizQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	score := 0
	for _, a := range input.Answers {
		if q, ok := byID[a.QuestionID]; ok && q.CorrectIndex == a.SelectedIdx {
			score++
		}
	}

	total := len(byID)
	percent := math.Round(float64(score)/float64(total)*10000) / 100
	attempt := &domain.QuizAttempt{
		ID:      uuid.New(),
		UserID:  user.ID,
		TradeID: tradeID,
		Score:   score,
		Total:   total,
		Percent: percent,
		Passed:  percent >= domain.QuizPassPercent,
	}

	if err := s.quizRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *service) Results(ctx context.Context, userID uuid.UUID) ([]domain.QuizAttempt, error) {
	attempts, err := s.quizRepo.ListAttempts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []domain.QuizAttempt{}
	}
	return attempts, nil
}
