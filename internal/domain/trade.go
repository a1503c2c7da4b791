package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Trade struct {
	ID          uuid.UUID `json:"id" db:"trade_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	GroupName   string    `json:"group_name" db:"group_name"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type TradeInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	GroupName   string `json:"group_name"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

type QuizQuestion struct {
	ID           uuid.UUID      `json:"id" db:"question_id"`
	TradeID      uuid.UUID      `json:"trade_id" db:"trade_id"`
	Question     string         `json:"question" db:"question"`
	Options      pq.StringArray `json:"options" db:"options"`
	CorrectIndex int            `json:"correct_index" db:"correct_index"`
	Explanation  string         `json:"explanation" db:"explanation"`
	IsActive     bool           `json:"is_active" db:"is_active"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

// PublicQuestion hides the answer from quiz takers.
type PublicQuestion struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Options  []string  `json:"options"`
}

func (q *QuizQuestion) Public() PublicQuestion {
	return PublicQuestion{ID: q.ID, Question: q.Question, Options: q.Options}
}

type QuizQuestionInput struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

func (in QuizQuestionInput) Validate() error {
	if len(in.Question) < 5 {
		return NewValidationError("question must be at least 5 characters")
	}
	if len(in.Options) < 2 {
		return NewValidationError("at least two options are required")
	}
	if in.CorrectIndex < 0 || in.CorrectIndex >= len(in.Options) {
		return NewValidationError("correct_index must point at one of the options")
	}
	return nil
}

type QuizAnswer struct {
	QuestionID  uuid.UUID `json:"question_id"`
	SelectedIdx int       `json:"selected_index"`
}

type SubmitQuizInput struct {
	Answers []QuizAnswer `json:"answers"`
}

type QuizAttempt struct {
	ID        uuid.UUID `json:"id" db:"attempt_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TradeID   uuid.UUID `json:"trade_id" db:"trade_id"`
	Score     int       `json:"score" db:"score"`
	Total     int       `json:"total" db:"total"`
	Percent   float64   `json:"percent" db:"percent"`
	Passed    bool      `json:"passed" db:"passed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

const (
	QuizQuestionCount = 10
	QuizPassPercent   = 70.0
)
