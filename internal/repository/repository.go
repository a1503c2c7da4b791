package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocraft/dbr/v2"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrInsufficientBalance is returned when a wallet debit would take the balance below zero.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	// ErrStaleState is returned when a conditional update finds the row no longer in the expected state.
	ErrStaleState = errors.New("record changed state concurrently")
	ErrDuplicate  = errors.New("duplicate record")
)

type Repositories struct {
	User         UserRepository
	Session      SessionRepository
	Job          JobRepository
	Interest     InterestRepository
	Conversation ConversationRepository
	Wallet       WalletRepository
	Notification NotificationRepository
	Preference   PreferenceRepository
	Content      ContentRepository
	Trade        TradeRepository
	Quiz         QuizRepository
	AuditLog     AuditLogRepository
	Stats        StatsRepository
}

func NewRepositories(db *sqlx.DB, sess *dbr.Session) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db, sess),
		Session:      NewSessionRepository(db),
		Job:          NewJobRepository(db, sess),
		Interest:     NewInterestRepository(db),
		Conversation: NewConversationRepository(db),
		Wallet:       NewWalletRepository(db),
		Notification: NewNotificationRepository(db),
		Preference:   NewPreferenceRepository(db),
		Content:      NewContentRepository(db, sess),
		Trade:        NewTradeRepository(db),
		Quiz:         NewQuizRepository(db),
		AuditLog:     NewAuditLogRepository(db),
		Stats:        NewStatsRepository(db),
	}
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
