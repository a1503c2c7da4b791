package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicehub/internal/domain"
)

type ConversationRepository interface {
	// GetOrCreate returns the conversation for (job, homeowner, tradesperson), creating it
	// when none exists. created reports whether a new row was inserted.
	GetOrCreate(ctx context.Context, conv *domain.Conversation) (result *domain.Conversation, created bool, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Conversation, int64, error)
	CreateMessage(ctx context.Context, conv *domain.Conversation, msg *domain.Message, preview string) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error)
	MarkRead(ctx context.Context, conv *domain.Conversation, readerID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) GetOrCreate(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, bool, error) {
	var result domain.Conversation
	query := `
		INSERT INTO conversations (conversation_id, job_id, interest_id, homeowner_id, tradesperson_id, job_title)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (job_id, homeowner_id, tradesperson_id) DO NOTHING
		RETURNING *`

	err := r.db.GetContext(ctx, &result, query,
		conv.ID, conv.JobID, conv.InterestID, conv.HomeownerID, conv.TradespersonID, conv.JobTitle)
	if err == nil {
		return &result, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}

	err = r.db.GetContext(ctx, &result, `
		SELECT * FROM conversations
		WHERE job_id = $1 AND homeowner_id = $2 AND tradesperson_id = $3`,
		conv.JobID, conv.HomeownerID, conv.TradespersonID)
	if err != nil {
		return nil, false, err
	}
	return &result, false, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	query := `SELECT * FROM conversations WHERE conversation_id = $1`

	err := r.db.GetContext(ctx, &conv, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ListByUser(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) ([]domain.Conversation, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM conversations WHERE homeowner_id = $1 OR tradesperson_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM conversations
		WHERE homeowner_id = $1 OR tradesperson_id = $1
		ORDER BY COALESCE(last_message_at, created_at) DESC
		LIMIT $2 OFFSET $3`

	var convs []domain.Conversation
	err := r.db.SelectContext(ctx, &convs, query, userID, params.PageSize, params.Offset())
	return convs, total, err
}

func (r *conversationRepository) CreateMessage(ctx context.Context, conv *domain.Conversation, msg *domain.Message, preview string) error {
	unreadColumn := "tradesperson_unread"
	if msg.SenderID == conv.TradespersonID {
		unreadColumn = "homeowner_unread"
	}

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO messages (message_id, conversation_id, sender_id, sender_type, message_type, content, attachment_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at`

		err := tx.QueryRowxContext(ctx, query,
			msg.ID, msg.ConversationID, msg.SenderID, msg.SenderType, msg.MessageType, msg.Content, msg.AttachmentURL,
		).Scan(&msg.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE conversations
			SET last_message = $2, last_message_at = $3, `+unreadColumn+` = `+unreadColumn+` + 1, updated_at = NOW()
			WHERE conversation_id = $1`, conv.ID, preview, msg.CreatedAt)
		return err
	})
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, params domain.PaginationParams) ([]domain.Message, int64, error) {
	params.Validate()

	var total int64
	countQuery := `SELECT COUNT(*) FROM messages WHERE conversation_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, conversationID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	var messages []domain.Message
	err := r.db.SelectContext(ctx, &messages, query, conversationID, params.PageSize, params.Offset())
	return messages, total, err
}

// MarkRead marks the other participant's messages as read and clears the reader's
// unread counter. It returns the number of messages marked.
func (r *conversationRepository) MarkRead(ctx context.Context, conv *domain.Conversation, readerID uuid.UUID) (int64, error) {
	unreadColumn := "homeowner_unread"
	if readerID == conv.TradespersonID {
		unreadColumn = "tradesperson_unread"
	}

	var marked int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE messages
			SET is_read = TRUE, read_at = NOW()
			WHERE conversation_id = $1 AND sender_id <> $2 AND is_read = FALSE`, conv.ID, readerID)
		if err != nil {
			return err
		}
		marked, _ = res.RowsAffected()

		_, err = tx.ExecContext(ctx, `
			UPDATE conversations SET `+unreadColumn+` = 0 WHERE conversation_id = $1`, conv.ID)
		return err
	})
	return marked, err
}

func (r *conversationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `
		SELECT COALESCE(SUM(CASE WHEN homeowner_id = $1 THEN homeowner_unread ELSE tradesperson_unread END), 0)
		FROM conversations
		WHERE homeowner_id = $1 OR tradesperson_id = $1`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
