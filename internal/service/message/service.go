package message

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
	"servicehub/internal/service/notification"
	"servicehub/internal/storage"
)

var (
	ErrJobNotFound          = errors.New("job not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("you are not a participant in this conversation")
	ErrNotJobOwner          = errors.New("only the job owner can start this conversation")
	ErrTradespersonRequired = errors.New("tradesperson_id is required")
	ErrAccessRequired       = errors.New("you must pay for access before starting a conversation")
	ErrMessagingLocked      = errors.New("access fee must be paid before messaging")
	ErrContentRequired      = errors.New("message content is required")
	ErrAttachmentRequired   = errors.New("attachment_url is required for this message type")
	ErrInvalidMessageType   = errors.New("invalid message type")
	ErrRoleCannotMessage    = errors.New("only homeowners and tradespeople can start conversations")
)

const previewLength = 100

type Service interface {
	StartConversation(ctx context.Context, user *domain.User, input domain.StartConversationInput) (*domain.Conversation, bool, error)
	ListConversations(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Conversation], error)
	GetConversation(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error)
	ListMessages(ctx context.Context, userID, conversationID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error)
	SendMessage(ctx context.Context, user *domain.User, conversationID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error)
	UploadAttachment(ctx context.Context, userID, conversationID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (*storage.Object, error)
	MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	convRepo     repository.ConversationRepository
	interestRepo repository.InterestRepository
	jobRepo      repository.JobRepository
	storage      storage.Storage
	notifier     notification.Notifier
	logger       *zap.Logger
}

func NewService(
	convRepo repository.ConversationRepository,
	interestRepo repository.InterestRepository,
	jobRepo repository.JobRepository,
	store storage.Storage,
	notifier notification.Notifier,
	logger *zap.Logger,
) Service {
	return &service{
		convRepo:     convRepo,
		interestRepo: interestRepo,
		jobRepo:      jobRepo,
		storage:      store,
		notifier:     notifier,
		logger:       logger,
	}
}

// StartConversation returns the existing conversation for the job and pair, or creates one.
// Either side may start it, but only once the tradesperson has paid for access.
func (s *service) StartConversation(ctx context.Context, user *domain.User, input domain.StartConversationInput) (*domain.Conversation, bool, error) {
	job, err := s.jobRepo.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, false, err
	}
	if job == nil {
		return nil, false, ErrJobNotFound
	}

	var tradespersonID uuid.UUID
	switch user.Role {
	case domain.RoleHomeowner:
		if job.HomeownerID != user.ID {
			return nil, false, ErrNotJobOwner
		}
		if input.TradespersonID == nil {
			return nil, false, ErrTradespersonRequired
		}
		tradespersonID = *input.TradespersonID
	case domain.RoleTradesperson:
		tradespersonID = user.ID
	default:
		return nil, false, ErrRoleCannotMessage
	}

	interest, err := s.interestRepo.GetByJobAndTradesperson(ctx, job.ID, tradespersonID)
	if err != nil {
		return nil, false, err
	}
	if interest == nil || !interest.HasPaidAccess() {
		return nil, false, ErrAccessRequired
	}

	conv, created, err := s.convRepo.GetOrCreate(ctx, &domain.Conversation{
		ID:             uuid.New(),
		JobID:          job.ID,
		InterestID:     interest.ID,
		HomeownerID:    job.HomeownerID,
		TradespersonID: tradespersonID,
		JobTitle:       job.Title,
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("conversation started",
			zap.String("conversation_id", conv.ID.String()),
			zap.String("job_id", job.ID.String()),
		)
	}
	return conv, created, nil
}

func (s *service) ListConversations(ctx context.Context, userID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Conversation], error) {
	convs, total, err := s.convRepo.ListByUser(ctx, userID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Conversation]{}, err
	}
	return domain.NewPaginatedResponse(convs, params, total), nil
}

func (s *service) GetConversation(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// openConversation loads a conversation for a participant and re-checks the access gate.
func (s *service) openConversation(ctx context.Context, userID, id uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.GetConversation(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	interest, err := s.interestRepo.GetByID(ctx, conv.InterestID)
	if err != nil {
		return nil, err
	}
	if interest == nil || !interest.HasPaidAccess() {
		return nil, ErrMessagingLocked
	}
	return conv, nil
}

func (s *service) ListMessages(ctx context.Context, userID, conversationID uuid.UUID, params domain.PaginationParams) (domain.PaginatedResponse[domain.Message], error) {
	if _, err := s.openConversation(ctx, userID, conversationID); err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}

	messages, total, err := s.convRepo.ListMessages(ctx, conversationID, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Message]{}, err
	}
	return domain.NewPaginatedResponse(messages, params, total), nil
}

func (s *service) SendMessage(ctx context.Context, user *domain.User, conversationID uuid.UUID, input domain.SendMessageInput) (*domain.Message, error) {
	if input.MessageType == "" {
		input.MessageType = domain.MessageText
	}
	if !input.MessageType.IsValid() {
		return nil, ErrInvalidMessageType
	}

	content := strings.TrimSpace(input.Content)
	if input.MessageType == domain.MessageText && content == "" {
		return nil, ErrContentRequired
	}
	if input.MessageType != domain.MessageText && (input.AttachmentURL == nil || *input.AttachmentURL == "") {
		return nil, ErrAttachmentRequired
	}
	if utf8.RuneCountInString(content) > domain.MaxMessageLength {
		return nil, domain.NewValidationError(fmt.Sprintf("message cannot exceed %d characters", domain.MaxMessageLength))
	}

	conv, err := s.openConversation(ctx, user.ID, conversationID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       user.ID,
		SenderType:     user.Role,
		MessageType:    input.MessageType,
		Content:        content,
		AttachmentURL:  input.AttachmentURL,
	}

	short := preview(msg)
	if err := s.convRepo.CreateMessage(ctx, conv, msg, short); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, conv.OtherParty(user.ID), domain.NotifNewMessage, map[string]interface{}{
		"sender_name": user.Name,
		"job_title":   conv.JobTitle,
		"preview":     short,
	})

	return msg, nil
}

// preview is the short form shown in conversation lists and notifications.
func preview(msg *domain.Message) string {
	switch msg.MessageType {
	case domain.MessageImage:
		if msg.Content == "" {
			return "[image]"
		}
	case domain.MessageFile:
		if msg.Content == "" {
			return "[file]"
		}
	}
	if utf8.RuneCountInString(msg.Content) <= previewLength {
		return msg.Content
	}
	runes := []rune(msg.Content)
	return string(runes[:previewLength]) + "..."
}

func (s *service) UploadAttachment(ctx context.Context, userID, conversationID uuid.UUID, fileName, contentType string, reader io.Reader, size int64) (*storage.Object, error) {
	if err := storage.Validate(contentType, size); err != nil {
		return nil, err
	}
	if _, err := s.openConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	obj, err := s.storage.Save(ctx, path.Join("messages", conversationID.String()), fileName, contentType, reader, size)
	if err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}
	return obj, nil
}

func (s *service) MarkRead(ctx context.Context, userID, conversationID uuid.UUID) (int64, error) {
	conv, err := s.GetConversation(ctx, userID, conversationID)
	if err != nil {
		return 0, err
	}
	return s.convRepo.MarkRead(ctx, conv, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.convRepo.CountUnread(ctx, userID)
}
