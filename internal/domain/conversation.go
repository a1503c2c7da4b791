package domain

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID                 uuid.UUID  `json:"id" db:"conversation_id"`
	JobID              uuid.UUID  `json:"job_id" db:"job_id"`
	InterestID         uuid.UUID  `json:"interest_id" db:"interest_id"`
	HomeownerID        uuid.UUID  `json:"homeowner_id" db:"homeowner_id"`
	TradespersonID     uuid.UUID  `json:"tradesperson_id" db:"tradesperson_id"`
	JobTitle           string     `json:"job_title" db:"job_title"`
	LastMessage        *string    `json:"last_message,omitempty" db:"last_message"`
	LastMessageAt      *time.Time `json:"last_message_at,omitempty" db:"last_message_at"`
	HomeownerUnread    int        `json:"homeowner_unread" db:"homeowner_unread"`
	TradespersonUnread int        `json:"tradesperson_unread" db:"tradesperson_unread"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

func (c *Conversation) IsParticipant(userID uuid.UUID) bool {
	return c.HomeownerID == userID || c.TradespersonID == userID
}

// OtherParty returns the participant who is not userID.
func (c *Conversation) OtherParty(userID uuid.UUID) uuid.UUID {
	if c.HomeownerID == userID {
		return c.TradespersonID
	}
	return c.HomeownerID
}

func (c *Conversation) UnreadFor(userID uuid.UUID) int {
	if c.HomeownerID == userID {
		return c.HomeownerUnread
	}
	return c.TradespersonUnread
}

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
)

func (t MessageType) IsValid() bool {
	switch t {
	case MessageText, MessageImage, MessageFile:
		return true
	default:
		return false
	}
}

type Message struct {
	ID             uuid.UUID   `json:"id" db:"message_id"`
	ConversationID uuid.UUID   `json:"conversation_id" db:"conversation_id"`
	SenderID       uuid.UUID   `json:"sender_id" db:"sender_id"`
	SenderType     UserRole    `json:"sender_type" db:"sender_type"`
	MessageType    MessageType `json:"message_type" db:"message_type"`
	Content        string      `json:"content" db:"content"`
	AttachmentURL  *string     `json:"attachment_url,omitempty" db:"attachment_url"`
	IsRead         bool        `json:"is_read" db:"is_read"`
	ReadAt         *time.Time  `json:"read_at,omitempty" db:"read_at"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

type StartConversationInput struct {
	JobID          uuid.UUID  `json:"job_id"`
	TradespersonID *uuid.UUID `json:"tradesperson_id,omitempty"`
}

type SendMessageInput struct {
	Content       string      `json:"content"`
	MessageType   MessageType `json:"message_type"`
	AttachmentURL *string     `json:"attachment_url,omitempty"`
}

const MaxMessageLength = 5000
