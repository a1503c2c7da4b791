package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifWelcome               NotificationType = "welcome"
	NotifNewInterest           NotificationType = "new_interest"
	NotifContactShared         NotificationType = "contact_shared"
	NotifAccessPaid            NotificationType = "access_paid"
	NotifNewMessage            NotificationType = "new_message"
	NotifJobApproved           NotificationType = "job_approved"
	NotifJobRejected           NotificationType = "job_rejected"
	NotifJobStatusChanged      NotificationType = "job_status_changed"
	NotifWalletFunded          NotificationType = "wallet_funded"
	NotifWalletFundingRejected NotificationType = "wallet_funding_rejected"
	NotifPasswordReset         NotificationType = "password_reset"
)

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
	ChannelBoth  NotificationChannel = "both"
	ChannelNone  NotificationChannel = "none"
	// ChannelInApp keeps the notification in the inbox only.
	ChannelInApp NotificationChannel = "in_app"
)

func (c NotificationChannel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelBoth, ChannelNone, ChannelInApp:
		return true
	default:
		return false
	}
}

// Delivers reports whether the channel sends anything outside the app.
func (c NotificationChannel) Delivers() bool {
	return c.IncludesEmail() || c.IncludesSMS()
}

func (c NotificationChannel) IncludesEmail() bool {
	return c == ChannelEmail || c == ChannelBoth
}

func (c NotificationChannel) IncludesSMS() bool {
	return c == ChannelSMS || c == ChannelBoth
}

type NotificationStatus string

const (
	NotifStatusPending NotificationStatus = "pending"
	NotifStatusSent    NotificationStatus = "sent"
	NotifStatusFailed  NotificationStatus = "failed"
	NotifStatusSkipped NotificationStatus = "skipped"
)

type Notification struct {
	ID           uuid.UUID           `json:"id" db:"notification_id"`
	UserID       uuid.UUID           `json:"user_id" db:"user_id"`
	Type         NotificationType    `json:"type" db:"type"`
	Channel      NotificationChannel `json:"channel" db:"channel"`
	Recipient    string              `json:"recipient" db:"recipient"`
	Subject      string              `json:"subject" db:"subject"`
	Content      string              `json:"content" db:"content"`
	TemplateData json.RawMessage     `json:"template_data,omitempty" db:"template_data"`
	Status       NotificationStatus  `json:"status" db:"status"`
	ErrorMessage *string             `json:"error_message,omitempty" db:"error_message"`
	IsRead       bool                `json:"is_read" db:"is_read"`
	ReadAt       *time.Time          `json:"read_at,omitempty" db:"read_at"`
	SentAt       *time.Time          `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
}

// NotificationPreferences holds one channel per preference category.
type NotificationPreferences struct {
	UserID         uuid.UUID           `json:"user_id" db:"user_id"`
	NewInterest    NotificationChannel `json:"new_interest" db:"new_interest"`
	ContactShared  NotificationChannel `json:"contact_shared" db:"contact_shared"`
	NewMessage     NotificationChannel `json:"new_message" db:"new_message"`
	JobUpdates     NotificationChannel `json:"job_updates" db:"job_updates"`
	PaymentUpdates NotificationChannel `json:"payment_updates" db:"payment_updates"`
	Marketing      NotificationChannel `json:"marketing" db:"marketing"`
	UpdatedAt      time.Time           `json:"updated_at" db:"updated_at"`
}

func DefaultNotificationPreferences(userID uuid.UUID) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:         userID,
		NewInterest:    ChannelEmail,
		ContactShared:  ChannelBoth,
		NewMessage:     ChannelEmail,
		JobUpdates:     ChannelEmail,
		PaymentUpdates: ChannelEmail,
		Marketing:      ChannelNone,
	}
}

// ChannelFor resolves the channel used for a notification type. Account-level
// messages (welcome, password reset) always go by email.
func (p *NotificationPreferences) ChannelFor(t NotificationType) NotificationChannel {
	switch t {
	case NotifNewInterest:
		return p.NewInterest
	case NotifContactShared:
		return p.ContactShared
	case NotifNewMessage:
		return p.NewMessage
	case NotifJobApproved, NotifJobRejected, NotifJobStatusChanged:
		return p.JobUpdates
	case NotifAccessPaid, NotifWalletFunded, NotifWalletFundingRejected:
		return p.PaymentUpdates
	default:
		return ChannelEmail
	}
}

type UpdatePreferencesInput struct {
	NewInterest    *NotificationChannel `json:"new_interest,omitempty"`
	ContactShared  *NotificationChannel `json:"contact_shared,omitempty"`
	NewMessage     *NotificationChannel `json:"new_message,omitempty"`
	JobUpdates     *NotificationChannel `json:"job_updates,omitempty"`
	PaymentUpdates *NotificationChannel `json:"payment_updates,omitempty"`
	Marketing      *NotificationChannel `json:"marketing,omitempty"`
}

// Apply merges the input into prefs, rejecting unknown channels.
func (in UpdatePreferencesInput) Apply(prefs *NotificationPreferences) error {
	fields := []struct {
		src *NotificationChannel
		dst *NotificationChannel
	}{
		{in.NewInterest, &prefs.NewInterest},
		{in.ContactShared, &prefs.ContactShared},
		{in.NewMessage, &prefs.NewMessage},
		{in.JobUpdates, &prefs.JobUpdates},
		{in.PaymentUpdates, &prefs.PaymentUpdates},
		{in.Marketing, &prefs.Marketing},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if !f.src.IsValid() {
			return NewValidationError("channel must be one of email, sms, both, in_app, none")
		}
		*f.dst = *f.src
	}
	return nil
}
