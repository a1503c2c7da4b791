package domain

import (
	"time"

	"github.com/google/uuid"
)

type InterestStatus string

const (
	InterestPending       InterestStatus = "pending"
	InterestContactShared InterestStatus = "contact_shared"
	InterestPaidAccess    InterestStatus = "paid_access"
	InterestCancelled     InterestStatus = "cancelled"
)

type Interest struct {
	ID              uuid.UUID      `json:"id" db:"interest_id"`
	JobID           uuid.UUID      `json:"job_id" db:"job_id"`
	TradespersonID  uuid.UUID      `json:"tradesperson_id" db:"tradesperson_id"`
	HomeownerID     uuid.UUID      `json:"homeowner_id" db:"homeowner_id"`
	Message         string         `json:"message" db:"message"`
	Status          InterestStatus `json:"status" db:"status"`
	AccessFeeNaira  int64          `json:"access_fee_naira" db:"access_fee_naira"`
	AccessFeeCoins  int64          `json:"access_fee_coins" db:"access_fee_coins"`
	ContactSharedAt *time.Time     `json:"contact_shared_at,omitempty" db:"contact_shared_at"`
	PaymentMadeAt   *time.Time     `json:"payment_made_at,omitempty" db:"payment_made_at"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

func (i *Interest) HasPaidAccess() bool {
	return i.Status == InterestPaidAccess
}

// InterestWithJob is the tradesperson's view of their interests.
type InterestWithJob struct {
	Interest
	JobTitle    string    `json:"job_title" db:"job_title"`
	JobCategory string    `json:"job_category" db:"job_category"`
	JobLocation string    `json:"job_location" db:"job_location"`
	JobStatus   JobStatus `json:"job_status" db:"job_status"`
}

// InterestWithTradesperson is the homeowner's view of who is interested in a job.
type InterestWithTradesperson struct {
	Interest
	TradespersonName       string  `json:"tradesperson_name" db:"tradesperson_name"`
	TradespersonCompany    string  `json:"tradesperson_company" db:"tradesperson_company"`
	TradespersonExperience int     `json:"tradesperson_experience" db:"tradesperson_experience"`
	TradespersonAvatarURL  *string `json:"tradesperson_avatar_url,omitempty" db:"tradesperson_avatar_url"`
	TradespersonVerified   bool    `json:"tradesperson_verified" db:"tradesperson_verified"`
}

type CreateInterestInput struct {
	JobID   uuid.UUID `json:"job_id"`
	Message string    `json:"message"`
}

type ContactDetails struct {
	InterestID uuid.UUID `json:"interest_id"`
	JobID      uuid.UUID `json:"job_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Location   string    `json:"location"`
}

// AccessPayment is the outcome of a successful pay-access operation.
type AccessPayment struct {
	Interest     *Interest          `json:"interest"`
	Transaction  *WalletTransaction `json:"transaction"`
	BalanceCoins int64              `json:"new_balance_coins"`
}
