package domain

import (
	"time"

	"github.com/google/uuid"
)

type Wallet struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	BalanceCoins int64     `json:"balance_coins" db:"balance_coins"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type TransactionType string

const (
	TxFunding    TransactionType = "funding"
	TxAccessFee  TransactionType = "access_fee"
	TxRefund     TransactionType = "refund"
	TxAdjustment TransactionType = "adjustment"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxRejected  TransactionStatus = "rejected"
)

type WalletTransaction struct {
	ID          uuid.UUID         `json:"id" db:"transaction_id"`
	UserID      uuid.UUID         `json:"user_id" db:"user_id"`
	Type        TransactionType   `json:"type" db:"type"`
	AmountCoins int64             `json:"amount_coins" db:"amount_coins"`
	AmountNaira int64             `json:"amount_naira" db:"amount_naira"`
	Status      TransactionStatus `json:"status" db:"status"`
	Description string            `json:"description" db:"description"`
	Reference   string            `json:"reference" db:"reference"`
	JobID       *uuid.UUID        `json:"job_id,omitempty" db:"job_id"`
	InterestID  *uuid.UUID        `json:"interest_id,omitempty" db:"interest_id"`
	ProofURL    *string           `json:"proof_url,omitempty" db:"proof_url"`
	ProcessedBy *uuid.UUID        `json:"processed_by,omitempty" db:"processed_by"`
	ProcessedAt *time.Time        `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

type WalletBalance struct {
	UserID       uuid.UUID `json:"user_id"`
	BalanceCoins int64     `json:"balance_coins"`
	BalanceNaira int64     `json:"balance_naira"`
	CoinValue    int64     `json:"coin_value_naira"`
}

type AccessCheck struct {
	JobID          uuid.UUID `json:"job_id"`
	AccessFeeCoins int64     `json:"access_fee_coins"`
	AccessFeeNaira int64     `json:"access_fee_naira"`
	BalanceCoins   int64     `json:"balance_coins"`
	Sufficient     bool      `json:"sufficient"`
	Shortfall      int64     `json:"shortfall_coins"`
}

type RejectFundingInput struct {
	Reason string `json:"reason"`
}

// FundingRequest is a pending funding transaction joined with the requesting user.
type FundingRequest struct {
	WalletTransaction
	UserName  string `json:"user_name" db:"user_name"`
	UserEmail string `json:"user_email" db:"user_email"`
}
