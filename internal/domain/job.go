package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPendingApproval JobStatus = "pending_approval"
	JobStatusActive          JobStatus = "active"
	JobStatusInProgress      JobStatus = "in_progress"
	JobStatusCompleted       JobStatus = "completed"
	JobStatusCancelled       JobStatus = "cancelled"
	JobStatusRejected        JobStatus = "rejected"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPendingApproval, JobStatusActive, JobStatusInProgress,
		JobStatusCompleted, JobStatusCancelled, JobStatusRejected:
		return true
	default:
		return false
	}
}

// ownerTransitions lists the status changes a homeowner may make on their own job.
// Approval and rejection are admin-only and are not reachable from here.
var ownerTransitions = map[JobStatus][]JobStatus{
	JobStatusPendingApproval: {JobStatusCancelled},
	JobStatusActive:          {JobStatusInProgress, JobStatusCompleted, JobStatusCancelled},
	JobStatusInProgress:      {JobStatusCompleted, JobStatusCancelled},
}

func (s JobStatus) CanOwnerTransitionTo(next JobStatus) bool {
	for _, allowed := range ownerTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s JobStatus) IsEditable() bool {
	return s == JobStatusPendingApproval || s == JobStatusActive
}

type Job struct {
	ID              uuid.UUID  `json:"id" db:"job_id"`
	HomeownerID     uuid.UUID  `json:"homeowner_id" db:"homeowner_id"`
	Title           string     `json:"title" db:"title"`
	Description     string     `json:"description" db:"description"`
	Category        string     `json:"category" db:"category"`
	Location        string     `json:"location" db:"location"`
	State           string     `json:"state" db:"state"`
	LGA             string     `json:"lga" db:"lga"`
	Town            string     `json:"town" db:"town"`
	ZipCode         string     `json:"zip_code" db:"zip_code"`
	BudgetMin       *int64     `json:"budget_min,omitempty" db:"budget_min"`
	BudgetMax       *int64     `json:"budget_max,omitempty" db:"budget_max"`
	Timeline        string     `json:"timeline" db:"timeline"`
	Status          JobStatus  `json:"status" db:"status"`
	AccessFeeNaira  int64      `json:"access_fee_naira" db:"access_fee_naira"`
	AccessFeeCoins  int64      `json:"access_fee_coins" db:"access_fee_coins"`
	InterestsCount  int        `json:"interests_count" db:"interests_count"`
	RejectionReason *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// SyncLocation derives the legacy free-text location from the structured
// state/lga/town fields when any of them are set.
func (j *Job) SyncLocation() {
	parts := make([]string, 0, 3)
	for _, p := range []string{j.Town, j.LGA, j.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		j.Location = strings.Join(parts, ", ")
	}
}

type CreateJobInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	State       string `json:"state"`
	LGA         string `json:"lga"`
	Town        string `json:"town"`
	ZipCode     string `json:"zip_code"`
	BudgetMin   *int64 `json:"budget_min"`
	BudgetMax   *int64 `json:"budget_max"`
	Timeline    string `json:"timeline"`
}

func (in CreateJobInput) Validate() error {
	if len(strings.TrimSpace(in.Title)) < 10 {
		return NewValidationError("title must be at least 10 characters")
	}
	if len(strings.TrimSpace(in.Description)) < 20 {
		return NewValidationError("description must be at least 20 characters")
	}
	if strings.TrimSpace(in.Category) == "" {
		return NewValidationError("category is required")
	}
	if strings.TrimSpace(in.Location) == "" && strings.TrimSpace(in.State) == "" {
		return NewValidationError("location or state is required")
	}
	return validateBudget(in.BudgetMin, in.BudgetMax)
}

type UpdateJobInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	State       *string `json:"state,omitempty"`
	LGA         *string `json:"lga,omitempty"`
	Town        *string `json:"town,omitempty"`
	ZipCode     *string `json:"zip_code,omitempty"`
	BudgetMin   *int64  `json:"budget_min,omitempty"`
	BudgetMax   *int64  `json:"budget_max,omitempty"`
	Timeline    *string `json:"timeline,omitempty"`
}

type UpdateJobStatusInput struct {
	Status JobStatus `json:"status"`
}

type RejectJobInput struct {
	Reason string `json:"reason"`
}

type UpdateAccessFeeInput struct {
	AccessFeeNaira int64 `json:"access_fee_naira"`
	AccessFeeCoins int64 `json:"access_fee_coins"`
}

type JobFilter struct {
	Status    string
	Category  string
	State     string
	LGA       string
	Town      string
	Location  string
	Query     string
	BudgetMin *int64
	BudgetMax *int64
}

func validateBudget(min, max *int64) error {
	if min != nil && *min < 0 {
		return NewValidationError("budget_min cannot be negative")
	}
	if max != nil && *max < 0 {
		return NewValidationError("budget_max cannot be negative")
	}
	if min != nil && max != nil && *min > *max {
		return NewValidationError("budget_min cannot exceed budget_max")
	}
	return nil
}

// ValidateBudget is exposed for updates that merge partial input into an existing job.
func ValidateBudget(min, max *int64) error {
	return validateBudget(min, max)
}
