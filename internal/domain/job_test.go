package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJob_SyncLocation(t *testing.T) {
	job := &Job{State: "Lagos", LGA: "Ikeja", Town: " Alausa ", Location: "old"}
	job.SyncLocation()
	assert.Equal(t, "Alausa, Ikeja, Lagos", job.Location)

	legacy := &Job{Location: "Somewhere in Abuja"}
	legacy.SyncLocation()
	assert.Equal(t, "Somewhere in Abuja", legacy.Location)

	partial := &Job{State: "Oyo"}
	partial.SyncLocation()
	assert.Equal(t, "Oyo", partial.Location)
}

func TestJobStatus_OwnerTransitions(t *testing.T) {
	cases := []struct {
		from, to JobStatus
		ok       bool
	}{
		{JobStatusActive, JobStatusInProgress, true},
		{JobStatusActive, JobStatusCompleted, true},
		{JobStatusInProgress, JobStatusCompleted, true},
		{JobStatusPendingApproval, JobStatusCancelled, true},
		{JobStatusPendingApproval, JobStatusActive, false},
		{JobStatusCompleted, JobStatusActive, false},
		{JobStatusCancelled, JobStatusInProgress, false},
		{JobStatusInProgress, JobStatusActive, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanOwnerTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCreateJobInput_Validate(t *testing.T) {
	min, max := int64(50000), int64(20000)
	valid := CreateJobInput{
		Title:       "Fix leaking kitchen sink",
		Description: "The kitchen sink has been leaking for two days now.",
		Category:    "Plumbing",
		State:       "Lagos",
	}
	assert.NoError(t, valid.Validate())

	short := valid
	short.Title = "Sink"
	assert.Error(t, short.Validate())

	noPlace := valid
	noPlace.State = ""
	assert.EqualError(t, noPlace.Validate(), "location or state is required")

	badBudget := valid
	badBudget.BudgetMin, badBudget.BudgetMax = &min, &max
	assert.EqualError(t, badBudget.Validate(), "budget_min cannot exceed budget_max")
}
