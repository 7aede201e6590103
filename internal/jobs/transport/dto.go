// Package transport defines request and response DTOs for the jobs API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// Action names accepted by the job dispatch endpoint.
const (
	ActionUpdate     = "update"
	ActionComplete   = "complete"
	ActionUnschedule = "unschedule"
	ActionMarkCold   = "markCold"
)

// UpdateJobRequest edits a job's schedule and annotations. Nil fields are ignored.
type UpdateJobRequest struct {
	ScheduledInspectionDate *time.Time `json:"scheduledInspectionDate"`
	Inspector               *string    `json:"inspector" validate:"omitempty,max=120"`
	InternalNotes           *string    `json:"internalNotes" validate:"omitempty,max=2000"`
}

// RemoveJobRequest unschedules or cold-marks a job. Jobs hold no
// back-reference to their source lead, so the caller may name the lead to
// drop back into the cold bucket.
type RemoveJobRequest struct {
	ReactivateLeadID *uuid.UUID `json:"reactivateLeadId"`
}

// JobActionRequest is the dispatch payload: one action name plus the fields
// that action needs. Exactly one mutation is issued per request.
type JobActionRequest struct {
	Action string `json:"action" validate:"required,oneof=update complete unschedule markCold"`

	// update
	ScheduledInspectionDate *time.Time `json:"scheduledInspectionDate"`
	Inspector               *string    `json:"inspector" validate:"omitempty,max=120"`
	InternalNotes           *string    `json:"internalNotes" validate:"omitempty,max=2000"`

	// unschedule / markCold
	ReactivateLeadID *uuid.UUID `json:"reactivateLeadId"`
}

// JobResponse is the contractor-facing job representation.
type JobResponse struct {
	ID                      uuid.UUID  `json:"id"`
	CampaignID              uuid.UUID  `json:"campaignId"`
	CampaignName            string     `json:"campaignName"`
	CustomerName            string     `json:"customerName"`
	CustomerEmail           string     `json:"customerEmail"`
	CustomerPhone           string     `json:"customerPhone"`
	CustomerAddress         *string    `json:"customerAddress,omitempty"`
	CustomerNotes           *string    `json:"customerNotes,omitempty"`
	Status                  string     `json:"status"`
	ScheduledInspectionDate *time.Time `json:"scheduledInspectionDate,omitempty"`
	Inspector               *string    `json:"inspector,omitempty"`
	InternalNotes           *string    `json:"internalNotes,omitempty"`
	CompletedAt             *time.Time `json:"completedAt,omitempty"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// JobListResponse partitions the contractor's jobs by status.
type JobListResponse struct {
	Scheduled []JobResponse `json:"scheduled"`
	Completed []JobResponse `json:"completed"`
}

// JobActionsResponse lists the actions valid for a job right now.
type JobActionsResponse struct {
	Status  string   `json:"status"`
	Actions []string `json:"actions"`
}

// JobActionResult is the outcome of a dispatched job action. Job is nil when
// the action deleted the job.
type JobActionResult struct {
	Action string       `json:"action"`
	Job    *JobResponse `json:"job,omitempty"`
}
