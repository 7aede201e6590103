// Package transport defines request and response DTOs for the leads API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// Action names accepted by the dispatch endpoint. Each maps to exactly one
// lifecycle mutation.
const (
	ActionRecordContactAttempt = "recordContactAttempt"
	ActionPlaceOnCalendar      = "placeOnCalendar"
	ActionRemoveFromCalendar   = "removeFromCalendar"
	ActionPromote              = "promote"
)

// CaptureLeadRequest is the public campaign-page submission.
type CaptureLeadRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   string  `json:"phone" validate:"required,min=7,max=32"`
	Address *string `json:"address" validate:"omitempty,max=300"`
	Notes   *string `json:"notes" validate:"omitempty,max=2000"`
}

// RecordContactAttemptRequest records an outreach attempt and/or cold flag.
type RecordContactAttemptRequest struct {
	Attempt       int     `json:"attempt" validate:"min=0,max=3"`
	IsCold        bool    `json:"isCold"`
	Inspector     *string `json:"inspector" validate:"omitempty,max=120"`
	InternalNotes *string `json:"internalNotes" validate:"omitempty,max=2000"`
}

// PlaceOnCalendarRequest sets a tentative date.
type PlaceOnCalendarRequest struct {
	TentativeDate time.Time `json:"tentativeDate" validate:"required"`
}

// PromoteLeadRequest turns a lead into a job. ScheduledInspectionDate is
// required when Status is "scheduled".
type PromoteLeadRequest struct {
	Status                  string     `json:"status" validate:"required,oneof=scheduled completed"`
	ScheduledInspectionDate *time.Time `json:"scheduledInspectionDate"`
	Inspector               *string    `json:"inspector" validate:"omitempty,max=120"`
	InternalNotes           *string    `json:"internalNotes" validate:"omitempty,max=2000"`
}

// UpdateLeadRequest edits contact and annotation fields. Nil fields are ignored.
type UpdateLeadRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=2,max=120"`
	Email         *string `json:"email" validate:"omitempty,email"`
	Phone         *string `json:"phone" validate:"omitempty,min=7,max=32"`
	Address       *string `json:"address" validate:"omitempty,max=300"`
	Notes         *string `json:"notes" validate:"omitempty,max=2000"`
	Inspector     *string `json:"inspector" validate:"omitempty,max=120"`
	InternalNotes *string `json:"internalNotes" validate:"omitempty,max=2000"`
}

// ActionRequest is the dispatch payload: one action name plus the fields that
// action needs. Exactly one mutation is issued per request.
type ActionRequest struct {
	Action string `json:"action" validate:"required,oneof=recordContactAttempt placeOnCalendar removeFromCalendar promote"`

	// recordContactAttempt
	Attempt *int  `json:"attempt" validate:"omitempty,min=0,max=3"`
	IsCold  *bool `json:"isCold"`

	// placeOnCalendar
	TentativeDate *time.Time `json:"tentativeDate"`

	// promote
	Status                  *string    `json:"status" validate:"omitempty,oneof=scheduled completed"`
	ScheduledInspectionDate *time.Time `json:"scheduledInspectionDate"`

	Inspector     *string `json:"inspector" validate:"omitempty,max=120"`
	InternalNotes *string `json:"internalNotes" validate:"omitempty,max=2000"`
}

// LeadResponse is the contractor-facing lead representation.
type LeadResponse struct {
	ID             uuid.UUID  `json:"id"`
	CampaignID     uuid.UUID  `json:"campaignId"`
	CampaignName   string     `json:"campaignName"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Address        *string    `json:"address,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	ContactAttempt int        `json:"contactAttempt"`
	IsColdLead     bool       `json:"isColdLead"`
	TentativeDate  *time.Time `json:"tentativeDate,omitempty"`
	JobStatus      string     `json:"jobStatus"`
	Stage          string     `json:"stage"`
	Inspector      *string    `json:"inspector,omitempty"`
	InternalNotes  *string    `json:"internalNotes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ActionsResponse lists the lifecycle actions valid for a lead right now.
type ActionsResponse struct {
	Stage   string   `json:"stage"`
	Actions []string `json:"actions"`
}

// ActionResult is the outcome of a dispatched action. JobID is set only when
// the action was a promotion.
type ActionResult struct {
	Action string        `json:"action"`
	Lead   *LeadResponse `json:"lead,omitempty"`
	JobID  *uuid.UUID    `json:"jobId,omitempty"`
}

// PromoteResult reports the job created by a promotion.
type PromoteResult struct {
	LeadID uuid.UUID `json:"leadId"`
	JobID  uuid.UUID `json:"jobId"`
}
