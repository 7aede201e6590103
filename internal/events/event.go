// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"leadgrid_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Auth Domain Events
// =============================================================================

// ContractorSignedUp is published when a new contractor registers.
type ContractorSignedUp struct {
	BaseEvent
	ContractorID uuid.UUID `json:"contractorId"`
	Email        string    `json:"email"`
	CompanyName  string    `json:"companyName"`
}

func (e ContractorSignedUp) EventName() string { return "auth.contractor.signed_up" }

// =============================================================================
// Lead Lifecycle Events
// =============================================================================

// LeadCaptured is published when a homeowner submits a campaign form.
type LeadCaptured struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	CampaignID    uuid.UUID `json:"campaignId"`
	ContractorID  uuid.UUID `json:"contractorId"`
	CampaignName  string    `json:"campaignName"`
	HomeownerName string    `json:"homeownerName"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       *string   `json:"address,omitempty"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// LeadContactAttempted is published when a contractor records an outreach attempt
// or cold-buckets a lead.
type LeadContactAttempted struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	ContractorID uuid.UUID `json:"contractorId"`
	Attempt      int       `json:"attempt"`
	IsCold       bool      `json:"isCold"`
}

func (e LeadContactAttempted) EventName() string { return "leads.lead.contact_attempted" }

// LeadPlacedOnCalendar is published when a lead gets a tentative date.
type LeadPlacedOnCalendar struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	ContractorID  uuid.UUID `json:"contractorId"`
	TentativeDate time.Time `json:"tentativeDate"`
}

func (e LeadPlacedOnCalendar) EventName() string { return "leads.lead.placed_on_calendar" }

// LeadRemovedFromCalendar is published when a tentative placement is cleared.
type LeadRemovedFromCalendar struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	ContractorID uuid.UUID `json:"contractorId"`
}

func (e LeadRemovedFromCalendar) EventName() string { return "leads.lead.removed_from_calendar" }

// LeadPromoted is published when a lead is promoted to a job.
type LeadPromoted struct {
	BaseEvent
	LeadID                  uuid.UUID  `json:"leadId"`
	JobID                   uuid.UUID  `json:"jobId"`
	CampaignID              uuid.UUID  `json:"campaignId"`
	ContractorID            uuid.UUID  `json:"contractorId"`
	Status                  string     `json:"status"`
	ScheduledInspectionDate *time.Time `json:"scheduledInspectionDate,omitempty"`
	HomeownerName           string     `json:"homeownerName"`
	HomeownerEmail          string     `json:"homeownerEmail"`
}

func (e LeadPromoted) EventName() string { return "leads.lead.promoted" }

// =============================================================================
// Job Events
// =============================================================================

// JobCompleted is published when a scheduled job is moved to completed.
type JobCompleted struct {
	BaseEvent
	JobID        uuid.UUID `json:"jobId"`
	CampaignID   uuid.UUID `json:"campaignId"`
	ContractorID uuid.UUID `json:"contractorId"`
}

func (e JobCompleted) EventName() string { return "jobs.job.completed" }

// JobRemoved is published when a job is unscheduled or marked cold
// (both delete the job record).
type JobRemoved struct {
	BaseEvent
	JobID        uuid.UUID `json:"jobId"`
	CampaignID   uuid.UUID `json:"campaignId"`
	ContractorID uuid.UUID `json:"contractorId"`
	Reason       string    `json:"reason"` // "unscheduled" or "cold"
}

func (e JobRemoved) EventName() string { return "jobs.job.removed" }
