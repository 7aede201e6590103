// Package transport defines request and response DTOs for the calendar API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// Calendar event types: a tentative lead placement or a confirmed job.
const (
	EventTypeTentative = "tentative"
	EventTypeConfirmed = "confirmed"
)

// BadgeNew marks a tentative event whose lead has no recorded contact attempt.
const BadgeNew = "NEW"

// DropRequest places a lead on a calendar date cell. Date is the cell's
// calendar day; TimezoneOffsetMinutes is the client's UTC offset in minutes
// (positive west of UTC), used to anchor the day to the client's local noon.
type DropRequest struct {
	LeadID                uuid.UUID `json:"leadId" validate:"required"`
	Date                  string    `json:"date" validate:"required,datetime=2006-01-02"`
	TimezoneOffsetMinutes int       `json:"timezoneOffsetMinutes" validate:"min=-840,max=840"`
}

// EventResponse is one rendered calendar entry.
type EventResponse struct {
	Type           string    `json:"type"`
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	CampaignID     uuid.UUID `json:"campaignId"`
	CampaignName   string    `json:"campaignName"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	ContactAttempt *int      `json:"contactAttempt,omitempty"`
	Badge          string    `json:"badge,omitempty"`
	JobStatus      string    `json:"jobStatus,omitempty"`
}

// DayEvents groups the events of one calendar day.
type DayEvents struct {
	Date   string          `json:"date"`
	Events []EventResponse `json:"events"`
}

// EventsResponse is the calendar projection for a date range.
type EventsResponse struct {
	Days []DayEvents `json:"days"`
}
