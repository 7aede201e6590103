// Package service builds the calendar projection and bridges drop gestures
// to lead placements.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"leadgrid_backend/internal/calendar/transport"
	jobstransport "leadgrid_backend/internal/jobs/transport"
	leadstransport "leadgrid_backend/internal/leads/transport"
	"leadgrid_backend/platform/apperr"
	"leadgrid_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	dateLayout    = "2006-01-02"
	eventDuration = time.Hour
)

// LeadSource is the slice of the leads module the calendar consumes.
type LeadSource interface {
	ListTentativeBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]leadstransport.LeadResponse, error)
	PlaceOnCalendar(ctx context.Context, contractorID, id uuid.UUID, tentativeDate time.Time) (leadstransport.LeadResponse, error)
}

// JobSource is the slice of the jobs module the calendar consumes.
type JobSource interface {
	ListScheduledBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]jobstransport.JobResponse, error)
}

// Service implements the calendar operations.
type Service struct {
	leads LeadSource
	jobs  JobSource
	log   *logger.Logger

	// inFlight serializes placements per lead: a second drop on the same
	// lead is rejected until the first save completes.
	inFlight sync.Map
}

// New creates a new calendar service.
func New(leads LeadSource, jobs JobSource, log *logger.Logger) *Service {
	return &Service{leads: leads, jobs: jobs, log: log}
}

// NormalizeToLocalNoon anchors a calendar day to 12:00 in the client's
// timezone, expressed as a UTC instant. Noon, rather than midnight, keeps
// the day from rendering as the previous day in negative-UTC-offset
// timezones. tzOffsetMinutes follows the JavaScript convention: minutes to
// add to local time to reach UTC (positive west of UTC).
func NormalizeToLocalNoon(day time.Time, tzOffsetMinutes int) time.Time {
	noonUTC := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
	return noonUTC.Add(time.Duration(tzOffsetMinutes) * time.Minute)
}

// ResolveDrop parses a dropped-on date cell into the tentative-date instant
// to store: the cell's day at the client's local noon.
func ResolveDrop(date string, tzOffsetMinutes int) (time.Time, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, apperr.Validation("date must be formatted as YYYY-MM-DD")
	}
	return NormalizeToLocalNoon(day, tzOffsetMinutes), nil
}

// Drop places a lead on the calendar from a drag-and-drop gesture.
// Placements on the same lead are serialized: a concurrent second drop is
// rejected with a conflict so the authoritative save is never raced.
func (s *Service) Drop(ctx context.Context, contractorID uuid.UUID, req transport.DropRequest) (leadstransport.LeadResponse, error) {
	tentativeDate, err := ResolveDrop(req.Date, req.TimezoneOffsetMinutes)
	if err != nil {
		return leadstransport.LeadResponse{}, err
	}

	if _, busy := s.inFlight.LoadOrStore(req.LeadID, struct{}{}); busy {
		return leadstransport.LeadResponse{}, apperr.Conflict("a placement for this lead is already in progress")
	}
	defer s.inFlight.Delete(req.LeadID)

	lead, err := s.leads.PlaceOnCalendar(ctx, contractorID, req.LeadID, tentativeDate)
	if err != nil {
		return leadstransport.LeadResponse{}, err
	}

	return lead, nil
}

// Events builds the calendar projection for [from, to): tentative leads and
// confirmed jobs merged into single-day events grouped per day. A non-nil
// campaignID narrows the projection to one campaign. Both fetches must
// succeed; the projection is never half of a snapshot.
func (s *Service) Events(ctx context.Context, contractorID uuid.UUID, from, to time.Time, campaignID *uuid.UUID) (transport.EventsResponse, error) {
	if !to.After(from) {
		return transport.EventsResponse{}, apperr.Validation("to must be after from")
	}

	tentativeLeads, err := s.leads.ListTentativeBetween(ctx, contractorID, from, to)
	if err != nil {
		return transport.EventsResponse{}, fmt.Errorf("calendar events leads: %w", err)
	}
	jobs, err := s.jobs.ListScheduledBetween(ctx, contractorID, from, to)
	if err != nil {
		return transport.EventsResponse{}, fmt.Errorf("calendar events jobs: %w", err)
	}

	events := make([]transport.EventResponse, 0, len(tentativeLeads)+len(jobs))
	for _, lead := range tentativeLeads {
		if lead.TentativeDate == nil {
			continue
		}
		if campaignID != nil && lead.CampaignID != *campaignID {
			continue
		}
		attempt := lead.ContactAttempt
		event := transport.EventResponse{
			Type:           transport.EventTypeTentative,
			ID:             lead.ID,
			Title:          lead.Name,
			CampaignID:     lead.CampaignID,
			CampaignName:   lead.CampaignName,
			Start:          *lead.TentativeDate,
			End:            lead.TentativeDate.Add(eventDuration),
			ContactAttempt: &attempt,
		}
		if attempt == 0 {
			event.Badge = transport.BadgeNew
		}
		events = append(events, event)
	}
	for _, job := range jobs {
		if job.ScheduledInspectionDate == nil {
			continue
		}
		if campaignID != nil && job.CampaignID != *campaignID {
			continue
		}
		events = append(events, transport.EventResponse{
			Type:         transport.EventTypeConfirmed,
			ID:           job.ID,
			Title:        job.CustomerName,
			CampaignID:   job.CampaignID,
			CampaignName: job.CampaignName,
			Start:        *job.ScheduledInspectionDate,
			End:          job.ScheduledInspectionDate.Add(eventDuration),
			JobStatus:    job.Status,
		})
	}

	return transport.EventsResponse{Days: groupByDay(events)}, nil
}

// groupByDay buckets events by calendar day (UTC) and sorts days
// chronologically, events within a day by start time.
func groupByDay(events []transport.EventResponse) []transport.DayEvents {
	byDay := make(map[string][]transport.EventResponse)
	for _, event := range events {
		day := event.Start.UTC().Format(dateLayout)
		byDay[day] = append(byDay[day], event)
	}

	days := make([]transport.DayEvents, 0, len(byDay))
	for day, dayEvents := range byDay {
		sort.Slice(dayEvents, func(i, j int) bool {
			if dayEvents[i].Start.Equal(dayEvents[j].Start) {
				return dayEvents[i].Title < dayEvents[j].Title
			}
			return dayEvents[i].Start.Before(dayEvents[j].Start)
		})
		days = append(days, transport.DayEvents{Date: day, Events: dayEvents})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return days
}
