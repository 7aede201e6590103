// Package notification reacts to domain events: it emails contractors and
// homeowners and schedules the delayed reminder tasks. It exposes no HTTP
// routes of its own.
package notification

import (
	"context"
	"fmt"
	"time"

	authrepo "leadgrid_backend/internal/auth/repository"
	"leadgrid_backend/internal/email"
	"leadgrid_backend/internal/events"
	"leadgrid_backend/internal/scheduler"
	"leadgrid_backend/platform/config"
	"leadgrid_backend/platform/logger"

	"github.com/google/uuid"
)

// The tentative-hold nudge fires the day before the held date. Placements
// already inside that window, or on a past date, get a short grace period
// instead of firing immediately.
const (
	tentativeHoldLeadTime = 24 * time.Hour
	tentativeHoldMinDelay = time.Hour
)

// tentativeHoldDelay computes how long to wait before nudging the contractor
// about an unconfirmed tentative placement.
func tentativeHoldDelay(now, tentativeDate time.Time) time.Duration {
	delay := tentativeDate.Add(-tentativeHoldLeadTime).Sub(now)
	if delay < tentativeHoldMinDelay {
		return tentativeHoldMinDelay
	}
	return delay
}

// ContractorSource resolves the contractor behind an event.
type ContractorSource interface {
	GetContractorByID(ctx context.Context, id uuid.UUID) (authrepo.Contractor, error)
}

// Module wires domain events to emails and reminder tasks.
type Module struct {
	email       email.Sender
	enqueuer    scheduler.Enqueuer
	contractors ContractorSource
	cfg         config.NotificationConfig
	log         *logger.Logger
}

// NewModule creates the notification module.
func NewModule(sender email.Sender, enqueuer scheduler.Enqueuer, contractors ContractorSource,
	cfg config.NotificationConfig, log *logger.Logger) *Module {
	return &Module{email: sender, enqueuer: enqueuer, contractors: contractors, cfg: cfg, log: log}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(m.onLeadCaptured))
	bus.Subscribe(events.LeadPlacedOnCalendar{}.EventName(), events.HandlerFunc(m.onLeadPlacedOnCalendar))
	bus.Subscribe(events.LeadPromoted{}.EventName(), events.HandlerFunc(m.onLeadPromoted))
}

// onLeadCaptured notifies the contractor of the new lead and schedules the
// follow-up reminder in case it stays uncontacted.
func (m *Module) onLeadCaptured(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadCaptured)
	if !ok {
		return nil
	}

	contractor, err := m.contractors.GetContractorByID(ctx, e.ContractorID)
	if err != nil {
		return fmt.Errorf("lead captured notification: %w", err)
	}

	address := ""
	if e.Address != nil {
		address = *e.Address
	}
	if err := m.email.SendLeadCapturedEmail(ctx, contractor.Email, email.LeadCapturedData{
		CampaignName:  e.CampaignName,
		HomeownerName: e.HomeownerName,
		Phone:         e.Phone,
		Email:         e.Email,
		Address:       address,
		DashboardURL:  fmt.Sprintf("%s/dashboard", m.cfg.GetAppBaseURL()),
	}); err != nil {
		return fmt.Errorf("lead captured email: %w", err)
	}

	if err := m.enqueuer.EnqueueFollowUpReminder(ctx, scheduler.FollowUpReminderPayload{
		LeadID:       e.LeadID,
		ContractorID: e.ContractorID,
	}, m.cfg.GetFollowUpReminderDelay()); err != nil {
		return fmt.Errorf("schedule follow-up reminder: %w", err)
	}

	return nil
}

// onLeadPlacedOnCalendar schedules the tentative-hold reminder for the day
// before the held date. The worker re-checks the lead before sending, so a
// placement that is promoted or moved in the meantime stays quiet.
func (m *Module) onLeadPlacedOnCalendar(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadPlacedOnCalendar)
	if !ok {
		return nil
	}

	if err := m.enqueuer.EnqueueTentativeHoldReminder(ctx, scheduler.TentativeHoldReminderPayload{
		LeadID:       e.LeadID,
		ContractorID: e.ContractorID,
	}, tentativeHoldDelay(time.Now(), e.TentativeDate)); err != nil {
		return fmt.Errorf("schedule tentative-hold reminder: %w", err)
	}

	return nil
}

// onLeadPromoted confirms a scheduled inspection to the homeowner.
func (m *Module) onLeadPromoted(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadPromoted)
	if !ok {
		return nil
	}
	// Nothing to confirm for a job recorded directly as completed.
	if e.Status != "scheduled" || e.ScheduledInspectionDate == nil {
		return nil
	}

	contractor, err := m.contractors.GetContractorByID(ctx, e.ContractorID)
	if err != nil {
		return fmt.Errorf("lead promoted notification: %w", err)
	}

	if err := m.email.SendInspectionScheduledEmail(ctx, e.HomeownerEmail, email.InspectionScheduledData{
		HomeownerName:  e.HomeownerName,
		CompanyName:    contractor.CompanyName,
		InspectionDate: e.ScheduledInspectionDate.Format("January 2, 2006"),
	}); err != nil {
		return fmt.Errorf("inspection scheduled email: %w", err)
	}

	return nil
}
