// Package service contains the lead lifecycle business logic: capture,
// contact tracking, calendar placement, and promotion to jobs.
package service

import (
	"context"
	"log/slog"
	"time"

	"leadgrid_backend/internal/events"
	"leadgrid_backend/internal/leads/domain"
	"leadgrid_backend/internal/leads/repository"
	"leadgrid_backend/internal/leads/transport"
	"leadgrid_backend/platform/apperr"
	"leadgrid_backend/platform/logger"
	"leadgrid_backend/platform/phone"
	"leadgrid_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service implements the lead lifecycle operations.
type Service struct {
	repo repository.LeadRepository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new leads service.
func New(repo repository.LeadRepository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Capture creates a lead from a public campaign-page submission. The capture
// token identifies the campaign; inactive campaigns do not accept leads.
func (s *Service) Capture(ctx context.Context, captureToken string, req transport.CaptureLeadRequest) (transport.LeadResponse, error) {
	campaign, err := s.repo.GetCampaignForCapture(ctx, captureToken)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if campaign.Status != "active" {
		return transport.LeadResponse{}, apperr.NotFound("campaign not found")
	}

	lead, err := s.repo.Create(ctx, repository.CreateParams{
		ContractorID: campaign.ContractorID,
		CampaignID:   campaign.ID,
		Name:         sanitize.Text(req.Name),
		Email:        req.Email,
		Phone:        phone.NormalizeE164(req.Phone),
		Address:      sanitize.TextPtr(req.Address),
		Notes:        sanitize.TextPtr(req.Notes),
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.LifecycleEvent("lead_captured", lead.ID.String(),
		slog.String("campaign_id", campaign.ID.String()))

	s.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		CampaignID:    campaign.ID,
		ContractorID:  campaign.ContractorID,
		CampaignName:  campaign.Name,
		HomeownerName: lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Address:       lead.Address,
	})

	return toResponse(lead), nil
}

// Get returns a single lead owned by the contractor.
func (s *Service) Get(ctx context.Context, contractorID, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toResponse(lead), nil
}

// List returns all non-promoted leads of the contractor.
func (s *Service) List(ctx context.Context, contractorID uuid.UUID) ([]transport.LeadResponse, error) {
	leads, err := s.repo.List(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, toResponse(lead))
	}
	return responses, nil
}

// ListTentativeBetween returns the contractor's tentatively placed leads
// inside [from, to). Used by the calendar projection.
func (s *Service) ListTentativeBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]transport.LeadResponse, error) {
	leads, err := s.repo.ListTentativeBetween(ctx, contractorID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		responses = append(responses, toResponse(lead))
	}
	return responses, nil
}

// RecordContactAttempt sets the attempt counter and cold flag. The attempt
// value is validated against {0,1,2,3} before any store write. The coarse
// job-status mirror is kept in step.
func (s *Service) RecordContactAttempt(ctx context.Context, contractorID, id uuid.UUID, req transport.RecordContactAttemptRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	next, err := domain.ApplyContactAttempt(lifecycleOf(lead), req.Attempt, req.IsCold)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	mirror := next.MirrorJobStatus()
	updated, err := s.repo.Patch(ctx, contractorID, id, repository.PatchParams{
		ContactAttempt: &next.ContactAttempt,
		IsColdLead:     &next.IsColdLead,
		JobStatus:      &mirror,
		Inspector:      sanitize.TextPtr(req.Inspector),
		InternalNotes:  sanitize.TextPtr(req.InternalNotes),
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.LifecycleEvent("lead_contact_attempted", id.String(),
		slog.Int("attempt", req.Attempt), slog.Bool("is_cold", req.IsCold))

	s.bus.Publish(ctx, events.LeadContactAttempted{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       id,
		ContractorID: contractorID,
		Attempt:      req.Attempt,
		IsCold:       req.IsCold,
	})

	return toResponse(updated), nil
}

// MarkCold cold-buckets a lead, preserving its attempt counter.
func (s *Service) MarkCold(ctx context.Context, contractorID, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return s.RecordContactAttempt(ctx, contractorID, id, transport.RecordContactAttemptRequest{
		Attempt: lead.ContactAttempt,
		IsCold:  true,
	})
}

// MarkColdLead cold-buckets a lead by id, discarding the updated record.
// Used by the jobs module when a removed job's originating lead is named.
func (s *Service) MarkColdLead(ctx context.Context, contractorID, id uuid.UUID) error {
	_, err := s.MarkCold(ctx, contractorID, id)
	return err
}

// PlaceOnCalendar sets a tentative date on a lead. Placement never touches
// the attempt counter.
func (s *Service) PlaceOnCalendar(ctx context.Context, contractorID, id uuid.UUID, tentativeDate time.Time) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	next, err := domain.ApplyCalendarPlacement(lifecycleOf(lead), tentativeDate)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.repo.Patch(ctx, contractorID, id, repository.PatchParams{
		TentativeDate: next.TentativeDate,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.LifecycleEvent("lead_placed_on_calendar", id.String(),
		slog.Time("tentative_date", tentativeDate))

	s.bus.Publish(ctx, events.LeadPlacedOnCalendar{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        id,
		ContractorID:  contractorID,
		TentativeDate: tentativeDate,
	})

	return toResponse(updated), nil
}

// RemoveFromCalendar clears a lead's tentative date.
func (s *Service) RemoveFromCalendar(ctx context.Context, contractorID, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if _, err := domain.ApplyCalendarRemoval(lifecycleOf(lead)); err != nil {
		return transport.LeadResponse{}, err
	}

	updated, err := s.repo.Patch(ctx, contractorID, id, repository.PatchParams{
		ClearTentativeDate: true,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.LifecycleEvent("lead_removed_from_calendar", id.String())

	s.bus.Publish(ctx, events.LeadRemovedFromCalendar{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       id,
		ContractorID: contractorID,
	})

	return toResponse(updated), nil
}

// Promote turns a lead into a job. The job copies the lead's contact fields
// so it survives independent of later lead edits; the lead's tentative date
// is cleared in the same transaction. This is the only operation that
// creates a job.
func (s *Service) Promote(ctx context.Context, contractorID, id uuid.UUID, req transport.PromoteLeadRequest) (transport.PromoteResult, error) {
	if err := domain.ValidatePromotion(req.Status, req.ScheduledInspectionDate); err != nil {
		return transport.PromoteResult{}, err
	}

	lead, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.PromoteResult{}, err
	}
	if _, err := domain.ApplyPromotion(lifecycleOf(lead)); err != nil {
		return transport.PromoteResult{}, err
	}

	jobID, err := s.repo.Promote(ctx, contractorID, id, repository.PromoteParams{
		Status:                  req.Status,
		ScheduledInspectionDate: req.ScheduledInspectionDate,
		Inspector:               sanitize.TextPtr(req.Inspector),
		InternalNotes:           sanitize.TextPtr(req.InternalNotes),
	})
	if err != nil {
		return transport.PromoteResult{}, err
	}

	s.log.LifecycleEvent("lead_promoted", id.String(),
		slog.String("job_id", jobID.String()), slog.String("status", req.Status))

	s.bus.Publish(ctx, events.LeadPromoted{
		BaseEvent:               events.NewBaseEvent(),
		LeadID:                  id,
		JobID:                   jobID,
		CampaignID:              lead.CampaignID,
		ContractorID:            contractorID,
		Status:                  req.Status,
		ScheduledInspectionDate: req.ScheduledInspectionDate,
		HomeownerName:           lead.Name,
		HomeownerEmail:          lead.Email,
	})

	return transport.PromoteResult{LeadID: id, JobID: jobID}, nil
}

// Update edits a lead's contact and annotation fields.
func (s *Service) Update(ctx context.Context, contractorID, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	params := repository.PatchParams{
		Name:          sanitize.TextPtr(req.Name),
		Email:         req.Email,
		Address:       sanitize.TextPtr(req.Address),
		Notes:         sanitize.TextPtr(req.Notes),
		Inspector:     sanitize.TextPtr(req.Inspector),
		InternalNotes: sanitize.TextPtr(req.InternalNotes),
	}
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	updated, err := s.repo.Patch(ctx, contractorID, id, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return toResponse(updated), nil
}

func lifecycleOf(lead repository.Lead) domain.Lifecycle {
	return domain.Lifecycle{
		ContactAttempt: lead.ContactAttempt,
		IsColdLead:     lead.IsColdLead,
		TentativeDate:  lead.TentativeDate,
		Promoted:       lead.PromotedAt != nil,
	}
}

func toResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:             lead.ID,
		CampaignID:     lead.CampaignID,
		CampaignName:   lead.CampaignName,
		Name:           lead.Name,
		Email:          lead.Email,
		Phone:          lead.Phone,
		Address:        lead.Address,
		Notes:          lead.Notes,
		ContactAttempt: lead.ContactAttempt,
		IsColdLead:     lead.IsColdLead,
		TentativeDate:  lead.TentativeDate,
		JobStatus:      lead.JobStatus,
		Stage:          string(lifecycleOf(lead).Stage()),
		Inspector:      lead.Inspector,
		InternalNotes:  lead.InternalNotes,
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
	}
}
