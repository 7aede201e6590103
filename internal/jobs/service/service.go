// Package service contains the job business logic: schedule edits,
// completion, and the delete-based unschedule and cold-marking transitions.
package service

import (
	"context"
	"log/slog"
	"time"

	"leadgrid_backend/internal/events"
	"leadgrid_backend/internal/jobs/repository"
	"leadgrid_backend/internal/jobs/transport"
	"leadgrid_backend/platform/apperr"
	"leadgrid_backend/platform/logger"
	"leadgrid_backend/platform/sanitize"

	"github.com/google/uuid"
)

// LeadReactivator drops a lead back into the cold bucket. Jobs carry no
// back-reference to their source lead, so reactivation only happens when the
// caller names the lead explicitly.
type LeadReactivator interface {
	MarkColdLead(ctx context.Context, contractorID, leadID uuid.UUID) error
}

// Service implements the job operations.
type Service struct {
	repo        repository.JobRepository
	bus         events.Bus
	log         *logger.Logger
	reactivator LeadReactivator
}

// New creates a new jobs service.
func New(repo repository.JobRepository, bus events.Bus, log *logger.Logger, reactivator LeadReactivator) *Service {
	return &Service{repo: repo, bus: bus, log: log, reactivator: reactivator}
}

// Get returns a single job owned by the contractor.
func (s *Service) Get(ctx context.Context, contractorID, id uuid.UUID) (transport.JobResponse, error) {
	job, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.JobResponse{}, err
	}
	return toResponse(job), nil
}

// List returns the contractor's jobs partitioned into scheduled and completed.
func (s *Service) List(ctx context.Context, contractorID uuid.UUID) (transport.JobListResponse, error) {
	jobs, err := s.repo.List(ctx, contractorID)
	if err != nil {
		return transport.JobListResponse{}, err
	}

	result := transport.JobListResponse{
		Scheduled: make([]transport.JobResponse, 0),
		Completed: make([]transport.JobResponse, 0),
	}
	for _, job := range jobs {
		if job.Status == repository.StatusCompleted {
			result.Completed = append(result.Completed, toResponse(job))
		} else {
			result.Scheduled = append(result.Scheduled, toResponse(job))
		}
	}
	return result, nil
}

// ListScheduledBetween returns jobs with an inspection date inside [from, to).
// Used by the calendar projection.
func (s *Service) ListScheduledBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]transport.JobResponse, error) {
	jobs, err := s.repo.ListScheduledBetween(ctx, contractorID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, toResponse(job))
	}
	return responses, nil
}

// Update edits a job's inspection date, inspector, or notes. A scheduled job
// cannot lose its inspection date; only the delete transitions do that.
func (s *Service) Update(ctx context.Context, contractorID, id uuid.UUID, req transport.UpdateJobRequest) (transport.JobResponse, error) {
	job, err := s.repo.Patch(ctx, contractorID, id, repository.PatchParams{
		ScheduledInspectionDate: req.ScheduledInspectionDate,
		Inspector:               sanitize.TextPtr(req.Inspector),
		InternalNotes:           sanitize.TextPtr(req.InternalNotes),
	})
	if err != nil {
		return transport.JobResponse{}, err
	}
	return toResponse(job), nil
}

// Complete moves a scheduled job to completed. Completing an already
// completed job is a no-op, not an error: the job is returned unchanged and
// no event is published.
func (s *Service) Complete(ctx context.Context, contractorID, id uuid.UUID) (transport.JobResponse, error) {
	job, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.JobResponse{}, err
	}
	if job.Status == repository.StatusCompleted {
		return toResponse(job), nil
	}

	status := repository.StatusCompleted
	now := time.Now().UTC()
	updated, err := s.repo.Patch(ctx, contractorID, id, repository.PatchParams{
		Status:      &status,
		CompletedAt: &now,
	})
	if err != nil {
		return transport.JobResponse{}, err
	}

	s.log.LifecycleEvent("job_completed", id.String())

	s.bus.Publish(ctx, events.JobCompleted{
		BaseEvent:    events.NewBaseEvent(),
		JobID:        id,
		CampaignID:   job.CampaignID,
		ContractorID: contractorID,
	})

	return toResponse(updated), nil
}

// Unschedule deletes a job. When the caller names the originating lead, that
// lead is dropped into the cold bucket afterwards.
func (s *Service) Unschedule(ctx context.Context, contractorID, id uuid.UUID, reactivateLeadID *uuid.UUID) error {
	return s.remove(ctx, contractorID, id, "unscheduled", reactivateLeadID)
}

// MarkCold deletes a job the contractor has given up on. When the caller
// names the originating lead, that lead is dropped into the cold bucket.
func (s *Service) MarkCold(ctx context.Context, contractorID, id uuid.UUID, reactivateLeadID *uuid.UUID) error {
	return s.remove(ctx, contractorID, id, "cold", reactivateLeadID)
}

func (s *Service) remove(ctx context.Context, contractorID, id uuid.UUID, reason string, reactivateLeadID *uuid.UUID) error {
	job, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, contractorID, id); err != nil {
		return err
	}

	s.log.LifecycleEvent("job_removed", id.String(), slog.String("reason", reason))

	s.bus.Publish(ctx, events.JobRemoved{
		BaseEvent:    events.NewBaseEvent(),
		JobID:        id,
		CampaignID:   job.CampaignID,
		ContractorID: contractorID,
		Reason:       reason,
	})

	if reactivateLeadID != nil && s.reactivator != nil {
		if err := s.reactivator.MarkColdLead(ctx, contractorID, *reactivateLeadID); err != nil {
			// The job is already gone; a failed reactivation is reported but
			// must not resurrect it.
			s.log.Warn("lead reactivation after job removal failed",
				"job_id", id.String(), "lead_id", reactivateLeadID.String(), "error", err.Error())
		}
	}

	return nil
}

// Actions returns the actions currently valid for a job. Completion is
// offered only while the job is not yet completed.
func (s *Service) Actions(ctx context.Context, contractorID, id uuid.UUID) (transport.JobActionsResponse, error) {
	job, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.JobActionsResponse{}, err
	}

	return transport.JobActionsResponse{
		Status:  job.Status,
		Actions: ValidActions(job.Status),
	}, nil
}

// ValidActions lists the actions legal for a job in the given status.
func ValidActions(status string) []string {
	actions := []string{
		transport.ActionUpdate,
		transport.ActionUnschedule,
		transport.ActionMarkCold,
	}
	if status != repository.StatusCompleted {
		actions = append(actions, transport.ActionComplete)
	}
	return actions
}

// Dispatch routes a single user-chosen action to exactly one job mutation.
func (s *Service) Dispatch(ctx context.Context, contractorID, id uuid.UUID, req transport.JobActionRequest) (transport.JobActionResult, error) {
	switch req.Action {
	case transport.ActionUpdate:
		job, err := s.Update(ctx, contractorID, id, transport.UpdateJobRequest{
			ScheduledInspectionDate: req.ScheduledInspectionDate,
			Inspector:               req.Inspector,
			InternalNotes:           req.InternalNotes,
		})
		if err != nil {
			return transport.JobActionResult{}, err
		}
		return transport.JobActionResult{Action: req.Action, Job: &job}, nil

	case transport.ActionComplete:
		job, err := s.Complete(ctx, contractorID, id)
		if err != nil {
			return transport.JobActionResult{}, err
		}
		return transport.JobActionResult{Action: req.Action, Job: &job}, nil

	case transport.ActionUnschedule:
		if err := s.Unschedule(ctx, contractorID, id, req.ReactivateLeadID); err != nil {
			return transport.JobActionResult{}, err
		}
		return transport.JobActionResult{Action: req.Action}, nil

	case transport.ActionMarkCold:
		if err := s.MarkCold(ctx, contractorID, id, req.ReactivateLeadID); err != nil {
			return transport.JobActionResult{}, err
		}
		return transport.JobActionResult{Action: req.Action}, nil

	default:
		return transport.JobActionResult{}, apperr.Validation("unknown action")
	}
}

func toResponse(job repository.Job) transport.JobResponse {
	return transport.JobResponse{
		ID:                      job.ID,
		CampaignID:              job.CampaignID,
		CampaignName:            job.CampaignName,
		CustomerName:            job.CustomerName,
		CustomerEmail:           job.CustomerEmail,
		CustomerPhone:           job.CustomerPhone,
		CustomerAddress:         job.CustomerAddress,
		CustomerNotes:           job.CustomerNotes,
		Status:                  job.Status,
		ScheduledInspectionDate: job.ScheduledInspectionDate,
		Inspector:               job.Inspector,
		InternalNotes:           job.InternalNotes,
		CompletedAt:             job.CompletedAt,
		CreatedAt:               job.CreatedAt,
		UpdatedAt:               job.UpdatedAt,
	}
}
