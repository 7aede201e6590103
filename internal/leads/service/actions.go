package service

import (
	"context"

	"leadgrid_backend/internal/leads/domain"
	"leadgrid_backend/internal/leads/transport"
	"leadgrid_backend/platform/apperr"

	"github.com/google/uuid"
)

// ValidActions lists the lifecycle actions legal for a lead in the given
// state. A promoted lead offers nothing; removal is offered only while a
// tentative placement exists.
func ValidActions(l domain.Lifecycle) []string {
	if l.Promoted {
		return []string{}
	}

	actions := []string{
		transport.ActionRecordContactAttempt,
		transport.ActionPlaceOnCalendar,
		transport.ActionPromote,
	}
	if l.OnCalendar() {
		actions = append(actions, transport.ActionRemoveFromCalendar)
	}
	return actions
}

// Actions returns the actions currently valid for a lead.
func (s *Service) Actions(ctx context.Context, contractorID, id uuid.UUID) (transport.ActionsResponse, error) {
	lead, err := s.repo.GetByID(ctx, contractorID, id)
	if err != nil {
		return transport.ActionsResponse{}, err
	}

	lifecycle := lifecycleOf(lead)
	return transport.ActionsResponse{
		Stage:   string(lifecycle.Stage()),
		Actions: ValidActions(lifecycle),
	}, nil
}

// Dispatch routes a single user-chosen action to exactly one lifecycle
// mutation. It never issues more than one mutating call per request.
func (s *Service) Dispatch(ctx context.Context, contractorID, id uuid.UUID, req transport.ActionRequest) (transport.ActionResult, error) {
	switch req.Action {
	case transport.ActionRecordContactAttempt:
		if req.Attempt == nil {
			return transport.ActionResult{}, apperr.Validation("attempt is required for recordContactAttempt")
		}
		isCold := false
		if req.IsCold != nil {
			isCold = *req.IsCold
		}
		lead, err := s.RecordContactAttempt(ctx, contractorID, id, transport.RecordContactAttemptRequest{
			Attempt:       *req.Attempt,
			IsCold:        isCold,
			Inspector:     req.Inspector,
			InternalNotes: req.InternalNotes,
		})
		if err != nil {
			return transport.ActionResult{}, err
		}
		return transport.ActionResult{Action: req.Action, Lead: &lead}, nil

	case transport.ActionPlaceOnCalendar:
		if req.TentativeDate == nil {
			return transport.ActionResult{}, apperr.Validation("tentativeDate is required for placeOnCalendar")
		}
		lead, err := s.PlaceOnCalendar(ctx, contractorID, id, *req.TentativeDate)
		if err != nil {
			return transport.ActionResult{}, err
		}
		return transport.ActionResult{Action: req.Action, Lead: &lead}, nil

	case transport.ActionRemoveFromCalendar:
		lead, err := s.RemoveFromCalendar(ctx, contractorID, id)
		if err != nil {
			return transport.ActionResult{}, err
		}
		return transport.ActionResult{Action: req.Action, Lead: &lead}, nil

	case transport.ActionPromote:
		if req.Status == nil {
			return transport.ActionResult{}, apperr.Validation("status is required for promote")
		}
		result, err := s.Promote(ctx, contractorID, id, transport.PromoteLeadRequest{
			Status:                  *req.Status,
			ScheduledInspectionDate: req.ScheduledInspectionDate,
			Inspector:               req.Inspector,
			InternalNotes:           req.InternalNotes,
		})
		if err != nil {
			return transport.ActionResult{}, err
		}
		return transport.ActionResult{Action: req.Action, JobID: &result.JobID}, nil

	default:
		return transport.ActionResult{}, apperr.Validation("unknown action")
	}
}
