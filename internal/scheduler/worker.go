package scheduler

import (
	"context"
	"fmt"
	"time"

	authrepo "leadgrid_backend/internal/auth/repository"
	"leadgrid_backend/internal/email"
	leadstransport "leadgrid_backend/internal/leads/transport"
	"leadgrid_backend/platform/apperr"
	"leadgrid_backend/platform/config"
	"leadgrid_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// LeadChecker re-reads a lead's current state before a reminder fires.
// A reminder scheduled days ago must not trigger on a lead that has moved on.
type LeadChecker interface {
	Get(ctx context.Context, contractorID, id uuid.UUID) (leadstransport.LeadResponse, error)
}

// ContractorSource resolves the contractor to notify.
type ContractorSource interface {
	GetContractorByID(ctx context.Context, id uuid.UUID) (authrepo.Contractor, error)
}

// WorkerDeps are the collaborators the reminder worker needs.
type WorkerDeps struct {
	Leads       LeadChecker
	Contractors ContractorSource
	Email       email.Sender
	BaseURL     string
	Log         *logger.Logger
}

// Worker runs the asynq server that delivers reminder emails.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	deps   WorkerDeps
}

// NewWorker creates the reminder worker.
func NewWorker(cfg config.SchedulerConfig, deps WorkerDeps) (*Worker, error) {
	connOpt, err := RedisConnOpt(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(connOpt, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
	})

	w := &Worker{server: server, mux: asynq.NewServeMux(), deps: deps}
	w.mux.HandleFunc(TypeFollowUpReminder, w.handleFollowUpReminder)
	w.mux.HandleFunc(TypeTentativeHoldReminder, w.handleTentativeHoldReminder)

	return w, nil
}

// Run blocks processing tasks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return err
	}

	lead, done, err := w.currentLead(ctx, payload.ContractorID, payload.LeadID)
	if err != nil || done {
		return err
	}
	// Only still-uncontacted, non-cold leads warrant a nudge.
	if lead.ContactAttempt > 0 || lead.IsColdLead {
		return nil
	}

	contractor, err := w.deps.Contractors.GetContractorByID(ctx, payload.ContractorID)
	if err != nil {
		return w.dropIfGone(err)
	}

	return w.deps.Email.SendFollowUpReminderEmail(ctx, contractor.Email, email.FollowUpReminderData{
		HomeownerName: lead.Name,
		CampaignName:  lead.CampaignName,
		CapturedAgo:   humanizeSince(lead.CreatedAt),
		DashboardURL:  fmt.Sprintf("%s/dashboard", w.deps.BaseURL),
	})
}

func (w *Worker) handleTentativeHoldReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseTentativeHoldReminderPayload(task)
	if err != nil {
		return err
	}

	lead, done, err := w.currentLead(ctx, payload.ContractorID, payload.LeadID)
	if err != nil || done {
		return err
	}
	// The hold only matters while the tentative placement still exists.
	if lead.TentativeDate == nil {
		return nil
	}

	contractor, err := w.deps.Contractors.GetContractorByID(ctx, payload.ContractorID)
	if err != nil {
		return w.dropIfGone(err)
	}

	return w.deps.Email.SendTentativeHoldReminderEmail(ctx, contractor.Email, email.TentativeHoldReminderData{
		HomeownerName: lead.Name,
		TentativeDate: lead.TentativeDate.Format("January 2, 2006"),
		DashboardURL:  fmt.Sprintf("%s/calendar", w.deps.BaseURL),
	})
}

// currentLead loads the lead; a missing or promoted lead marks the reminder
// as done without error so asynq does not retry it.
func (w *Worker) currentLead(ctx context.Context, contractorID, leadID uuid.UUID) (leadstransport.LeadResponse, bool, error) {
	lead, err := w.deps.Leads.Get(ctx, contractorID, leadID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return leadstransport.LeadResponse{}, true, nil
		}
		return leadstransport.LeadResponse{}, false, err
	}
	if lead.Stage == "promoted" {
		return leadstransport.LeadResponse{}, true, nil
	}
	return lead, false, nil
}

func (w *Worker) dropIfGone(err error) error {
	if apperr.Is(err, apperr.KindNotFound) {
		return nil
	}
	return err
}

func humanizeSince(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days", int(d.Hours()/24))
	}
}
