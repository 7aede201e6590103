package service

import (
	"context"
	"testing"
	"time"

	"leadgrid_backend/internal/events"
	"leadgrid_backend/internal/jobs/repository"
	"leadgrid_backend/internal/jobs/transport"
	"leadgrid_backend/platform/apperr"
	"leadgrid_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeJobRepo struct {
	jobs    map[uuid.UUID]repository.Job
	patches []repository.PatchParams
}

func newFakeJobRepo(jobs ...repository.Job) *fakeJobRepo {
	f := &fakeJobRepo{jobs: make(map[uuid.UUID]repository.Job)}
	for _, job := range jobs {
		f.jobs[job.ID] = job
	}
	return f
}

func (f *fakeJobRepo) GetByID(_ context.Context, contractorID, id uuid.UUID) (repository.Job, error) {
	job, ok := f.jobs[id]
	if !ok || job.ContractorID != contractorID {
		return repository.Job{}, apperr.NotFound("job not found")
	}
	return job, nil
}

func (f *fakeJobRepo) List(_ context.Context, contractorID uuid.UUID) ([]repository.Job, error) {
	jobs := make([]repository.Job, 0)
	for _, job := range f.jobs {
		if job.ContractorID == contractorID {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (f *fakeJobRepo) ListScheduledBetween(_ context.Context, contractorID uuid.UUID, from, to time.Time) ([]repository.Job, error) {
	jobs := make([]repository.Job, 0)
	for _, job := range f.jobs {
		if job.ContractorID != contractorID || job.ScheduledInspectionDate == nil {
			continue
		}
		if d := *job.ScheduledInspectionDate; !d.Before(from) && d.Before(to) {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (f *fakeJobRepo) Patch(_ context.Context, contractorID, id uuid.UUID, params repository.PatchParams) (repository.Job, error) {
	job, ok := f.jobs[id]
	if !ok || job.ContractorID != contractorID {
		return repository.Job{}, apperr.NotFound("job not found")
	}
	f.patches = append(f.patches, params)
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.ScheduledInspectionDate != nil {
		job.ScheduledInspectionDate = params.ScheduledInspectionDate
	}
	if params.Inspector != nil {
		job.Inspector = params.Inspector
	}
	if params.InternalNotes != nil {
		job.InternalNotes = params.InternalNotes
	}
	if params.CompletedAt != nil {
		job.CompletedAt = params.CompletedAt
	}
	f.jobs[id] = job
	return job, nil
}

func (f *fakeJobRepo) Delete(_ context.Context, contractorID, id uuid.UUID) error {
	job, ok := f.jobs[id]
	if !ok || job.ContractorID != contractorID {
		return apperr.NotFound("job not found")
	}
	delete(f.jobs, id)
	return nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

type recordingReactivator struct {
	coldLeads []uuid.UUID
}

func (r *recordingReactivator) MarkColdLead(_ context.Context, _, leadID uuid.UUID) error {
	r.coldLeads = append(r.coldLeads, leadID)
	return nil
}

func scheduledJob(contractorID uuid.UUID) repository.Job {
	date := time.Date(2026, time.March, 15, 19, 0, 0, 0, time.UTC)
	return repository.Job{
		ID:                      uuid.New(),
		ContractorID:            contractorID,
		CampaignID:              uuid.New(),
		CampaignName:            "Birchwood",
		CustomerName:            "Jane Homeowner",
		CustomerEmail:           "jane@example.com",
		CustomerPhone:           "+14155550123",
		Status:                  repository.StatusScheduled,
		ScheduledInspectionDate: &date,
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	contractorID := uuid.New()
	job := scheduledJob(contractorID)
	repo := newFakeJobRepo(job)
	bus := &recordingBus{}
	svc := New(repo, bus, logger.New("development"), &recordingReactivator{})

	first, err := svc.Complete(context.Background(), contractorID, job.ID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if first.Status != repository.StatusCompleted || first.CompletedAt == nil {
		t.Fatalf("first completion = %q / %v, want completed with a timestamp", first.Status, first.CompletedAt)
	}
	if len(bus.published) != 1 {
		t.Fatalf("events after first completion = %d, want 1", len(bus.published))
	}
	if _, ok := bus.published[0].(events.JobCompleted); !ok {
		t.Fatalf("published event = %T, want JobCompleted", bus.published[0])
	}

	second, err := svc.Complete(context.Background(), contractorID, job.ID)
	if err != nil {
		t.Fatalf("repeat Complete() error = %v", err)
	}
	if second.Status != repository.StatusCompleted {
		t.Errorf("repeat completion status = %q, want completed", second.Status)
	}
	if second.CompletedAt == nil || !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Errorf("repeat completion timestamp = %v, want original %v", second.CompletedAt, first.CompletedAt)
	}
	if len(repo.patches) != 1 {
		t.Errorf("store writes = %d, want 1 (repeat completion must not write)", len(repo.patches))
	}
	if len(bus.published) != 1 {
		t.Errorf("events = %d, want 1 (repeat completion must not publish)", len(bus.published))
	}
}

func TestUnscheduleDeletesJobAndReactivatesLead(t *testing.T) {
	contractorID := uuid.New()
	job := scheduledJob(contractorID)
	leadID := uuid.New()
	repo := newFakeJobRepo(job)
	bus := &recordingBus{}
	reactivator := &recordingReactivator{}
	svc := New(repo, bus, logger.New("development"), reactivator)

	if err := svc.Unschedule(context.Background(), contractorID, job.ID, &leadID); err != nil {
		t.Fatalf("Unschedule() error = %v", err)
	}

	list, err := svc.List(context.Background(), contractorID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Scheduled) != 0 || len(list.Completed) != 0 {
		t.Errorf("partitions after unschedule = %d scheduled, %d completed, want the job in neither",
			len(list.Scheduled), len(list.Completed))
	}
	if _, err := svc.Get(context.Background(), contractorID, job.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Get(removed job) = %v, want not found", err)
	}

	removed, ok := bus.published[len(bus.published)-1].(events.JobRemoved)
	if !ok || removed.Reason != "unscheduled" {
		t.Errorf("published event = %+v, want JobRemoved with reason unscheduled", bus.published)
	}
	if len(reactivator.coldLeads) != 1 || reactivator.coldLeads[0] != leadID {
		t.Errorf("reactivated leads = %v, want %s", reactivator.coldLeads, leadID)
	}
}

func TestMarkColdDeletesJob(t *testing.T) {
	contractorID := uuid.New()
	job := scheduledJob(contractorID)
	repo := newFakeJobRepo(job)
	bus := &recordingBus{}
	svc := New(repo, bus, logger.New("development"), &recordingReactivator{})

	// No originating lead named: the job is simply discarded.
	if err := svc.MarkCold(context.Background(), contractorID, job.ID, nil); err != nil {
		t.Fatalf("MarkCold() error = %v", err)
	}

	list, err := svc.List(context.Background(), contractorID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Scheduled) != 0 || len(list.Completed) != 0 {
		t.Errorf("partitions after cold-marking = %d scheduled, %d completed, want the job in neither",
			len(list.Scheduled), len(list.Completed))
	}

	removed, ok := bus.published[len(bus.published)-1].(events.JobRemoved)
	if !ok || removed.Reason != "cold" {
		t.Errorf("published event = %+v, want JobRemoved with reason cold", bus.published)
	}
}

func TestValidActions(t *testing.T) {
	t.Run("scheduled job offers completion", func(t *testing.T) {
		got := ValidActions(repository.StatusScheduled)
		want := []string{
			transport.ActionUpdate,
			transport.ActionUnschedule,
			transport.ActionMarkCold,
			transport.ActionComplete,
		}
		if len(got) != len(want) {
			t.Fatalf("ValidActions() = %v, want %v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("ValidActions()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("completed job does not offer completion", func(t *testing.T) {
		for _, action := range ValidActions(repository.StatusCompleted) {
			if action == transport.ActionComplete {
				t.Error("completed job must not offer the complete action")
			}
		}
	})
}
