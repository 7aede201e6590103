package service

import (
	"context"
	"errors"
	"testing"
	"time"

	campaignstransport "leadgrid_backend/internal/campaigns/transport"
	"leadgrid_backend/internal/dashboard/cache"
	"leadgrid_backend/internal/dashboard/transport"
	"leadgrid_backend/internal/dashboard/view"
	jobstransport "leadgrid_backend/internal/jobs/transport"
	leadstransport "leadgrid_backend/internal/leads/transport"
	"leadgrid_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type fakeLeads struct {
	leads []leadstransport.LeadResponse
	err   error
}

func (f *fakeLeads) List(ctx context.Context, contractorID uuid.UUID) ([]leadstransport.LeadResponse, error) {
	return f.leads, f.err
}

type fakeJobs struct {
	list jobstransport.JobListResponse
	err  error
}

func (f *fakeJobs) List(ctx context.Context, contractorID uuid.UUID) (jobstransport.JobListResponse, error) {
	return f.list, f.err
}

type fakeCampaigns struct {
	campaigns []campaignstransport.CampaignResponse
	err       error
}

func (f *fakeCampaigns) List(ctx context.Context, contractorID uuid.UUID) ([]campaignstransport.CampaignResponse, error) {
	return f.campaigns, f.err
}

func newService(t *testing.T, leads *fakeLeads, jobs *fakeJobs, campaigns *fakeCampaigns) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	log := logger.New("development")
	return New(leads, jobs, campaigns, cache.New(client, 30*time.Second, log), log)
}

func TestBucketsSnapshotFailsClosed(t *testing.T) {
	campaignID := uuid.New()
	leads := &fakeLeads{leads: []leadstransport.LeadResponse{{ID: uuid.New(), CampaignID: campaignID}}}
	jobs := &fakeJobs{err: errors.New("store unavailable")}
	campaigns := &fakeCampaigns{campaigns: []campaignstransport.CampaignResponse{{ID: campaignID, Name: "Elm Street", Status: "active"}}}

	svc := newService(t, leads, jobs, campaigns)

	_, err := svc.Buckets(context.Background(), uuid.New(), transport.BucketsQuery{})
	if err == nil {
		t.Fatal("Buckets() must fail when any collection fetch fails")
	}
}

func TestBucketsPartitionsAndPaginates(t *testing.T) {
	campaignID := uuid.New()
	tentative := time.Date(2026, time.March, 15, 19, 0, 0, 0, time.UTC)

	leadRows := make([]leadstransport.LeadResponse, 0, 19)
	for i := 0; i < 17; i++ {
		leadRows = append(leadRows, leadstransport.LeadResponse{
			ID:         uuid.New(),
			CampaignID: campaignID,
			CreatedAt:  time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		})
	}
	leadRows = append(leadRows,
		leadstransport.LeadResponse{ID: uuid.New(), CampaignID: campaignID, IsColdLead: true},
		leadstransport.LeadResponse{ID: uuid.New(), CampaignID: campaignID, TentativeDate: &tentative},
	)

	leads := &fakeLeads{leads: leadRows}
	jobs := &fakeJobs{list: jobstransport.JobListResponse{
		Scheduled: []jobstransport.JobResponse{{ID: uuid.New(), CampaignID: campaignID, Status: "scheduled"}},
		Completed: []jobstransport.JobResponse{{ID: uuid.New(), CampaignID: campaignID, Status: "completed"}},
	}}
	campaigns := &fakeCampaigns{campaigns: []campaignstransport.CampaignResponse{{ID: campaignID, Name: "Elm Street", Status: "active"}}}

	svc := newService(t, leads, jobs, campaigns)

	got, err := svc.Buckets(context.Background(), uuid.New(), transport.BucketsQuery{})
	if err != nil {
		t.Fatalf("Buckets() error = %v", err)
	}

	if got.Leads.TotalItems != 17 {
		t.Errorf("active leads = %d, want 17 (cold and tentative excluded)", got.Leads.TotalItems)
	}
	if got.Leads.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3 at page size 8", got.Leads.TotalPages)
	}
	if len(got.Cold) != 1 {
		t.Errorf("cold bucket = %d, want 1", len(got.Cold))
	}
	if len(got.Completed) != 1 {
		t.Errorf("completed bucket = %d, want 1", len(got.Completed))
	}
}

func TestSummariesServedFromCache(t *testing.T) {
	campaignID := uuid.New()
	contractorID := uuid.New()

	leads := &fakeLeads{leads: []leadstransport.LeadResponse{{ID: uuid.New(), CampaignID: campaignID}}}
	jobs := &fakeJobs{}
	campaigns := &fakeCampaigns{campaigns: []campaignstransport.CampaignResponse{{ID: campaignID, Name: "Elm Street", Status: "active"}}}

	svc := newService(t, leads, jobs, campaigns)

	first, err := svc.Summaries(context.Background(), contractorID)
	if err != nil {
		t.Fatalf("Summaries() error = %v", err)
	}
	if len(first) != 2 || first[0].Name != view.AllCampaignsName {
		t.Fatalf("Summaries() = %+v", first)
	}

	// Break the sources: a cached read must not touch them.
	leads.err = errors.New("store unavailable")
	jobs.err = errors.New("store unavailable")
	campaigns.err = errors.New("store unavailable")

	second, err := svc.Summaries(context.Background(), contractorID)
	if err != nil {
		t.Fatalf("Summaries() from cache error = %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("cached summaries differ: %d vs %d entries", len(second), len(first))
	}
}
