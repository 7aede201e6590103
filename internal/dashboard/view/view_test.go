package view

import (
	"testing"
	"time"

	jobstransport "leadgrid_backend/internal/jobs/transport"
	leadstransport "leadgrid_backend/internal/leads/transport"

	"github.com/google/uuid"
)

func activeLeads(campaignID uuid.UUID, n int) []leadstransport.LeadResponse {
	leads := make([]leadstransport.LeadResponse, 0, n)
	for i := 0; i < n; i++ {
		leads = append(leads, leadstransport.LeadResponse{
			ID:         uuid.New(),
			CampaignID: campaignID,
			CreatedAt:  time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		})
	}
	return leads
}

func jobsFor(campaignID uuid.UUID, n int, status string) []jobstransport.JobResponse {
	jobs := make([]jobstransport.JobResponse, 0, n)
	for i := 0; i < n; i++ {
		jobs = append(jobs, jobstransport.JobResponse{ID: uuid.New(), CampaignID: campaignID, Status: status})
	}
	return jobs
}

func TestSummariesSortOrder(t *testing.T) {
	campA := CampaignInput{ID: uuid.New(), Name: "Aspen Heights", Active: true}
	campB := CampaignInput{ID: uuid.New(), Name: "Birchwood", Active: true}
	campC := CampaignInput{ID: uuid.New(), Name: "Cedar Park", Active: false}

	var leads []leadstransport.LeadResponse
	leads = append(leads, activeLeads(campA.ID, 5)...)
	leads = append(leads, activeLeads(campB.ID, 5)...)
	leads = append(leads, activeLeads(campC.ID, 10)...)

	var jobs []jobstransport.JobResponse
	jobs = append(jobs, jobsFor(campA.ID, 2, "scheduled")...)
	jobs = append(jobs, jobsFor(campB.ID, 3, "scheduled")...)

	got := Summaries([]CampaignInput{campA, campB, campC}, leads, jobs)

	if len(got) != 4 {
		t.Fatalf("summaries = %d, want 4 (3 campaigns + All)", len(got))
	}
	if got[0].Name != AllCampaignsName || got[0].ID != nil {
		t.Errorf("first entry = %+v, want synthetic All Campaigns", got[0])
	}
	if got[0].NewLeadCount != 20 || got[0].JobCount != 5 {
		t.Errorf("All Campaigns totals = %d leads / %d jobs, want 20 / 5", got[0].NewLeadCount, got[0].JobCount)
	}

	// Active before inactive; equal lead counts broken by job count:
	// B (5 leads, 3 jobs) before A (5 leads, 2 jobs) before C (inactive).
	wantOrder := []string{"Birchwood", "Aspen Heights", "Cedar Park"}
	for i, want := range wantOrder {
		if got[i+1].Name != want {
			t.Errorf("summary[%d] = %s, want %s", i+1, got[i+1].Name, want)
		}
	}
}

func TestSummariesZeroActivityCampaignStillAppears(t *testing.T) {
	camp := CampaignInput{ID: uuid.New(), Name: "Dormant", Active: true}

	got := Summaries([]CampaignInput{camp}, nil, nil)
	if len(got) != 2 {
		t.Fatalf("summaries = %d, want 2", len(got))
	}
	if got[1].Name != "Dormant" || got[1].NewLeadCount != 0 || got[1].JobCount != 0 {
		t.Errorf("dormant campaign = %+v, want zero counts", got[1])
	}
}

func TestSummariesCountsExcludeColdAndTentative(t *testing.T) {
	camp := CampaignInput{ID: uuid.New(), Name: "Elm Street", Active: true}
	tentative := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	leads := []leadstransport.LeadResponse{
		{ID: uuid.New(), CampaignID: camp.ID},
		{ID: uuid.New(), CampaignID: camp.ID, IsColdLead: true},
		{ID: uuid.New(), CampaignID: camp.ID, TentativeDate: &tentative},
	}

	got := Summaries([]CampaignInput{camp}, leads, nil)
	if got[1].NewLeadCount != 1 {
		t.Errorf("newLeadCount = %d, want 1 (cold and tentative excluded)", got[1].NewLeadCount)
	}
}

func TestPartitionBucketsAreMutuallyExclusive(t *testing.T) {
	campaignID := uuid.New()
	tentative := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	active := leadstransport.LeadResponse{ID: uuid.New(), CampaignID: campaignID}
	cold := leadstransport.LeadResponse{ID: uuid.New(), CampaignID: campaignID, IsColdLead: true}
	coldWithTentative := leadstransport.LeadResponse{ID: uuid.New(), CampaignID: campaignID, IsColdLead: true, TentativeDate: &tentative}
	placed := leadstransport.LeadResponse{ID: uuid.New(), CampaignID: campaignID, TentativeDate: &tentative}

	jobs := []jobstransport.JobResponse{
		{ID: uuid.New(), CampaignID: campaignID, Status: "scheduled"},
		{ID: uuid.New(), CampaignID: campaignID, Status: "completed"},
	}

	got := Partition([]leadstransport.LeadResponse{active, cold, coldWithTentative, placed}, jobs, nil)

	if len(got.Leads) != 1 || got.Leads[0].ID != active.ID {
		t.Errorf("leads bucket = %v, want only the active lead", got.Leads)
	}
	if len(got.Cold) != 2 {
		t.Errorf("cold bucket = %d, want 2 (cold flag wins over tentative date)", len(got.Cold))
	}
	if len(got.Completed) != 1 || got.Completed[0].Status != "completed" {
		t.Errorf("completed bucket = %v, want the completed job only", got.Completed)
	}

	// A tentatively placed lead appears in no list bucket at all.
	for _, lead := range got.Leads {
		if lead.ID == placed.ID {
			t.Error("tentatively placed lead must not appear in the leads bucket")
		}
	}
}

func TestPartitionCampaignFilter(t *testing.T) {
	campA := uuid.New()
	campB := uuid.New()

	leads := []leadstransport.LeadResponse{
		{ID: uuid.New(), CampaignID: campA},
		{ID: uuid.New(), CampaignID: campB},
	}
	jobs := []jobstransport.JobResponse{
		{ID: uuid.New(), CampaignID: campA, Status: "completed"},
		{ID: uuid.New(), CampaignID: campB, Status: "completed"},
	}

	got := Partition(leads, jobs, &campA)
	if len(got.Leads) != 1 || got.Leads[0].CampaignID != campA {
		t.Errorf("filtered leads = %v, want campaign A only", got.Leads)
	}
	if len(got.Completed) != 1 || got.Completed[0].CampaignID != campA {
		t.Errorf("filtered completed = %v, want campaign A only", got.Completed)
	}

	all := Partition(leads, jobs, nil)
	if len(all.Leads) != 2 || len(all.Completed) != 2 {
		t.Error("nil filter must pass everything through")
	}
}

func TestPaginate(t *testing.T) {
	leads := activeLeads(uuid.New(), 17)

	t.Run("17 leads at page size 8 gives 3 pages", func(t *testing.T) {
		page := Paginate(leads, SortNewestFirst, 0, 8)
		if page.TotalPages != 3 {
			t.Errorf("TotalPages = %d, want 3", page.TotalPages)
		}
		if len(page.Items) != 8 {
			t.Errorf("page 0 items = %d, want 8", len(page.Items))
		}

		last := Paginate(leads, SortNewestFirst, 2, 8)
		if len(last.Items) != 1 {
			t.Errorf("page 2 items = %d, want 1", len(last.Items))
		}
	})

	t.Run("page index is clamped when items shrink", func(t *testing.T) {
		shrunk := leads[:7] // was on page 2, now only one page's worth
		page := Paginate(shrunk, SortNewestFirst, 2, 8)
		if page.PageIndex != 0 {
			t.Errorf("PageIndex = %d, want clamp to 0", page.PageIndex)
		}
		if len(page.Items) != 7 {
			t.Errorf("items = %d, want 7", len(page.Items))
		}
	})

	t.Run("clamp lands on the last page, not past it", func(t *testing.T) {
		page := Paginate(leads[:10], SortNewestFirst, 5, 8) // 2 pages
		if page.PageIndex != 1 {
			t.Errorf("PageIndex = %d, want 1", page.PageIndex)
		}
	})

	t.Run("sort order", func(t *testing.T) {
		newest := Paginate(leads, SortNewestFirst, 0, 8)
		if !newest.Items[0].CreatedAt.After(newest.Items[1].CreatedAt) {
			t.Error("newest-first page is not descending")
		}
		oldest := Paginate(leads, SortOldestFirst, 0, 8)
		if !oldest.Items[0].CreatedAt.Before(oldest.Items[1].CreatedAt) {
			t.Error("oldest-first page is not ascending")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		page := Paginate(nil, SortNewestFirst, 3, 8)
		if page.TotalPages != 0 || page.PageIndex != 0 || len(page.Items) != 0 {
			t.Errorf("empty page = %+v", page)
		}
	})
}

func TestViewsAreDeterministic(t *testing.T) {
	campaignID := uuid.New()
	campaigns := []CampaignInput{{ID: campaignID, Name: "Elm Street", Active: true}}
	leads := activeLeads(campaignID, 9)
	jobs := jobsFor(campaignID, 4, "completed")

	first := Summaries(campaigns, leads, jobs)
	second := Summaries(campaigns, leads, jobs)
	if len(first) != len(second) {
		t.Fatalf("summary lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Name != second[i].Name ||
			first[i].NewLeadCount != second[i].NewLeadCount ||
			first[i].JobCount != second[i].JobCount {
			t.Fatalf("summaries differ between identical runs at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
