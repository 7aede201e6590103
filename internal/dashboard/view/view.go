// Package view computes the dashboard's derived views: per-campaign
// summaries, the three sidebar buckets, and the paginated lead list. All
// functions are pure over their inputs so the same collections always
// produce the same view.
package view

import (
	"sort"

	jobstransport "leadgrid_backend/internal/jobs/transport"
	leadstransport "leadgrid_backend/internal/leads/transport"

	"github.com/google/uuid"
)

// AllCampaignsName is the display name of the synthetic aggregate entry.
const AllCampaignsName = "All Campaigns"

// Bucket names.
const (
	BucketLeads     = "leads"
	BucketCold      = "cold"
	BucketCompleted = "completed"
)

// Sort orders for the leads bucket.
const (
	SortNewestFirst = "newest"
	SortOldestFirst = "oldest"
)

// CampaignInput is the campaign slice the summary computation needs.
type CampaignInput struct {
	ID     uuid.UUID
	Name   string
	Active bool
}

// CampaignSummary is one row of the sidebar campaign list. The synthetic
// "All Campaigns" entry has a nil ID.
type CampaignSummary struct {
	ID           *uuid.UUID `json:"id"`
	Name         string     `json:"name"`
	Active       bool       `json:"active"`
	NewLeadCount int        `json:"newLeadCount"`
	JobCount     int        `json:"jobCount"`
}

// Summaries computes the per-campaign aggregate list. Every known campaign
// appears, including ones with zero activity. newLeadCount counts active
// leads only (not cold, not tentatively placed); jobCount counts scheduled
// and completed jobs. Order: the synthetic "All Campaigns" entry first, then
// active campaigns before inactive, higher newLeadCount first, ties broken
// by higher jobCount, then by name.
func Summaries(campaigns []CampaignInput, leads []leadstransport.LeadResponse, jobs []jobstransport.JobResponse) []CampaignSummary {
	newLeadCounts := make(map[uuid.UUID]int)
	for _, lead := range leads {
		if isActiveLead(lead) {
			newLeadCounts[lead.CampaignID]++
		}
	}
	jobCounts := make(map[uuid.UUID]int)
	for _, job := range jobs {
		jobCounts[job.CampaignID]++
	}

	summaries := make([]CampaignSummary, 0, len(campaigns))
	totalLeads, totalJobs := 0, 0
	for _, campaign := range campaigns {
		id := campaign.ID
		summary := CampaignSummary{
			ID:           &id,
			Name:         campaign.Name,
			Active:       campaign.Active,
			NewLeadCount: newLeadCounts[campaign.ID],
			JobCount:     jobCounts[campaign.ID],
		}
		totalLeads += summary.NewLeadCount
		totalJobs += summary.JobCount
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.Active != b.Active {
			return a.Active
		}
		if a.NewLeadCount != b.NewLeadCount {
			return a.NewLeadCount > b.NewLeadCount
		}
		if a.JobCount != b.JobCount {
			return a.JobCount > b.JobCount
		}
		return a.Name < b.Name
	})

	all := CampaignSummary{
		Name:         AllCampaignsName,
		Active:       true,
		NewLeadCount: totalLeads,
		JobCount:     totalJobs,
	}
	return append([]CampaignSummary{all}, summaries...)
}

// Buckets are the three mutually exclusive sidebar views.
type Buckets struct {
	Leads     []leadstransport.LeadResponse `json:"leads"`
	Cold      []leadstransport.LeadResponse `json:"cold"`
	Completed []jobstransport.JobResponse   `json:"completed"`
}

// Partition splits the collections into the three buckets, optionally
// filtered to one campaign. The active bucket excludes cold leads and leads
// with a tentative placement: the calendar is the view for tentative leads,
// and cold wins over a lingering tentative date. Completed comes from the
// job collection, not from leads.
func Partition(leads []leadstransport.LeadResponse, jobs []jobstransport.JobResponse, campaignID *uuid.UUID) Buckets {
	buckets := Buckets{
		Leads:     make([]leadstransport.LeadResponse, 0),
		Cold:      make([]leadstransport.LeadResponse, 0),
		Completed: make([]jobstransport.JobResponse, 0),
	}

	for _, lead := range leads {
		if campaignID != nil && lead.CampaignID != *campaignID {
			continue
		}
		switch {
		case lead.IsColdLead:
			buckets.Cold = append(buckets.Cold, lead)
		case lead.TentativeDate == nil:
			buckets.Leads = append(buckets.Leads, lead)
		}
	}
	for _, job := range jobs {
		if campaignID != nil && job.CampaignID != *campaignID {
			continue
		}
		if job.Status == "completed" {
			buckets.Completed = append(buckets.Completed, job)
		}
	}

	return buckets
}

func isActiveLead(lead leadstransport.LeadResponse) bool {
	return !lead.IsColdLead && lead.TentativeDate == nil
}

// Page is one pagination window over the active leads bucket.
type Page struct {
	Items      []leadstransport.LeadResponse `json:"items"`
	PageIndex  int                           `json:"pageIndex"`
	PageSize   int                           `json:"pageSize"`
	TotalItems int                           `json:"totalItems"`
	TotalPages int                           `json:"totalPages"`
}

// Paginate sorts leads by submission time and returns the requested page.
// A page index pointing past the end is clamped down to the last page, never
// left dangling when the item count shrinks.
func Paginate(leads []leadstransport.LeadResponse, sortOrder string, pageIndex, pageSize int) Page {
	sorted := append([]leadstransport.LeadResponse(nil), leads...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sortOrder == SortOldestFirst {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if pageSize < 1 {
		pageSize = 1
	}
	totalItems := len(sorted)
	totalPages := (totalItems + pageSize - 1) / pageSize

	if pageIndex < 0 {
		pageIndex = 0
	}
	if totalPages > 0 && pageIndex > totalPages-1 {
		pageIndex = totalPages - 1
	}
	if totalPages == 0 {
		pageIndex = 0
	}

	start := pageIndex * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return Page{
		Items:      sorted[start:end],
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
