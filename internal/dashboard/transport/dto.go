// Package transport defines request and response DTOs for the dashboard API.
package transport

import (
	"leadgrid_backend/internal/dashboard/view"
	jobstransport "leadgrid_backend/internal/jobs/transport"
	leadstransport "leadgrid_backend/internal/leads/transport"

	"github.com/google/uuid"
)

// BucketsQuery selects and windows the sidebar views. A nil CampaignID means
// "all campaigns".
type BucketsQuery struct {
	CampaignID *uuid.UUID
	Sort       string
	Page       int
	PageSize   int
}

// BucketsResponse carries the three mutually exclusive sidebar buckets.
// Only the active leads bucket is paginated.
type BucketsResponse struct {
	CampaignID *uuid.UUID                    `json:"campaignId,omitempty"`
	Sort       string                        `json:"sort"`
	Leads      view.Page                     `json:"leads"`
	Cold       []leadstransport.LeadResponse `json:"cold"`
	Completed  []jobstransport.JobResponse   `json:"completed"`
}
