// Package service assembles the dashboard: an all-or-nothing snapshot of the
// three collections, cached campaign summaries, and the bucketed, paginated
// sidebar views.
package service

import (
	"context"
	"errors"
	"fmt"

	campaignstransport "leadgrid_backend/internal/campaigns/transport"
	"leadgrid_backend/internal/dashboard/cache"
	"leadgrid_backend/internal/dashboard/transport"
	"leadgrid_backend/internal/dashboard/view"
	jobstransport "leadgrid_backend/internal/jobs/transport"
	leadstransport "leadgrid_backend/internal/leads/transport"
	"leadgrid_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is the sidebar's fixed lead-list page size.
const DefaultPageSize = 8

// LeadSource is the slice of the leads module the dashboard consumes.
type LeadSource interface {
	List(ctx context.Context, contractorID uuid.UUID) ([]leadstransport.LeadResponse, error)
}

// JobSource is the slice of the jobs module the dashboard consumes.
type JobSource interface {
	List(ctx context.Context, contractorID uuid.UUID) (jobstransport.JobListResponse, error)
}

// CampaignSource is the slice of the campaigns module the dashboard consumes.
type CampaignSource interface {
	List(ctx context.Context, contractorID uuid.UUID) ([]campaignstransport.CampaignResponse, error)
}

// Service implements the dashboard views.
type Service struct {
	leads     LeadSource
	jobs      JobSource
	campaigns CampaignSource
	summaries *cache.SummaryCache
	log       *logger.Logger
}

// New creates a new dashboard service.
func New(leads LeadSource, jobs JobSource, campaigns CampaignSource, summaries *cache.SummaryCache, log *logger.Logger) *Service {
	return &Service{leads: leads, jobs: jobs, campaigns: campaigns, summaries: summaries, log: log}
}

type snapshot struct {
	leads     []leadstransport.LeadResponse
	jobs      []jobstransport.JobResponse
	campaigns []view.CampaignInput
}

// snapshot fetches all three collections concurrently. If any fetch fails
// the whole snapshot fails: the dashboard never mixes a fresh collection
// with a stale or missing one.
func (s *Service) snapshot(ctx context.Context, contractorID uuid.UUID) (snapshot, error) {
	var snap snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leads, err := s.leads.List(gctx, contractorID)
		if err != nil {
			return fmt.Errorf("dashboard snapshot leads: %w", err)
		}
		snap.leads = leads
		return nil
	})
	g.Go(func() error {
		jobList, err := s.jobs.List(gctx, contractorID)
		if err != nil {
			return fmt.Errorf("dashboard snapshot jobs: %w", err)
		}
		snap.jobs = append(jobList.Scheduled, jobList.Completed...)
		return nil
	})
	g.Go(func() error {
		campaigns, err := s.campaigns.List(gctx, contractorID)
		if err != nil {
			return fmt.Errorf("dashboard snapshot campaigns: %w", err)
		}
		inputs := make([]view.CampaignInput, 0, len(campaigns))
		for _, campaign := range campaigns {
			inputs = append(inputs, view.CampaignInput{
				ID:     campaign.ID,
				Name:   campaign.Name,
				Active: campaign.Status == "active",
			})
		}
		snap.campaigns = inputs
		return nil
	})

	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// Summaries returns the per-campaign aggregate list, served from cache when
// a fresh copy exists.
func (s *Service) Summaries(ctx context.Context, contractorID uuid.UUID) ([]view.CampaignSummary, error) {
	cached, err := s.summaries.Get(ctx, contractorID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		// A broken cache read degrades to a recompute.
		s.log.Warn("summary cache read failed", "error", err.Error())
	}

	snap, err := s.snapshot(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	summaries := view.Summaries(snap.campaigns, snap.leads, snap.jobs)
	if err := s.summaries.Set(ctx, contractorID, summaries); err != nil {
		s.log.Warn("summary cache write failed", "error", err.Error())
	}
	return summaries, nil
}

// Buckets returns the three sidebar buckets for one campaign filter, with
// the active leads bucket sorted and paginated.
func (s *Service) Buckets(ctx context.Context, contractorID uuid.UUID, query transport.BucketsQuery) (transport.BucketsResponse, error) {
	snap, err := s.snapshot(ctx, contractorID)
	if err != nil {
		return transport.BucketsResponse{}, err
	}

	buckets := view.Partition(snap.leads, snap.jobs, query.CampaignID)

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	sortOrder := query.Sort
	if sortOrder == "" {
		sortOrder = view.SortNewestFirst
	}
	page := view.Paginate(buckets.Leads, sortOrder, query.Page, pageSize)

	return transport.BucketsResponse{
		CampaignID: query.CampaignID,
		Sort:       sortOrder,
		Leads:      page,
		Cold:       buckets.Cold,
		Completed:  buckets.Completed,
	}, nil
}
