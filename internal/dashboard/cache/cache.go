// Package cache holds the short-lived Redis cache for campaign summaries.
// Summaries are cheap to recompute but read on every dashboard load; a small
// TTL plus event-driven invalidation keeps them fresh without hammering the
// database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadgrid_backend/internal/dashboard/view"
	"leadgrid_backend/internal/events"
	"leadgrid_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when no cached summary exists for the contractor.
var ErrMiss = errors.New("summary cache miss")

// SummaryCache caches the computed campaign summary list per contractor.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// New creates a summary cache. client may be nil when Redis is not
// configured; every read then misses and every write is a no-op.
func New(client *redis.Client, ttl time.Duration, log *logger.Logger) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl, log: log}
}

func summaryKey(contractorID uuid.UUID) string {
	return fmt.Sprintf("dashboard:summaries:%s", contractorID)
}

// Get returns the cached summaries for a contractor, or ErrMiss.
func (c *SummaryCache) Get(ctx context.Context, contractorID uuid.UUID) ([]view.CampaignSummary, error) {
	if c.client == nil {
		return nil, ErrMiss
	}

	raw, err := c.client.Get(ctx, summaryKey(contractorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("summary cache get: %w", err)
	}

	var summaries []view.CampaignSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil, fmt.Errorf("summary cache decode: %w", err)
	}
	return summaries, nil
}

// Set stores the summaries for a contractor with the configured TTL.
func (c *SummaryCache) Set(ctx context.Context, contractorID uuid.UUID, summaries []view.CampaignSummary) error {
	if c.client == nil {
		return nil
	}

	raw, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("summary cache encode: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(contractorID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("summary cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached summaries for a contractor.
func (c *SummaryCache) Invalidate(ctx context.Context, contractorID uuid.UUID) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, summaryKey(contractorID)).Err(); err != nil {
		return fmt.Errorf("summary cache invalidate: %w", err)
	}
	return nil
}

// RegisterInvalidation subscribes the cache to every event that changes what
// a summary counts, so stale entries never outlive the TTL unnecessarily.
func (c *SummaryCache) RegisterInvalidation(bus events.Bus) {
	handler := events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		contractorID, ok := contractorIDOf(event)
		if !ok {
			return nil
		}
		return c.Invalidate(ctx, contractorID)
	})

	for _, name := range []string{
		events.LeadCaptured{}.EventName(),
		events.LeadContactAttempted{}.EventName(),
		events.LeadPlacedOnCalendar{}.EventName(),
		events.LeadRemovedFromCalendar{}.EventName(),
		events.LeadPromoted{}.EventName(),
		events.JobCompleted{}.EventName(),
		events.JobRemoved{}.EventName(),
	} {
		bus.Subscribe(name, handler)
	}
}

func contractorIDOf(event events.Event) (uuid.UUID, bool) {
	switch e := event.(type) {
	case events.LeadCaptured:
		return e.ContractorID, true
	case events.LeadContactAttempted:
		return e.ContractorID, true
	case events.LeadPlacedOnCalendar:
		return e.ContractorID, true
	case events.LeadRemovedFromCalendar:
		return e.ContractorID, true
	case events.LeadPromoted:
		return e.ContractorID, true
	case events.JobCompleted:
		return e.ContractorID, true
	case events.JobRemoved:
		return e.ContractorID, true
	default:
		return uuid.Nil, false
	}
}
