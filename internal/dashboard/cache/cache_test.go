package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadgrid_backend/internal/dashboard/view"
	"leadgrid_backend/internal/events"
	"leadgrid_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*SummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, 30*time.Second, logger.New("development")), mr
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	contractorID := uuid.New()

	if _, err := c.Get(ctx, contractorID); !errors.Is(err, ErrMiss) {
		t.Fatalf("Get on empty cache = %v, want ErrMiss", err)
	}

	campaignID := uuid.New()
	summaries := []view.CampaignSummary{
		{Name: view.AllCampaignsName, Active: true, NewLeadCount: 4, JobCount: 1},
		{ID: &campaignID, Name: "Elm Street", Active: true, NewLeadCount: 4, JobCount: 1},
	}
	if err := c.Set(ctx, contractorID, summaries); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, contractorID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got) != 2 || got[1].Name != "Elm Street" || got[1].NewLeadCount != 4 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestSummaryCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	contractorID := uuid.New()

	if err := c.Set(ctx, contractorID, []view.CampaignSummary{{Name: view.AllCampaignsName}}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	mr.FastForward(31 * time.Second)

	if _, err := c.Get(ctx, contractorID); !errors.Is(err, ErrMiss) {
		t.Errorf("Get after TTL = %v, want ErrMiss", err)
	}
}

func TestSummaryCacheInvalidationOnEvents(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	contractorID := uuid.New()

	bus := events.NewInMemoryBus(logger.New("development"))
	c.RegisterInvalidation(bus)

	if err := c.Set(ctx, contractorID, []view.CampaignSummary{{Name: view.AllCampaignsName}}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	err := bus.PublishSync(ctx, events.LeadContactAttempted{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       uuid.New(),
		ContractorID: contractorID,
		Attempt:      1,
	})
	if err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}

	if _, err := c.Get(ctx, contractorID); !errors.Is(err, ErrMiss) {
		t.Errorf("Get after invalidating event = %v, want ErrMiss", err)
	}
}

func TestNilClientIsNoop(t *testing.T) {
	c := New(nil, time.Second, logger.New("development"))
	ctx := context.Background()
	contractorID := uuid.New()

	if err := c.Set(ctx, contractorID, nil); err != nil {
		t.Errorf("Set with nil client = %v, want nil", err)
	}
	if _, err := c.Get(ctx, contractorID); !errors.Is(err, ErrMiss) {
		t.Errorf("Get with nil client = %v, want ErrMiss", err)
	}
	if err := c.Invalidate(ctx, contractorID); err != nil {
		t.Errorf("Invalidate with nil client = %v, want nil", err)
	}
}
