package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"leadgrid_backend/internal/calendar/transport"
	jobstransport "leadgrid_backend/internal/jobs/transport"
	leadstransport "leadgrid_backend/internal/leads/transport"
	"leadgrid_backend/platform/apperr"
	"leadgrid_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadSource struct {
	mu        sync.Mutex
	tentative []leadstransport.LeadResponse
	placed    []uuid.UUID
	block     chan struct{}
	err       error
}

func (f *fakeLeadSource) ListTentativeBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]leadstransport.LeadResponse, error) {
	return f.tentative, f.err
}

func (f *fakeLeadSource) PlaceOnCalendar(ctx context.Context, contractorID, id uuid.UUID, tentativeDate time.Time) (leadstransport.LeadResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.placed = append(f.placed, id)
	f.mu.Unlock()
	return leadstransport.LeadResponse{ID: id, TentativeDate: &tentativeDate}, f.err
}

type fakeJobSource struct {
	jobs []jobstransport.JobResponse
	err  error
}

func (f *fakeJobSource) ListScheduledBetween(ctx context.Context, contractorID uuid.UUID, from, to time.Time) ([]jobstransport.JobResponse, error) {
	return f.jobs, f.err
}

func TestNormalizeToLocalNoon(t *testing.T) {
	day := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		offsetMin int
		wantUTC   time.Time
	}{
		{"UTC", 0, time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)},
		{"UTC-7 (Denver DST)", 420, time.Date(2026, time.March, 15, 19, 0, 0, 0, time.UTC)},
		{"UTC+2", -120, time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeToLocalNoon(day, tt.offsetMin)
			if !got.Equal(tt.wantUTC) {
				t.Errorf("NormalizeToLocalNoon() = %v, want %v", got, tt.wantUTC)
			}
			// The instant must still fall on March 15 in the client's zone.
			local := got.In(time.FixedZone("client", -tt.offsetMin*60))
			if local.Day() != 15 || local.Hour() != 12 {
				t.Errorf("client-local time = %v, want March 15 noon", local)
			}
		})
	}
}

func TestResolveDrop(t *testing.T) {
	got, err := ResolveDrop("2026-03-15", 420)
	if err != nil {
		t.Fatalf("ResolveDrop() error = %v", err)
	}
	want := time.Date(2026, time.March, 15, 19, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ResolveDrop() = %v, want %v", got, want)
	}

	if _, err := ResolveDrop("15-03-2026", 0); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("ResolveDrop(bad date) = %v, want validation error", err)
	}
}

func TestDropSerializesPerLead(t *testing.T) {
	leadID := uuid.New()
	contractorID := uuid.New()
	block := make(chan struct{})
	leadsSrc := &fakeLeadSource{block: block}
	svc := New(leadsSrc, &fakeJobSource{}, logger.New("development"))

	req := transport.DropRequest{LeadID: leadID, Date: "2026-03-15"}

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Drop(context.Background(), contractorID, req)
		firstDone <- err
	}()

	// Wait until the first drop holds the in-flight slot.
	deadline := time.After(2 * time.Second)
	for {
		if _, busy := svc.inFlight.Load(leadID); busy {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first drop never registered in flight")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := svc.Drop(context.Background(), contractorID, req); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("concurrent drop = %v, want conflict error", err)
	}

	close(block)
	if err := <-firstDone; err != nil {
		t.Fatalf("first drop error = %v", err)
	}

	// The slot is released afterwards, so a retry succeeds.
	if _, err := svc.Drop(context.Background(), contractorID, req); err != nil {
		t.Errorf("retry after completion = %v, want nil", err)
	}

	leadsSrc.mu.Lock()
	placements := len(leadsSrc.placed)
	leadsSrc.mu.Unlock()
	if placements != 2 {
		t.Errorf("placements = %d, want 2 (concurrent drop must not reach the store)", placements)
	}
}

func TestEvents(t *testing.T) {
	contractorID := uuid.New()
	noon15 := time.Date(2026, time.March, 15, 19, 0, 0, 0, time.UTC)
	noon16 := time.Date(2026, time.March, 16, 19, 0, 0, 0, time.UTC)
	attempt2 := 2

	leadsSrc := &fakeLeadSource{
		tentative: []leadstransport.LeadResponse{
			{ID: uuid.New(), Name: "Fresh Homeowner", ContactAttempt: 0, TentativeDate: &noon15},
			{ID: uuid.New(), Name: "Called Twice", ContactAttempt: attempt2, TentativeDate: &noon16},
		},
	}
	jobsSrc := &fakeJobSource{
		jobs: []jobstransport.JobResponse{
			{ID: uuid.New(), CustomerName: "Booked Customer", Status: "scheduled", ScheduledInspectionDate: &noon15},
		},
	}
	svc := New(leadsSrc, jobsSrc, logger.New("development"))

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	got, err := svc.Events(context.Background(), contractorID, from, to, nil)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}

	if len(got.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(got.Days))
	}
	if got.Days[0].Date != "2026-03-15" || got.Days[1].Date != "2026-03-16" {
		t.Errorf("day order = %s, %s", got.Days[0].Date, got.Days[1].Date)
	}

	day15 := got.Days[0].Events
	if len(day15) != 2 {
		t.Fatalf("events on March 15 = %d, want 2", len(day15))
	}

	var tentative, confirmed *transport.EventResponse
	for i := range day15 {
		switch day15[i].Type {
		case transport.EventTypeTentative:
			tentative = &day15[i]
		case transport.EventTypeConfirmed:
			confirmed = &day15[i]
		}
	}
	if tentative == nil || confirmed == nil {
		t.Fatal("March 15 must hold one tentative and one confirmed event")
	}
	if tentative.Badge != transport.BadgeNew {
		t.Errorf("uncontacted tentative badge = %q, want %q", tentative.Badge, transport.BadgeNew)
	}
	if tentative.ContactAttempt == nil || *tentative.ContactAttempt != 0 {
		t.Error("tentative event must carry the contact attempt")
	}
	if confirmed.JobStatus != "scheduled" {
		t.Errorf("confirmed event status = %q, want scheduled", confirmed.JobStatus)
	}

	day16 := got.Days[1].Events
	if day16[0].Badge != "" {
		t.Errorf("attempted lead badge = %q, want empty", day16[0].Badge)
	}
}

func TestEventsFailsClosed(t *testing.T) {
	contractorID := uuid.New()
	noon := time.Date(2026, time.March, 15, 19, 0, 0, 0, time.UTC)
	leadsSrc := &fakeLeadSource{
		tentative: []leadstransport.LeadResponse{{ID: uuid.New(), TentativeDate: &noon}},
	}
	jobsSrc := &fakeJobSource{err: context.DeadlineExceeded}
	svc := New(leadsSrc, jobsSrc, logger.New("development"))

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Events(context.Background(), contractorID, from, from.AddDate(0, 1, 0), nil); err == nil {
		t.Error("Events() must fail when either source fails; partial projections are not returned")
	}
}

func TestEventsCampaignFilter(t *testing.T) {
	contractorID := uuid.New()
	wantCampaign := uuid.New()
	otherCampaign := uuid.New()
	noon := time.Date(2026, time.March, 15, 19, 0, 0, 0, time.UTC)

	leadsSrc := &fakeLeadSource{
		tentative: []leadstransport.LeadResponse{
			{ID: uuid.New(), CampaignID: wantCampaign, Name: "In Scope", TentativeDate: &noon},
			{ID: uuid.New(), CampaignID: otherCampaign, Name: "Out of Scope", TentativeDate: &noon},
		},
	}
	jobsSrc := &fakeJobSource{
		jobs: []jobstransport.JobResponse{
			{ID: uuid.New(), CampaignID: otherCampaign, CustomerName: "Other Customer", Status: "scheduled", ScheduledInspectionDate: &noon},
		},
	}
	svc := New(leadsSrc, jobsSrc, logger.New("development"))

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	got, err := svc.Events(context.Background(), contractorID, from, from.AddDate(0, 1, 0), &wantCampaign)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}

	if len(got.Days) != 1 || len(got.Days[0].Events) != 1 {
		t.Fatalf("filtered projection = %+v, want one event on one day", got.Days)
	}
	if got.Days[0].Events[0].CampaignID != wantCampaign {
		t.Errorf("event campaign = %s, want %s", got.Days[0].Events[0].CampaignID, wantCampaign)
	}
}
