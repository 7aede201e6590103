package notification

import (
	"context"
	"testing"
	"time"

	authrepo "leadgrid_backend/internal/auth/repository"
	"leadgrid_backend/internal/email"
	"leadgrid_backend/internal/events"
	"leadgrid_backend/internal/scheduler"
	"leadgrid_backend/platform/logger"

	"github.com/google/uuid"
)

type recordingSender struct {
	email.NoopSender
	leadCaptured        []email.LeadCapturedData
	inspectionScheduled []email.InspectionScheduledData
	inspectionTo        []string
}

func (r *recordingSender) SendLeadCapturedEmail(_ context.Context, _ string, data email.LeadCapturedData) error {
	r.leadCaptured = append(r.leadCaptured, data)
	return nil
}

func (r *recordingSender) SendInspectionScheduledEmail(_ context.Context, to string, data email.InspectionScheduledData) error {
	r.inspectionTo = append(r.inspectionTo, to)
	r.inspectionScheduled = append(r.inspectionScheduled, data)
	return nil
}

type recordingEnqueuer struct {
	followUps          []scheduler.FollowUpReminderPayload
	followUpDelays     []time.Duration
	tentativeHolds     []scheduler.TentativeHoldReminderPayload
	tentativeHoldWaits []time.Duration
}

func (r *recordingEnqueuer) EnqueueFollowUpReminder(_ context.Context, p scheduler.FollowUpReminderPayload, delay time.Duration) error {
	r.followUps = append(r.followUps, p)
	r.followUpDelays = append(r.followUpDelays, delay)
	return nil
}

func (r *recordingEnqueuer) EnqueueTentativeHoldReminder(_ context.Context, p scheduler.TentativeHoldReminderPayload, delay time.Duration) error {
	r.tentativeHolds = append(r.tentativeHolds, p)
	r.tentativeHoldWaits = append(r.tentativeHoldWaits, delay)
	return nil
}

func (r *recordingEnqueuer) Close() error { return nil }

type fakeContractors struct {
	contractor authrepo.Contractor
}

func (f *fakeContractors) GetContractorByID(context.Context, uuid.UUID) (authrepo.Contractor, error) {
	return f.contractor, nil
}

type testConfig struct{}

func (testConfig) GetAppBaseURL() string                   { return "https://app.example.com" }
func (testConfig) GetFollowUpReminderDelay() time.Duration { return 24 * time.Hour }

func setup(t *testing.T) (*events.InMemoryBus, *recordingSender, *recordingEnqueuer) {
	t.Helper()
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	sender := &recordingSender{}
	enqueuer := &recordingEnqueuer{}
	contractors := &fakeContractors{contractor: authrepo.Contractor{
		Email:       "pro@roofworks.example",
		CompanyName: "Roofworks",
	}}
	NewModule(sender, enqueuer, contractors, testConfig{}, log).RegisterHandlers(bus)
	return bus, sender, enqueuer
}

func TestLeadCapturedEmailsContractorAndSchedulesFollowUp(t *testing.T) {
	bus, sender, enqueuer := setup(t)
	leadID := uuid.New()

	err := bus.PublishSync(context.Background(), events.LeadCaptured{
		LeadID:        leadID,
		ContractorID:  uuid.New(),
		CampaignName:  "Birchwood",
		HomeownerName: "Jane Homeowner",
		Email:         "jane@example.com",
		Phone:         "+14155550123",
	})
	if err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}

	if len(sender.leadCaptured) != 1 {
		t.Fatalf("lead captured emails = %d, want 1", len(sender.leadCaptured))
	}
	if got := sender.leadCaptured[0].CampaignName; got != "Birchwood" {
		t.Errorf("CampaignName = %q", got)
	}
	if len(enqueuer.followUps) != 1 || enqueuer.followUps[0].LeadID != leadID {
		t.Fatalf("follow-up reminders = %+v, want one for lead %s", enqueuer.followUps, leadID)
	}
	if enqueuer.followUpDelays[0] != 24*time.Hour {
		t.Errorf("follow-up delay = %v, want configured 24h", enqueuer.followUpDelays[0])
	}
}

func TestLeadPlacedOnCalendarSchedulesTentativeHoldReminder(t *testing.T) {
	bus, _, enqueuer := setup(t)
	leadID := uuid.New()
	tentative := time.Now().Add(7 * 24 * time.Hour)

	err := bus.PublishSync(context.Background(), events.LeadPlacedOnCalendar{
		LeadID:        leadID,
		ContractorID:  uuid.New(),
		TentativeDate: tentative,
	})
	if err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}

	if len(enqueuer.tentativeHolds) != 1 || enqueuer.tentativeHolds[0].LeadID != leadID {
		t.Fatalf("tentative-hold reminders = %+v, want one for lead %s", enqueuer.tentativeHolds, leadID)
	}
	// The nudge lands the day before the held date.
	got := enqueuer.tentativeHoldWaits[0]
	if got < 5*24*time.Hour+23*time.Hour || got > 6*24*time.Hour {
		t.Errorf("tentative-hold delay = %v, want roughly six days", got)
	}
}

func TestTentativeHoldDelay(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		tentative time.Time
		want      time.Duration
	}{
		{"fires the day before", time.Date(2026, time.March, 15, 19, 0, 0, 0, time.UTC), 4*24*time.Hour + 10*time.Hour},
		{"near-term placement gets the grace period", now.Add(12 * time.Hour), time.Hour},
		{"past date gets the grace period", now.Add(-48 * time.Hour), time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tentativeHoldDelay(now, tt.tentative); got != tt.want {
				t.Errorf("tentativeHoldDelay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLeadPromotedConfirmsScheduledInspection(t *testing.T) {
	bus, sender, _ := setup(t)
	date := time.Date(2026, time.April, 2, 19, 0, 0, 0, time.UTC)

	err := bus.PublishSync(context.Background(), events.LeadPromoted{
		LeadID:                  uuid.New(),
		JobID:                   uuid.New(),
		ContractorID:            uuid.New(),
		Status:                  "scheduled",
		ScheduledInspectionDate: &date,
		HomeownerName:           "Jane Homeowner",
		HomeownerEmail:          "jane@example.com",
	})
	if err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}

	if len(sender.inspectionScheduled) != 1 {
		t.Fatalf("inspection emails = %d, want 1", len(sender.inspectionScheduled))
	}
	if sender.inspectionTo[0] != "jane@example.com" {
		t.Errorf("recipient = %q, want homeowner address", sender.inspectionTo[0])
	}
	if got := sender.inspectionScheduled[0].InspectionDate; got != "April 2, 2026" {
		t.Errorf("InspectionDate = %q, want %q", got, "April 2, 2026")
	}
	if got := sender.inspectionScheduled[0].CompanyName; got != "Roofworks" {
		t.Errorf("CompanyName = %q, want %q", got, "Roofworks")
	}
}

func TestLeadPromotedCompletedSendsNothing(t *testing.T) {
	bus, sender, _ := setup(t)

	err := bus.PublishSync(context.Background(), events.LeadPromoted{
		LeadID:       uuid.New(),
		JobID:        uuid.New(),
		ContractorID: uuid.New(),
		Status:       "completed",
	})
	if err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}

	if len(sender.inspectionScheduled) != 0 {
		t.Errorf("inspection emails = %d, want 0 for a completed promotion", len(sender.inspectionScheduled))
	}
}
