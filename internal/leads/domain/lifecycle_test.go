package domain

import (
	"testing"
	"time"

	"leadgrid_backend/platform/apperr"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestStage(t *testing.T) {
	tentative := datePtr(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC))

	tests := []struct {
		name      string
		lifecycle Lifecycle
		want      Stage
	}{
		{"fresh lead", Lifecycle{}, StageUncontacted},
		{"first attempt", Lifecycle{ContactAttempt: 1}, StageAttempted},
		{"third attempt", Lifecycle{ContactAttempt: 3}, StageAttempted},
		{"cold", Lifecycle{ContactAttempt: 2, IsColdLead: true}, StageCold},
		{"tentative", Lifecycle{TentativeDate: tentative}, StageTentativelyScheduled},
		{"cold wins over tentative", Lifecycle{IsColdLead: true, TentativeDate: tentative}, StageCold},
		{"tentative wins over attempts", Lifecycle{ContactAttempt: 2, TentativeDate: tentative}, StageTentativelyScheduled},
		{"promoted wins over everything", Lifecycle{ContactAttempt: 3, IsColdLead: true, Promoted: true}, StagePromoted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lifecycle.Stage(); got != tt.want {
				t.Errorf("Stage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateContactAttempt(t *testing.T) {
	for attempt := 0; attempt <= 3; attempt++ {
		if err := ValidateContactAttempt(attempt); err != nil {
			t.Errorf("ValidateContactAttempt(%d) = %v, want nil", attempt, err)
		}
	}

	for _, attempt := range []int{-1, 4, 5, 100} {
		err := ValidateContactAttempt(attempt)
		if err == nil {
			t.Errorf("ValidateContactAttempt(%d) = nil, want validation error", attempt)
			continue
		}
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("ValidateContactAttempt(%d) kind = %v, want KindValidation", attempt, apperr.GetKind(err))
		}
	}
}

func TestApplyContactAttempt(t *testing.T) {
	tentative := datePtr(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC))

	t.Run("records attempt and cold flag", func(t *testing.T) {
		got, err := ApplyContactAttempt(Lifecycle{}, 2, false)
		if err != nil {
			t.Fatalf("ApplyContactAttempt() error = %v", err)
		}
		if got.ContactAttempt != 2 || got.IsColdLead {
			t.Errorf("got %+v, want attempt=2 cold=false", got)
		}
	})

	t.Run("re-activates a cold lead", func(t *testing.T) {
		got, err := ApplyContactAttempt(Lifecycle{ContactAttempt: 3, IsColdLead: true}, 1, false)
		if err != nil {
			t.Fatalf("ApplyContactAttempt() error = %v", err)
		}
		if got.IsColdLead {
			t.Error("lead should no longer be cold")
		}
		if got.Stage() != StageAttempted {
			t.Errorf("Stage() = %v, want StageAttempted", got.Stage())
		}
	})

	t.Run("does not touch the tentative date", func(t *testing.T) {
		got, err := ApplyContactAttempt(Lifecycle{TentativeDate: tentative}, 1, false)
		if err != nil {
			t.Fatalf("ApplyContactAttempt() error = %v", err)
		}
		if got.TentativeDate == nil || !got.TentativeDate.Equal(*tentative) {
			t.Error("tentative date must survive a contact attempt")
		}
	})

	t.Run("rejects out-of-range attempt", func(t *testing.T) {
		if _, err := ApplyContactAttempt(Lifecycle{}, 4, false); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("rejects promoted lead", func(t *testing.T) {
		if _, err := ApplyContactAttempt(Lifecycle{Promoted: true}, 1, false); !apperr.Is(err, apperr.KindConflict) {
			t.Errorf("got %v, want conflict error", err)
		}
	})
}

func TestApplyCalendarPlacement(t *testing.T) {
	date := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.Local)

	t.Run("places an uncontacted lead without touching attempts", func(t *testing.T) {
		got, err := ApplyCalendarPlacement(Lifecycle{}, date)
		if err != nil {
			t.Fatalf("ApplyCalendarPlacement() error = %v", err)
		}
		if got.TentativeDate == nil || !got.TentativeDate.Equal(date) {
			t.Error("tentative date not set")
		}
		if got.ContactAttempt != 0 {
			t.Errorf("ContactAttempt = %d, placement must not increment attempts", got.ContactAttempt)
		}
		if got.Stage() != StageTentativelyScheduled {
			t.Errorf("Stage() = %v, want StageTentativelyScheduled", got.Stage())
		}
	})

	t.Run("re-placing moves the date", func(t *testing.T) {
		later := date.AddDate(0, 0, 7)
		got, err := ApplyCalendarPlacement(Lifecycle{TentativeDate: &date}, later)
		if err != nil {
			t.Fatalf("ApplyCalendarPlacement() error = %v", err)
		}
		if !got.TentativeDate.Equal(later) {
			t.Errorf("TentativeDate = %v, want %v", got.TentativeDate, later)
		}
	})

	t.Run("rejects promoted lead", func(t *testing.T) {
		if _, err := ApplyCalendarPlacement(Lifecycle{Promoted: true}, date); !apperr.Is(err, apperr.KindConflict) {
			t.Errorf("got %v, want conflict error", err)
		}
	})
}

func TestApplyCalendarRemoval(t *testing.T) {
	date := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.Local)

	t.Run("clears the tentative date", func(t *testing.T) {
		got, err := ApplyCalendarRemoval(Lifecycle{ContactAttempt: 1, TentativeDate: &date})
		if err != nil {
			t.Fatalf("ApplyCalendarRemoval() error = %v", err)
		}
		if got.TentativeDate != nil {
			t.Error("tentative date not cleared")
		}
		if got.ContactAttempt != 1 {
			t.Error("attempt counter must survive calendar removal")
		}
	})

	t.Run("rejects lead not on the calendar", func(t *testing.T) {
		if _, err := ApplyCalendarRemoval(Lifecycle{}); !apperr.Is(err, apperr.KindConflict) {
			t.Errorf("got %v, want conflict error", err)
		}
	})
}

func TestValidatePromotion(t *testing.T) {
	date := datePtr(time.Date(2026, time.April, 1, 12, 0, 0, 0, time.Local))

	tests := []struct {
		name     string
		status   string
		date     *time.Time
		wantKind apperr.Kind
		wantMsg  string
	}{
		{"scheduled with date", PromotionStatusScheduled, date, apperr.KindUnknown, ""},
		{"scheduled without date", PromotionStatusScheduled, nil, apperr.KindValidation, "please select an inspection date"},
		{"completed without date", PromotionStatusCompleted, nil, apperr.KindUnknown, ""},
		{"unknown status", "cancelled", date, apperr.KindValidation, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePromotion(tt.status, tt.date)
			if tt.wantKind == apperr.KindUnknown {
				if err != nil {
					t.Fatalf("ValidatePromotion() error = %v, want nil", err)
				}
				return
			}
			if !apperr.Is(err, tt.wantKind) {
				t.Fatalf("ValidatePromotion() = %v, want kind %v", err, tt.wantKind)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("error message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestApplyPromotion(t *testing.T) {
	date := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.Local)

	t.Run("clears tentative date and retires the lead", func(t *testing.T) {
		got, err := ApplyPromotion(Lifecycle{ContactAttempt: 2, TentativeDate: &date})
		if err != nil {
			t.Fatalf("ApplyPromotion() error = %v", err)
		}
		if got.TentativeDate != nil {
			t.Error("promotion must clear the tentative date")
		}
		if !got.Promoted {
			t.Error("lead not marked promoted")
		}
		if got.Stage() != StagePromoted {
			t.Errorf("Stage() = %v, want StagePromoted", got.Stage())
		}
	})

	t.Run("is one-way", func(t *testing.T) {
		if _, err := ApplyPromotion(Lifecycle{Promoted: true}); !apperr.Is(err, apperr.KindConflict) {
			t.Errorf("got %v, want conflict error", err)
		}
	})
}

func TestMirrorJobStatus(t *testing.T) {
	tests := []struct {
		name      string
		lifecycle Lifecycle
		want      string
	}{
		{"fresh", Lifecycle{}, JobStatusNew},
		{"attempted", Lifecycle{ContactAttempt: 1}, JobStatusContacted},
		{"promoted", Lifecycle{Promoted: true}, JobStatusScheduled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.lifecycle.MirrorJobStatus(); got != tt.want {
				t.Errorf("MirrorJobStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
