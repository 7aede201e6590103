package service

import (
	"testing"
	"time"

	"leadgrid_backend/internal/leads/domain"
	"leadgrid_backend/internal/leads/transport"
)

func TestValidActions(t *testing.T) {
	tentative := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		lifecycle domain.Lifecycle
		want      []string
	}{
		{
			name:      "fresh lead",
			lifecycle: domain.Lifecycle{},
			want: []string{
				transport.ActionRecordContactAttempt,
				transport.ActionPlaceOnCalendar,
				transport.ActionPromote,
			},
		},
		{
			name:      "tentatively placed lead also offers removal",
			lifecycle: domain.Lifecycle{TentativeDate: &tentative},
			want: []string{
				transport.ActionRecordContactAttempt,
				transport.ActionPlaceOnCalendar,
				transport.ActionPromote,
				transport.ActionRemoveFromCalendar,
			},
		},
		{
			name:      "cold lead keeps all actions",
			lifecycle: domain.Lifecycle{ContactAttempt: 3, IsColdLead: true},
			want: []string{
				transport.ActionRecordContactAttempt,
				transport.ActionPlaceOnCalendar,
				transport.ActionPromote,
			},
		},
		{
			name:      "promoted lead offers nothing",
			lifecycle: domain.Lifecycle{Promoted: true},
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidActions(tt.lifecycle)
			if len(got) != len(tt.want) {
				t.Fatalf("ValidActions() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ValidActions()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
