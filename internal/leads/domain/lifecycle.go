// Package domain contains the pure lead lifecycle rules: which transitions
// are legal from which state, and what field set each transition produces.
// It holds no persistence or transport concerns so the rules are directly
// unit-testable.
package domain

import (
	"fmt"
	"time"

	"leadgrid_backend/platform/apperr"
)

// MaxContactAttempts is the highest recordable outreach attempt.
const MaxContactAttempts = 3

// Coarse job-status mirror values kept on the lead for simple list views.
const (
	JobStatusNew       = "new"
	JobStatusContacted = "contacted"
	JobStatusScheduled = "scheduled"
	JobStatusCompleted = "completed"
)

// Job statuses a promotion may target.
const (
	PromotionStatusScheduled = "scheduled"
	PromotionStatusCompleted = "completed"
)

// Stage is the derived lifecycle stage of a lead. The persisted record is a
// flat set of optional fields; Stage is how the rest of the system reasons
// about it.
type Stage string

const (
	StageUncontacted          Stage = "uncontacted"
	StageAttempted            Stage = "attempted"
	StageCold                 Stage = "cold"
	StageTentativelyScheduled Stage = "tentativelyScheduled"
	StagePromoted             Stage = "promoted"
)

// Lifecycle is the mutable lifecycle field set of a lead.
type Lifecycle struct {
	ContactAttempt int
	IsColdLead     bool
	TentativeDate  *time.Time
	Promoted       bool
}

// Stage derives the display stage. Promotion retires a lead from active
// tracking; cold takes precedence over a lingering tentative date; a
// tentative date takes precedence over the attempt counter.
func (l Lifecycle) Stage() Stage {
	switch {
	case l.Promoted:
		return StagePromoted
	case l.IsColdLead:
		return StageCold
	case l.TentativeDate != nil:
		return StageTentativelyScheduled
	case l.ContactAttempt > 0:
		return StageAttempted
	default:
		return StageUncontacted
	}
}

// OnCalendar reports whether the lead currently holds a tentative placement.
func (l Lifecycle) OnCalendar() bool {
	return l.TentativeDate != nil
}

// MirrorJobStatus derives the coarse legacy status mirror for a lead.
func (l Lifecycle) MirrorJobStatus() string {
	switch {
	case l.Promoted:
		return JobStatusScheduled
	case l.ContactAttempt > 0:
		return JobStatusContacted
	default:
		return JobStatusNew
	}
}

// ValidateContactAttempt rejects attempt values outside {0,1,2,3}.
func ValidateContactAttempt(attempt int) error {
	if attempt < 0 || attempt > MaxContactAttempts {
		return apperr.Validation(fmt.Sprintf("contact attempt must be between 0 and %d", MaxContactAttempts))
	}
	return nil
}

// ApplyContactAttempt records an outreach attempt and/or cold flag.
// Legal from any non-promoted state. The attempt counter and the cold flag
// are independently settable; recording a fresh attempt with isCold=false is
// how a cold lead is re-activated. The tentative date is never touched here:
// contact tracking and calendar placement are independent axes.
func ApplyContactAttempt(l Lifecycle, attempt int, isCold bool) (Lifecycle, error) {
	if err := ValidateContactAttempt(attempt); err != nil {
		return Lifecycle{}, err
	}
	if l.Promoted {
		return Lifecycle{}, apperr.Conflict("lead has already been promoted to a job")
	}

	l.ContactAttempt = attempt
	l.IsColdLead = isCold
	return l, nil
}

// ApplyCalendarPlacement sets the tentative date. Legal only while the lead
// is not promoted. Placement does not touch the attempt counter.
func ApplyCalendarPlacement(l Lifecycle, date time.Time) (Lifecycle, error) {
	if l.Promoted {
		return Lifecycle{}, apperr.Conflict("lead has already been promoted to a job")
	}

	l.TentativeDate = &date
	return l, nil
}

// ApplyCalendarRemoval clears the tentative date. Legal only while one is set
// and the lead is not promoted.
func ApplyCalendarRemoval(l Lifecycle) (Lifecycle, error) {
	if l.Promoted {
		return Lifecycle{}, apperr.Conflict("lead has already been promoted to a job")
	}
	if l.TentativeDate == nil {
		return Lifecycle{}, apperr.Conflict("lead is not on the calendar")
	}

	l.TentativeDate = nil
	return l, nil
}

// ValidatePromotion checks the inputs of a lead-to-job promotion.
// A scheduled job must carry an inspection date.
func ValidatePromotion(status string, scheduledInspectionDate *time.Time) error {
	switch status {
	case PromotionStatusScheduled:
		if scheduledInspectionDate == nil {
			return apperr.Validation("please select an inspection date")
		}
	case PromotionStatusCompleted:
		// A job recorded directly as completed needs no future date.
	default:
		return apperr.Validation("promotion status must be scheduled or completed")
	}
	return nil
}

// ApplyPromotion retires the lead from active tracking: the tentative date is
// cleared (the job now owns the calendar slot) and the lead is marked
// promoted. Promotion is one-way; the resulting job carries no back-reference
// to the lead.
func ApplyPromotion(l Lifecycle) (Lifecycle, error) {
	if l.Promoted {
		return Lifecycle{}, apperr.Conflict("lead has already been promoted to a job")
	}

	l.TentativeDate = nil
	l.Promoted = true
	return l, nil
}
