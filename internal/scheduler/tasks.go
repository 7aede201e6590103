// Package scheduler defines the delayed reminder tasks and the asynq client
// and worker that carry them.
package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names.
const (
	TypeFollowUpReminder      = "reminder:follow_up"
	TypeTentativeHoldReminder = "reminder:tentative_hold"
)

// FollowUpReminderPayload nudges the contractor about a lead that is still
// uncontacted some time after capture.
type FollowUpReminderPayload struct {
	LeadID       uuid.UUID `json:"leadId"`
	ContractorID uuid.UUID `json:"contractorId"`
}

// TentativeHoldReminderPayload nudges the contractor about a tentative
// calendar placement that was never confirmed as a job.
type TentativeHoldReminderPayload struct {
	LeadID       uuid.UUID `json:"leadId"`
	ContractorID uuid.UUID `json:"contractorId"`
}

// NewFollowUpReminderTask builds the asynq task for a follow-up reminder.
func NewFollowUpReminderTask(payload FollowUpReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal follow-up reminder payload: %w", err)
	}
	return asynq.NewTask(TypeFollowUpReminder, data), nil
}

// ParseFollowUpReminderPayload decodes a follow-up reminder task payload.
func ParseFollowUpReminderPayload(task *asynq.Task) (FollowUpReminderPayload, error) {
	var payload FollowUpReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowUpReminderPayload{}, fmt.Errorf("unmarshal follow-up reminder payload: %w", err)
	}
	return payload, nil
}

// NewTentativeHoldReminderTask builds the asynq task for a tentative-hold reminder.
func NewTentativeHoldReminderTask(payload TentativeHoldReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal tentative-hold reminder payload: %w", err)
	}
	return asynq.NewTask(TypeTentativeHoldReminder, data), nil
}

// ParseTentativeHoldReminderPayload decodes a tentative-hold reminder task payload.
func ParseTentativeHoldReminderPayload(task *asynq.Task) (TentativeHoldReminderPayload, error) {
	var payload TentativeHoldReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return TentativeHoldReminderPayload{}, fmt.Errorf("unmarshal tentative-hold reminder payload: %w", err)
	}
	return payload, nil
}
