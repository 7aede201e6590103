// Package email provides outbound email delivery for notifications.
package email

import "context"

// Sender delivers the product's notification emails. Implementations render
// HTML templates and hand them to a transport (SMTP in production, a noop
// sender when email is disabled).
type Sender interface {
	// SendLeadCapturedEmail notifies the contractor of a new campaign lead.
	SendLeadCapturedEmail(ctx context.Context, toEmail string, data LeadCapturedData) error
	// SendInspectionScheduledEmail confirms a scheduled inspection to the homeowner.
	SendInspectionScheduledEmail(ctx context.Context, toEmail string, data InspectionScheduledData) error
	// SendFollowUpReminderEmail nudges the contractor about an uncontacted lead.
	SendFollowUpReminderEmail(ctx context.Context, toEmail string, data FollowUpReminderData) error
	// SendTentativeHoldReminderEmail nudges the contractor about an unconfirmed
	// tentative calendar placement.
	SendTentativeHoldReminderEmail(ctx context.Context, toEmail string, data TentativeHoldReminderData) error
}

// LeadCapturedData is the payload for the new-lead notification.
type LeadCapturedData struct {
	CampaignName  string
	HomeownerName string
	Phone         string
	Email         string
	Address       string
	DashboardURL  string
}

// InspectionScheduledData is the payload for the homeowner confirmation.
type InspectionScheduledData struct {
	HomeownerName  string
	CompanyName    string
	InspectionDate string
	Address        string
}

// FollowUpReminderData is the payload for the uncontacted-lead reminder.
type FollowUpReminderData struct {
	HomeownerName string
	CampaignName  string
	CapturedAgo   string
	DashboardURL  string
}

// TentativeHoldReminderData is the payload for the tentative-placement reminder.
type TentativeHoldReminderData struct {
	HomeownerName string
	TentativeDate string
	DashboardURL  string
}

// NoopSender is used when email is disabled; every send succeeds silently.
type NoopSender struct{}

func (NoopSender) SendLeadCapturedEmail(context.Context, string, LeadCapturedData) error { return nil }
func (NoopSender) SendInspectionScheduledEmail(context.Context, string, InspectionScheduledData) error {
	return nil
}
func (NoopSender) SendFollowUpReminderEmail(context.Context, string, FollowUpReminderData) error {
	return nil
}
func (NoopSender) SendTentativeHoldReminderEmail(context.Context, string, TentativeHoldReminderData) error {
	return nil
}
