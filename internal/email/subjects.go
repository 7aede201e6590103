package email

const (
	subjectLeadCapturedFmt      = "New lead from %s"
	subjectInspectionScheduled  = "Your inspection is scheduled"
	subjectFollowUpReminderFmt  = "Reminder: %s is still waiting to hear from you"
	subjectTentativeReminderFmt = "Tentative visit on %s is not confirmed yet"
)
