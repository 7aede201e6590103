package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"leadgrid_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSender builds the configured Sender. Returns a NoopSender when email
// is disabled so callers never need to nil-check.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}
	if cfg.GetSMTPHost() == "" {
		return nil, fmt.Errorf("SMTP_HOST is required when email is enabled")
	}

	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}, nil
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadCapturedEmail(ctx context.Context, toEmail string, data LeadCapturedData) error {
	rows := []detailRow{
		{Label: "Name", Value: data.HomeownerName},
		{Label: "Phone", Value: data.Phone},
		{Label: "Email", Value: data.Email},
	}
	if data.Address != "" {
		rows = append(rows, detailRow{Label: "Address", Value: data.Address})
	}

	content, err := renderEmailTemplate("notification.html", baseEmailData{
		Title:    "New lead",
		Heading:  "You have a new lead",
		Intro:    fmt.Sprintf("A homeowner just submitted the form on your %q campaign page.", data.CampaignName),
		Rows:     rows,
		CTALabel: "Open dashboard",
		CTAURL:   data.DashboardURL,
	})
	if err != nil {
		return err
	}

	return s.send(ctx, toEmail, fmt.Sprintf(subjectLeadCapturedFmt, data.CampaignName), content)
}

func (s *SMTPSender) SendInspectionScheduledEmail(ctx context.Context, toEmail string, data InspectionScheduledData) error {
	rows := []detailRow{
		{Label: "Date", Value: data.InspectionDate},
	}
	if data.Address != "" {
		rows = append(rows, detailRow{Label: "Address", Value: data.Address})
	}

	content, err := renderEmailTemplate("notification.html", baseEmailData{
		Title:   "Inspection scheduled",
		Heading: fmt.Sprintf("Hi %s, your inspection is booked", data.HomeownerName),
		Intro:   fmt.Sprintf("%s has scheduled your inspection.", data.CompanyName),
		Rows:    rows,
	})
	if err != nil {
		return err
	}

	return s.send(ctx, toEmail, subjectInspectionScheduled, content)
}

func (s *SMTPSender) SendFollowUpReminderEmail(ctx context.Context, toEmail string, data FollowUpReminderData) error {
	content, err := renderEmailTemplate("notification.html", baseEmailData{
		Title:   "Lead follow-up reminder",
		Heading: "This lead has not been contacted yet",
		Intro: fmt.Sprintf("%s submitted the %q campaign form %s ago and has no recorded contact attempt.",
			data.HomeownerName, data.CampaignName, data.CapturedAgo),
		CTALabel: "Open dashboard",
		CTAURL:   data.DashboardURL,
	})
	if err != nil {
		return err
	}

	return s.send(ctx, toEmail, fmt.Sprintf(subjectFollowUpReminderFmt, data.HomeownerName), content)
}

func (s *SMTPSender) SendTentativeHoldReminderEmail(ctx context.Context, toEmail string, data TentativeHoldReminderData) error {
	content, err := renderEmailTemplate("notification.html", baseEmailData{
		Title:   "Tentative visit reminder",
		Heading: "A tentative visit is still unconfirmed",
		Intro: fmt.Sprintf("%s is tentatively placed on %s but has not been scheduled as a job.",
			data.HomeownerName, data.TentativeDate),
		CTALabel: "Open calendar",
		CTAURL:   data.DashboardURL,
	})
	if err != nil {
		return err
	}

	return s.send(ctx, toEmail, fmt.Sprintf(subjectTentativeReminderFmt, data.TentativeDate), content)
}

// Compile-time check that SMTPSender implements Sender.
var _ Sender = (*SMTPSender)(nil)
