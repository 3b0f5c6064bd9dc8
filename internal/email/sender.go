// Package email renders and delivers follow-up reminder mail.
package email

import (
	"context"
	"time"

	"visa_leads_backend/platform/config"
)

// FollowUpReminder is the content of one reminder mail.
type FollowUpReminder struct {
	LeadName  string
	LeadEmail string
	LeadPhone string
	Method    string
	DateTime  time.Time
	Notes     string
	StaffName string
}

type Sender interface {
	SendFollowUpReminder(ctx context.Context, toEmail string, r FollowUpReminder) error
}

type NoopSender struct{}

func (NoopSender) SendFollowUpReminder(ctx context.Context, toEmail string, r FollowUpReminder) error {
	return nil
}

// NewSender returns an SMTP sender when SMTP is configured and a NoopSender otherwise.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.IsSMTPEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
