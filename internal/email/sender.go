// Package email sends outbound notification email over the office SMTP
// server. It is distinct from the mailbox module, which reads the shared
// inbox through the mail relay.
package email

import "context"

// AssignmentNotice is the payload of a handler-assignment email.
type AssignmentNotice struct {
	HandlerName string
	LeadCount   int
	LeadNumbers []string
	AssignedBy  string
}

// Sender delivers notification email.
type Sender interface {
	SendAssignmentNotice(ctx context.Context, toEmail string, notice AssignmentNotice) error
}

// NopSender drops all email. Used when EMAIL_ENABLED is off so the rest of
// the notification pipeline still runs in development.
type NopSender struct{}

func (NopSender) SendAssignmentNotice(ctx context.Context, toEmail string, notice AssignmentNotice) error {
	return nil
}

var _ Sender = NopSender{}
