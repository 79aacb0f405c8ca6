package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"lawoffice_crm_backend/platform/config"

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

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
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

// SendAssignmentNotice emails a handler about newly assigned cases.
func (s *SMTPSender) SendAssignmentNotice(ctx context.Context, toEmail string, notice AssignmentNotice) error {
	content, err := renderEmailTemplate("leads_assigned.html", assignmentEmailData{
		baseEmailData: baseEmailData{
			Title:   "New case assignment",
			Heading: "New case assignment",
		},
		HandlerName: notice.HandlerName,
		LeadCount:   notice.LeadCount,
		LeadNumbers: notice.LeadNumbers,
		AssignedBy:  notice.AssignedBy,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf(subjectAssignmentManyFmt, notice.LeadCount)
	if notice.LeadCount == 1 && len(notice.LeadNumbers) == 1 {
		subject = fmt.Sprintf(subjectAssignmentOneFmt, notice.LeadNumbers[0])
	}
	return s.send(ctx, toEmail, subject, content)
}

var _ Sender = (*SMTPSender)(nil)
