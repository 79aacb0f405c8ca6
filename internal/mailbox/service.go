package mailbox

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/logger"
)

const inboxLimit = 500

// AttachmentRef is a parsed attachment reference from the attachments
// column. Remote attachments carry an id resolvable through the relay;
// inline ones embed their content.
type AttachmentRef struct {
	ID          string `json:"id,omitempty"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType,omitempty"`
	Inline      bool   `json:"inline,omitempty"`
}

// Message is one triage-ready email.
type Message struct {
	ID          string          `json:"id"`
	Sender      string          `json:"sender"`
	SenderName  string          `json:"senderName,omitempty"`
	Subject     string          `json:"subject,omitempty"`
	Snippet     string          `json:"snippet,omitempty"`
	SentAt      time.Time       `json:"sentAt"`
	Attachments []AttachmentRef `json:"attachments,omitempty"`
}

// EmailLead groups a sender's messages into a pseudo-lead for triage. It is
// a view, not a stored entity; its identity is the sender address.
type EmailLead struct {
	Sender     string    `json:"sender"`
	SenderName string    `json:"senderName,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	LastSentAt time.Time `json:"lastSentAt"`
	Messages   []Message `json:"messages"`
}

// EmailStore is the persistence surface the service needs.
type EmailStore interface {
	Inbox(ctx context.Context, userID int64, limit int) ([]Email, error)
}

// Relay is the passthrough surface to the mail backend.
type Relay interface {
	AuthStatus(ctx context.Context, userID int64) (AuthStatus, error)
	LoginLink(ctx context.Context, userID int64) (LoginLink, error)
	SyncNow(ctx context.Context, userID int64) error
	Send(ctx context.Context, userID int64, req SendRequest) error
	Body(ctx context.Context, userID int64, emailID string) (string, error)
	Attachment(ctx context.Context, userID int64, emailID, attachmentID string) (Attachment, error)
}

type Service struct {
	store EmailStore
	relay Relay
	log   *logger.Logger
}

func NewService(store EmailStore, relay Relay, log *logger.Logger) *Service {
	return &Service{store: store, relay: relay, log: log}
}

// dedupKey identifies near-duplicate messages: the relay occasionally syncs
// the same message twice with ids from different sync runs, so sender plus
// minute-truncated timestamp is used as a best-effort key.
func dedupKey(e Email) string {
	return strings.ToLower(e.Sender) + "|" + e.SentAt.Truncate(time.Minute).UTC().Format(time.RFC3339)
}

// Inbox groups the user's synced emails by sender into EmailLeads, newest
// activity first.
func (s *Service) Inbox(ctx context.Context, userID int64) ([]EmailLead, error) {
	rows, err := s.store.Inbox(ctx, userID, inboxLimit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "loading inbox", err)
	}

	seen := make(map[string]bool)
	bySender := make(map[string]*EmailLead)

	for _, row := range rows {
		key := dedupKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true

		msg := Message{
			ID:          row.ID,
			Sender:      row.Sender,
			SenderName:  strval(row.SenderName),
			Subject:     strval(row.Subject),
			Snippet:     strval(row.Snippet),
			SentAt:      row.SentAt,
			Attachments: parseAttachments(row, s.log),
		}

		sender := strings.ToLower(row.Sender)
		lead, ok := bySender[sender]
		if !ok {
			lead = &EmailLead{
				Sender:     row.Sender,
				SenderName: msg.SenderName,
				Subject:    msg.Subject,
			}
			bySender[sender] = lead
		}
		lead.Messages = append(lead.Messages, msg)
		if row.SentAt.After(lead.LastSentAt) {
			lead.LastSentAt = row.SentAt
		}
	}

	out := make([]EmailLead, 0, len(bySender))
	for _, lead := range bySender {
		sort.Slice(lead.Messages, func(i, j int) bool {
			return lead.Messages[i].SentAt.After(lead.Messages[j].SentAt)
		})
		out = append(out, *lead)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastSentAt.After(out[j].LastSentAt) })
	return out, nil
}

// parseAttachments decodes the attachments column. Parsing is best-effort:
// rows imported before the column format settled hold junk, and a bad blob
// just renders as "has attachments, none listed".
func parseAttachments(row Email, log *logger.Logger) []AttachmentRef {
	if row.AttachmentsRaw == nil || strings.TrimSpace(*row.AttachmentsRaw) == "" {
		return nil
	}
	var refs []AttachmentRef
	if err := json.Unmarshal([]byte(*row.AttachmentsRaw), &refs); err != nil {
		log.LookupMiss("email_attachments", row.ID)
		return nil
	}
	return refs
}

// AuthStatus passes through to the relay.
func (s *Service) AuthStatus(ctx context.Context, userID int64) (AuthStatus, error) {
	return s.relay.AuthStatus(ctx, userID)
}

// LoginLink passes through to the relay.
func (s *Service) LoginLink(ctx context.Context, userID int64) (LoginLink, error) {
	return s.relay.LoginLink(ctx, userID)
}

// SyncNow passes through to the relay.
func (s *Service) SyncNow(ctx context.Context, userID int64) error {
	return s.relay.SyncNow(ctx, userID)
}

// Send passes through to the relay.
func (s *Service) Send(ctx context.Context, userID int64, req SendRequest) error {
	return s.relay.Send(ctx, userID, req)
}

// Body fetches a message body on demand.
func (s *Service) Body(ctx context.Context, userID int64, emailID string) (string, error) {
	if strings.TrimSpace(emailID) == "" {
		return "", apperr.Validation("missing email id")
	}
	return s.relay.Body(ctx, userID, emailID)
}

// DownloadAttachment fetches one attachment on demand.
func (s *Service) DownloadAttachment(ctx context.Context, userID int64, emailID, attachmentID string) (Attachment, error) {
	if strings.TrimSpace(emailID) == "" || strings.TrimSpace(attachmentID) == "" {
		return Attachment{}, apperr.Validation("missing email or attachment id")
	}
	return s.relay.Attachment(ctx, userID, emailID, attachmentID)
}

func strval(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
