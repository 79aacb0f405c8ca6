// Package mailbox exposes the shared inbox: rows synced into the emails
// table plus passthrough calls to the mail relay for everything that is not
// stored locally (OAuth status, sync triggers, sending, bodies,
// attachments).
package mailbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"lawoffice_crm_backend/platform/apperr"
	"lawoffice_crm_backend/platform/config"
)

// relayEnvelope is the relay's uniform response shape.
type relayEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// AuthStatus reports whether a user's mailbox is connected.
type AuthStatus struct {
	Connected bool   `json:"connected"`
	Address   string `json:"address,omitempty"`
}

// LoginLink is the OAuth URL a user must visit to connect their mailbox.
type LoginLink struct {
	URL string `json:"url"`
}

// SendRequest is an outbound message handed to the relay.
type SendRequest struct {
	To      []string `json:"to" validate:"required,min=1,dive,email"`
	Cc      []string `json:"cc" validate:"omitempty,dive,email"`
	Subject string   `json:"subject" validate:"required,max=500"`
	Body    string   `json:"body" validate:"required"`
	ReplyTo string   `json:"replyTo" validate:"omitempty,email"`
}

// Attachment is a remote attachment fetched on demand.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

// Client is a thin JSON client for the mail relay backend. Every call is
// scoped to one portal user via the userId query parameter because mailbox
// connections are per-user OAuth grants.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.MailRelayConfig) *Client {
	return &Client{
		baseURL: cfg.GetMailRelayURL(),
		http:    &http.Client{Timeout: cfg.GetMailRelayTimeout()},
	}
}

func (c *Client) endpoint(path string, userID int64) string {
	q := url.Values{}
	q.Set("userId", strconv.FormatInt(userID, 10))
	return c.baseURL + path + "?" + q.Encode()
}

// call performs one relay round trip and unwraps the envelope. Non-2xx
// statuses and envelope failures both surface as upstream errors carrying
// the relay's status code.
func (c *Client) call(ctx context.Context, method, url string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encoding relay request", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "building relay request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindUpstream, "mail relay unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return apperr.Upstream(resp.StatusCode, "reading relay response")
	}

	var envelope relayEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return apperr.Upstream(resp.StatusCode, "malformed relay response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		msg := envelope.Error
		if msg == "" {
			msg = fmt.Sprintf("relay returned status %d", resp.StatusCode)
		}
		return apperr.Upstream(resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return apperr.Upstream(resp.StatusCode, "unexpected relay payload")
		}
	}
	return nil
}

// AuthStatus asks the relay whether the user's mailbox is connected.
func (c *Client) AuthStatus(ctx context.Context, userID int64) (AuthStatus, error) {
	var status AuthStatus
	err := c.call(ctx, http.MethodGet, c.endpoint("/api/auth/status", userID), nil, &status)
	return status, err
}

// LoginLink fetches the OAuth URL for connecting the user's mailbox.
func (c *Client) LoginLink(ctx context.Context, userID int64) (LoginLink, error) {
	var link LoginLink
	err := c.call(ctx, http.MethodGet, c.endpoint("/api/auth/login", userID), nil, &link)
	return link, err
}

// SyncNow asks the relay to pull new mail. The sync itself runs
// asynchronously; new rows appear in the emails table once it finishes.
func (c *Client) SyncNow(ctx context.Context, userID int64) error {
	return c.call(ctx, http.MethodPost, c.endpoint("/api/sync/now", userID), nil, nil)
}

// Send hands an outbound message to the relay.
func (c *Client) Send(ctx context.Context, userID int64, req SendRequest) error {
	return c.call(ctx, http.MethodPost, c.endpoint("/api/emails/send", userID), req, nil)
}

// Body fetches the full body of a stored email from the relay.
func (c *Client) Body(ctx context.Context, userID int64, emailID string) (string, error) {
	var out struct {
		Body string `json:"body"`
	}
	path := "/api/emails/" + url.PathEscape(emailID) + "/body"
	err := c.call(ctx, http.MethodGet, c.endpoint(path, userID), nil, &out)
	return out.Body, err
}

// Attachment fetches one attachment's content from the relay.
func (c *Client) Attachment(ctx context.Context, userID int64, emailID, attachmentID string) (Attachment, error) {
	var att Attachment
	path := "/api/emails/" + url.PathEscape(emailID) + "/attachments/" + url.PathEscape(attachmentID)
	err := c.call(ctx, http.MethodGet, c.endpoint(path, userID), nil, &att)
	return att, err
}
