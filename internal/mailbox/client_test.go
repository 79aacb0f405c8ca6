package mailbox

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lawoffice_crm_backend/platform/apperr"
)

type relayConfig struct {
	url string
}

func (c relayConfig) GetMailRelayURL() string            { return c.url }
func (c relayConfig) GetMailRelayTimeout() time.Duration { return 5 * time.Second }

func TestClientAuthStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/status" {
			t.Fatalf("path: got %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("userId"); got != "7" {
			t.Fatalf("userId: got %q", got)
		}
		w.Write([]byte(`{"success":true,"data":{"connected":true,"address":"office@example.com"}}`))
	}))
	defer srv.Close()

	c := NewClient(relayConfig{url: srv.URL})
	status, err := c.AuthStatus(context.Background(), 7)
	if err != nil {
		t.Fatalf("auth status: %v", err)
	}
	if !status.Connected || status.Address != "office@example.com" {
		t.Fatalf("status: %+v", status)
	}
}

func TestClientEnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success":false,"error":"mailbox not connected"}`))
	}))
	defer srv.Close()

	c := NewClient(relayConfig{url: srv.URL})
	err := c.SyncNow(context.Background(), 7)
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("want upstream error, got %v", err)
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error type: %T", err)
	}
	if appErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("upstream status: got %d", appErr.StatusCode)
	}
	if appErr.Message != "mailbox not connected" {
		t.Fatalf("message: got %q", appErr.Message)
	}
}

func TestClientSuccessFalseWith200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"token expired"}`))
	}))
	defer srv.Close()

	c := NewClient(relayConfig{url: srv.URL})
	_, err := c.LoginLink(context.Background(), 7)
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("want upstream error, got %v", err)
	}
}

func TestClientMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	}))
	defer srv.Close()

	c := NewClient(relayConfig{url: srv.URL})
	_, err := c.Body(context.Background(), 7, "abc")
	if !apperr.Is(err, apperr.KindUpstream) {
		t.Fatalf("want upstream error, got %v", err)
	}
}

func TestClientSendPostsJSON(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if r.Method != http.MethodPost {
			t.Fatalf("method: got %q", r.Method)
		}
		w.Write([]byte(`{"success":true,"data":null}`))
	}))
	defer srv.Close()

	c := NewClient(relayConfig{url: srv.URL})
	err := c.Send(context.Background(), 7, SendRequest{
		To:      []string{"client@example.com"},
		Subject: "Your case",
		Body:    "Hello",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type: got %q", gotContentType)
	}
}
