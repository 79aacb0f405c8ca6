// Package notification provides event handlers for sending notifications in
// response to domain events. Domain modules publish events and never touch
// email providers or templates directly.
package notification

import (
	"context"
	"fmt"

	"lawoffice_crm_backend/internal/email"
	"lawoffice_crm_backend/internal/events"
	"lawoffice_crm_backend/platform/logger"
)

// Module subscribes to domain events and fans them out as email.
type Module struct {
	sender email.Sender
	log    *logger.Logger
}

// NewModule creates the notification module and subscribes it on the bus.
func NewModule(bus events.Bus, sender email.Sender, log *logger.Logger) *Module {
	m := &Module{sender: sender, log: log}

	bus.Subscribe(events.LeadsAssigned{}.EventName(), m)

	return m
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "notification"
}

// Handle dispatches a domain event to its notification handler.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadsAssigned:
		return m.handleLeadsAssigned(ctx, e)
	default:
		return fmt.Errorf("notification: unexpected event %s", event.EventName())
	}
}

func (m *Module) handleLeadsAssigned(ctx context.Context, e events.LeadsAssigned) error {
	if e.HandlerEmail == "" {
		m.log.Warn("skipping assignment notice, handler has no email",
			"handler_id", e.HandlerID,
			"handler_name", e.HandlerName)
		return nil
	}

	notice := email.AssignmentNotice{
		HandlerName: e.HandlerName,
		LeadCount:   len(e.LeadIDs),
		LeadNumbers: e.LeadIDs,
	}
	if err := m.sender.SendAssignmentNotice(ctx, e.HandlerEmail, notice); err != nil {
		return fmt.Errorf("sending assignment notice to %s: %w", e.HandlerEmail, err)
	}

	m.log.Info("assignment notice sent",
		"handler_id", e.HandlerID,
		"lead_count", len(e.LeadIDs))
	return nil
}

var _ events.Handler = (*Module)(nil)
