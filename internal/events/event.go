// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"lawoffice_crm_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Caseload Domain Events
// =============================================================================

// LeadsAssigned is published after a batch of leads is handed to a handler.
type LeadsAssigned struct {
	BaseEvent
	HandlerID    int64    `json:"handlerId"`
	HandlerName  string   `json:"handlerName"`
	HandlerEmail string   `json:"handlerEmail"`
	LeadIDs      []string `json:"leadIds"`
	AssignedBy   int64    `json:"assignedBy"`
}

func (e LeadsAssigned) EventName() string { return "caseload.leads.assigned" }

// =============================================================================
// Auth Domain Events
// =============================================================================

// UserLoggedIn is published on every successful login.
type UserLoggedIn struct {
	BaseEvent
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

func (e UserLoggedIn) EventName() string { return "auth.user.logged_in" }
