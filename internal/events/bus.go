package events

import (
	platformevents "lawoffice_crm_backend/platform/events"
	"lawoffice_crm_backend/platform/logger"
)

// InMemoryBus aliases the platform bus so modules only import this package.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates the in-process event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
