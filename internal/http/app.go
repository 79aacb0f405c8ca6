package http

import (
	"context"

	"lawoffice_crm_backend/internal/events"
	"lawoffice_crm_backend/platform/config"
	"lawoffice_crm_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router itself needs.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker answers readiness probes.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App carries everything the router needs, wired up by the composition
// root in main.go.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	Modules  []Module
}
