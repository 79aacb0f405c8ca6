// Package auth provides login and token issuing. Source-level visibility is
// baked into the issued token so the leads module can clamp searches without
// consulting the users table again.
package auth

import (
	"lawoffice_crm_backend/internal/auth/handler"
	"lawoffice_crm_backend/internal/auth/repository"
	"lawoffice_crm_backend/internal/auth/service"
	"lawoffice_crm_backend/internal/events"
	apphttp "lawoffice_crm_backend/internal/http"
	"lawoffice_crm_backend/platform/config"
	"lawoffice_crm_backend/platform/logger"
	"lawoffice_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the auth domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new auth module with all dependencies wired
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes registers the module's routes. Login sits behind the
// stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/auth")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(public)

	protected := ctx.Protected.Group("/auth")
	m.handler.RegisterProtectedRoutes(protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
