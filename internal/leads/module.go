// Package leads provides the unified lead-search domain module. It answers
// from both lead tables at once and hides the schema split from every caller.
package leads

import (
	apphttp "lawoffice_crm_backend/internal/http"
	"lawoffice_crm_backend/internal/leads/handler"
	"lawoffice_crm_backend/internal/leads/repository"
	"lawoffice_crm_backend/internal/leads/service"
	"lawoffice_crm_backend/internal/refs"
	"lawoffice_crm_backend/platform/logger"
	"lawoffice_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the leads domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new leads module with all dependencies wired
func NewModule(pool *pgxpool.Pool, refSvc *refs.Service, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, refSvc, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	leads := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leads)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
