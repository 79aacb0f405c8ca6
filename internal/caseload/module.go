// Package caseload provides the handler-management domain module: who
// handles what, who has capacity, and what their caseloads owe.
package caseload

import (
	apphttp "lawoffice_crm_backend/internal/http"
	"lawoffice_crm_backend/internal/caseload/handler"
	"lawoffice_crm_backend/internal/caseload/repository"
	"lawoffice_crm_backend/internal/caseload/service"
	"lawoffice_crm_backend/internal/events"
	"lawoffice_crm_backend/internal/refs"
	"lawoffice_crm_backend/platform/logger"
	"lawoffice_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the caseload domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new caseload module with all dependencies wired. The
// leads and payments collaborators come from their own modules.
func NewModule(pool *pgxpool.Pool, leads service.LeadDirectory, dues service.DuesProvider, refSvc *refs.Service, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, dues, refSvc, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "caseload"
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	handlers := ctx.Protected.Group("/handlers")
	m.handler.RegisterRoutes(handlers)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
