package mailbox

import (
	apphttp "lawoffice_crm_backend/internal/http"
	"lawoffice_crm_backend/platform/config"
	"lawoffice_crm_backend/platform/logger"
	"lawoffice_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the mailbox domain module
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates a new mailbox module with all dependencies wired
func NewModule(pool *pgxpool.Pool, cfg config.MailRelayConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	client := NewClient(cfg)
	svc := NewService(repo, client, log)
	h := NewHandler(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "mailbox"
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	mailbox := ctx.Protected.Group("/mailbox")
	m.handler.RegisterRoutes(mailbox)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
