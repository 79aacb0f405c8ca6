package handler

import (
	"net/http"

	"lawoffice_crm_backend/internal/leads/repository"
	"lawoffice_crm_backend/internal/leads/service"
	"lawoffice_crm_backend/internal/leads/transport"
	"lawoffice_crm_backend/platform/httpkit"
	"lawoffice_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for leads
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the lead routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/search", h.Search)
	rg.GET("/:id", h.GetByID)
}

// scopeFrom derives the source visibility scope from the caller's identity.
func scopeFrom(id httpkit.Identity) repository.SourceScope {
	allowed, restricted := id.AllowedSources()
	return repository.SourceScope{Restricted: restricted, Allowed: allowed}
}

func (h *Handler) Search(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	filters, err := req.Filters()
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Search(c.Request.Context(), id.UserID(), scopeFrom(id), filters)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	details, err := h.svc.Details(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, details)
}
