package handler

import (
	"net/http"
	"strconv"
	"time"

	"lawoffice_crm_backend/internal/caseload/service"
	"lawoffice_crm_backend/internal/caseload/transport"
	"lawoffice_crm_backend/platform/httpkit"
	"lawoffice_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for handler management
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new caseload handler
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the handler-management routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unassigned-leads", h.UnassignedLeads)
	rg.POST("/assign", h.Assign)
	rg.GET("/:id/dues", h.Dues)
}

func (h *Handler) List(c *gin.Context) {
	handlers, err := h.svc.Handlers(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, handlers)
}

func (h *Handler) UnassignedLeads(c *gin.Context) {
	leads, err := h.svc.UnassignedLeads(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, leads)
}

func (h *Handler) Assign(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req transport.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Assign(c.Request.Context(), id.UserID(), req.HandlerID, req.LeadIDs)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) Dues(c *gin.Context) {
	handlerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || handlerID <= 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	month := time.Now().UTC()
	if raw := c.Query("month"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, time.UTC)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid month, want YYYY-MM", nil)
			return
		}
		month = parsed
	}

	report, err := h.svc.Dues(c.Request.Context(), handlerID, month)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, report)
}
