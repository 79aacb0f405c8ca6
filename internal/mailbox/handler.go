package mailbox

import (
	"net/http"

	"lawoffice_crm_backend/platform/httpkit"
	"lawoffice_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the mailbox
type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes registers the mailbox routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/inbox", h.Inbox)
	rg.GET("/auth/status", h.AuthStatus)
	rg.GET("/auth/login", h.LoginLink)
	rg.POST("/sync", h.SyncNow)
	rg.POST("/send", h.Send)
	rg.GET("/emails/:id/body", h.Body)
	rg.GET("/emails/:id/attachments/:attachmentId", h.DownloadAttachment)
}

func (h *Handler) Inbox(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	leads, err := h.svc.Inbox(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, leads)
}

func (h *Handler) AuthStatus(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	status, err := h.svc.AuthStatus(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, status)
}

func (h *Handler) LoginLink(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	link, err := h.svc.LoginLink(c.Request.Context(), id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, link)
}

func (h *Handler) SyncNow(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	if err := h.svc.SyncNow(c.Request.Context(), id.UserID()); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "sync requested"})
}

func (h *Handler) Send(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.Send(c.Request.Context(), id.UserID(), req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"status": "sent"})
}

func (h *Handler) Body(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	body, err := h.svc.Body(c.Request.Context(), id.UserID(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"body": body})
}

func (h *Handler) DownloadAttachment(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	att, err := h.svc.DownloadAttachment(c.Request.Context(), id.UserID(), c.Param("id"), c.Param("attachmentId"))
	if httpkit.HandleError(c, err) {
		return
	}

	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+att.Filename+`"`)
	c.Data(http.StatusOK, contentType, att.Content)
}
