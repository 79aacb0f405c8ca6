// Package httpkit provides response helpers shared by every module's handlers.
package httpkit

import (
	"net/http"

	"lawoffice_crm_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body every endpoint returns.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// OK sends a 200 response with the given payload.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// Error sends an error response with an explicit status.
func Error(c *gin.Context, status int, message string, details any) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// HandleError writes the response for a service error. Typed errors map
// through their Kind; anything else is treated as a bad request so internal
// detail never leaks with a 500 by accident. Returns false when err is nil.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if domainErr, ok := err.(*apperr.Error); ok {
		details := domainErr.Details
		if domainErr.Kind == apperr.KindUpstream && details == nil {
			details = gin.H{"upstreamStatus": domainErr.StatusCode}
		}
		c.JSON(domainErr.HTTPStatus(), ErrorResponse{
			Error:   domainErr.Message,
			Details: details,
		})
		return true
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	return true
}
