// Package http defines the contract between the router and the domain
// modules it mounts.
package http

import (
	"lawoffice_crm_backend/platform/config"
	"lawoffice_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that registers its own HTTP routes. The
// router stays ignorant of individual endpoints.
type Module interface {
	// Name identifies the module in startup logs.
	Name() string
	// RegisterRoutes mounts the module's routes using the shared context.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext bundles the groups and middleware modules register against.
type RouterContext struct {
	// Engine is the root Gin engine, for modules needing engine-level access.
	Engine *gin.Engine
	// V1 is the public /api/v1 group.
	V1 *gin.RouterGroup
	// Protected is the authenticated group under /api/v1.
	Protected *gin.RouterGroup
	// Config exposes JWT settings for modules that build their own guards.
	Config config.JWTConfig
	// AuthMiddleware is the shared token-validation middleware.
	AuthMiddleware gin.HandlerFunc
	// AuthRateLimiter is the stricter limiter reserved for login routes.
	AuthRateLimiter *httpkit.AuthRateLimiter
}
