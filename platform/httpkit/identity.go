// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Role names carried in access tokens.
const (
	RoleStaff    = "staff"
	RoleExternal = "external"
)

// Identity represents the authenticated user's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access user information without depending on Gin.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() int64
	// Role returns the user's role (staff or external).
	Role() string
	// IsStaff reports whether the user is a staff member.
	IsStaff() bool
	// AllowedSources returns the permitted lead-source ids and whether the
	// user is restricted to them. Staff users are unrestricted; an external
	// user with an empty list may see no leads at all.
	AllowedSources() ([]int64, bool)
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	userID        int64
	role          string
	sources       []int64
	restricted    bool
	authenticated bool
}

func (i *identity) UserID() int64 {
	return i.userID
}

func (i *identity) Role() string {
	return i.role
}

func (i *identity) IsStaff() bool {
	return i.role == RoleStaff
}

func (i *identity) AllowedSources() ([]int64, bool) {
	return i.sources, i.restricted
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(int64)
	if !ok {
		return &identity{authenticated: false}
	}

	role, _ := c.Get(ContextRoleKey)
	roleStr, _ := role.(string)

	id := &identity{
		userID:        uid,
		role:          roleStr,
		authenticated: true,
	}

	if raw, ok := c.Get(ContextAllowedSourcesKey); ok {
		if sources, ok := raw.([]int64); ok {
			id.sources = sources
			id.restricted = true
		}
	}

	return id
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
