// Package token issues the access tokens consumed by the auth middleware.
package token

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried in an access token. The srcs claim is only present for
// external users; its absence marks an unrestricted staff token.
type Claims struct {
	UserID         int64
	Role           string
	AllowedSources []int64
	Restricted     bool
}

// Sign builds and signs an access token.
func Sign(c Claims, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(c.UserID, 10),
		"role": c.Role,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	if c.Restricted {
		srcs := make([]int64, len(c.AllowedSources))
		copy(srcs, c.AllowedSources)
		claims["srcs"] = srcs
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(secret))
}
