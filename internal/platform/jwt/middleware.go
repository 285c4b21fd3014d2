package jwtmw

import (
	"github.com/gin-gonic/gin"

	"shopgraph/internal/shared/identity"
)

// ContextIdentity is the gin context key holding the resolved identity.
const ContextIdentity = "identity"

// TokenVerifier decodes a raw Authorization header value.
type TokenVerifier interface {
	Verify(raw string) *identity.Claims
}

// Identify returns a Gin middleware that resolves the caller identity from the
// Authorization header and stores it in both the gin context and the request context.
// It never aborts: a missing or unusable token yields an anonymous identity.
func Identify(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id identity.Identity = identity.Anonymous{}
		if auth := c.GetHeader("Authorization"); auth != "" {
			id = identity.FromClaims(v.Verify(auth))
		}

		c.Set(ContextIdentity, id)
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
