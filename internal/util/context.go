package util

import (
	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/backend/internal/auth"
)

// GetIdentityFromContext extracts the resolved identity from the Gin context.
// If no identity was resolved it responds 401 and returns false; callers
// should return immediately in that case.
func GetIdentityFromContext(c *gin.Context) (*auth.Identity, bool) {
	value, exists := c.Get(auth.ContextIdentityKey)
	if !exists {
		RespondUnauthenticated(c)
		return nil, false
	}
	identity, ok := value.(*auth.Identity)
	if !ok {
		RespondUnauthenticated(c, "invalid identity in context")
		return nil, false
	}
	return identity, true
}

// GetUserIDFromContext extracts the authenticated user id from the Gin
// context, responding 401 when absent.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	identity, ok := GetIdentityFromContext(c)
	if !ok {
		return "", false
	}
	return identity.ID, true
}
