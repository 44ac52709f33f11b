package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware resolves the request identity through the given provider and
// stores it in the Gin context. Requests without a resolvable identity are
// rejected with 401 immediately; nothing downstream runs unauthenticated.
func Middleware(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := provider.IdentityFromRequest(c.Request.Context(), c.Request)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "not authenticated",
				"code":    "UNAUTHENTICATED",
			})
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Set(ContextUserIDKey, identity.ID)
		c.Next()
	}
}
