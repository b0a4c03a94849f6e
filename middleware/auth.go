package middleware

import (
	"net/http"
	"strings"

	"servihub/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CtxActorID   = "actorID"
	CtxActorRole = "actorRole"
)

// JWTAuthMiddleware verifies the bearer token and stores the actor id and
// role on the context. Token issuing belongs to the identity service; this
// middleware only consumes its output.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actorID, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil || actorID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		c.Set(CtxActorID, actorID)
		c.Set(CtxActorRole, role)
		c.Next()
	}
}

// RequireRole aborts unless the authenticated actor carries the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxActorRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Forbidden",
			})
			return
		}
		c.Next()
	}
}
