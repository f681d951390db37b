package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Karavaev93/campusparking/internal/auth"
	"github.com/Karavaev93/campusparking/internal/service/users"
)

const sessionKey = "session"

// Auth validates the bearer token and resolves the caller's current role from
// the store, so a role change applies to tokens issued before it.
func Auth(tokens *auth.Manager, userSvc users.UserUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := tokens.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := userSvc.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set(sessionKey, auth.Session{UserID: user.ID, Email: user.Email, Role: user.Role})
		c.Next()
	}
}

func sessionFrom(c *gin.Context) auth.Session {
	v, _ := c.Get(sessionKey)
	sess, _ := v.(auth.Session)
	return sess
}
