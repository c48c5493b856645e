package middleware

import (
	"net/http"
	"strings"

	"driverrating/models"
	"driverrating/services"

	"github.com/gin-gonic/gin"
)

const (
	userContextKey = "user"

	// SessionCookieName carries the signed admin session for browser
	// clients; API clients use the Authorization header instead.
	SessionCookieName = "admin_session"
)

// Auth resolves the caller from either an "Authorization: Token <key>"
// header or the admin session cookie and stores the user on the context.
func Auth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user *models.User

		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Token ") {
			user, _ = authService.Authenticate(strings.TrimPrefix(header, "Token "))
		}
		if user == nil {
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				user, _ = authService.AuthenticateSession(cookie)
			}
		}

		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// StaffRequired rejects authenticated but non-staff users.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}
		if !user.IsStaff {
			c.JSON(http.StatusForbidden, gin.H{"error": "staff credentials required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
