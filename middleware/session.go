package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/models"
	"github.com/kendall-kelly/local-services-api/services"
	"github.com/rs/zerolog/log"
)

const (
	// SessionCookieName is the cookie carrying the session token
	SessionCookieName = "session"

	contextActor = "actor"
)

// SessionToken extracts the session token from the session cookie or a Bearer header
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// LoadActor resolves the user behind the request's session, if any.
// Requests without a valid session continue as anonymous.
func LoadActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		actor, err := services.GetIdentityService().CurrentActor(c.Request.Context(), token)
		if err != nil {
			log.Error().Err(err).Msg("Failed to resolve session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "An unexpected error occurred",
				},
			})
			return
		}

		if actor != nil {
			c.Set(contextActor, actor)
		}
		c.Next()
	}
}

// RequireActor rejects anonymous requests with 401
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "You must be logged in",
				},
			})
			return
		}
		c.Next()
	}
}

// GetActor returns the logged-in user, or nil for anonymous requests
func GetActor(c *gin.Context) *models.User {
	v, exists := c.Get(contextActor)
	if !exists {
		return nil
	}
	actor, _ := v.(*models.User)
	return actor
}

// SetActor stores the logged-in user in the context (primarily for testing)
func SetActor(c *gin.Context, actor *models.User) {
	c.Set(contextActor, actor)
}
