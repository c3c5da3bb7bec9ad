package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/middleware"
	"github.com/kendall-kelly/local-services-api/models"
	"github.com/kendall-kelly/local-services-api/services"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Location string `json:"location"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register - creates a customer or provider account
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := services.GetIdentityService().Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Location: req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login - opens a session and sets the session cookie
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	session, token, err := services.GetIdentityService().Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(time.Until(session.ExpiresAt).Seconds()), "/", "", isProduction(), true)

	respondSuccess(c, http.StatusOK, gin.H{
		"token":      token,
		"user_id":    session.UserID,
		"role":       session.Role,
		"expires_at": session.ExpiresAt,
		"landing":    services.LandingPath(&models.User{Role: session.Role}),
	})
}

// Logout handles POST /api/v1/auth/logout - ends the current session, if any
func Logout(c *gin.Context) {
	if err := services.GetIdentityService().Logout(c.Request.Context(), middleware.SessionToken(c)); err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", isProduction(), true)
	respondSuccess(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// Me handles GET /api/v1/auth/me - returns the logged-in user
func Me(c *gin.Context) {
	actor := middleware.GetActor(c)

	pending, err := services.NewBookingService(config.GetDB()).PendingBookingCount(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"user":             actor,
		"pending_bookings": pending,
		"landing":          services.LandingPath(actor),
	})
}
