package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/middleware"
	"github.com/kendall-kelly/local-services-api/services"
)

// ListUsers handles GET /api/v1/admin/users
func ListUsers(c *gin.Context) {
	users, err := services.NewAdminService(config.GetDB()).ListUsers(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, users)
}

// GetOverview handles GET /api/v1/admin/overview
func GetOverview(c *gin.Context) {
	overview, err := services.NewAdminService(config.GetDB()).Overview(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, overview)
}
