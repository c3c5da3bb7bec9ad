package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/services"
	"github.com/kendall-kelly/local-services-api/utils"
	"github.com/rs/zerolog/log"
)

// errorStatus maps each domain error kind to its HTTP status and error code
var errorStatus = []struct {
	kind   error
	status int
	code   string
}{
	{services.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
	{services.ErrDuplicateUsername, http.StatusConflict, "DUPLICATE_USERNAME"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{services.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
	{services.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{services.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{services.ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
	{services.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{services.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
}

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondErrorCode(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondError renders a service error. Unknown errors are logged and
// reported as a generic 500 without their cause.
func respondError(c *gin.Context, err error) {
	var domainErr *services.DomainError
	if errors.As(err, &domainErr) {
		for _, e := range errorStatus {
			if errors.Is(err, e.kind) {
				respondErrorCode(c, e.status, e.code, domainErr.Message)
				return
			}
		}
	}

	var uploadErr *utils.FileUploadError
	if errors.As(err, &uploadErr) {
		respondErrorCode(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	respondErrorCode(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// parseIDParam reads a positive numeric path parameter, responding 400 when it is not one
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondErrorCode(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func isProduction() bool {
	cfg := config.GetConfig()
	return cfg != nil && cfg.IsProduction()
}
