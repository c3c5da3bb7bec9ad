package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/middleware"
	"github.com/kendall-kelly/local-services-api/services"
)

// CreateServiceRequest represents the request body for creating a listing.
// Price accepts a JSON number or a numeric string.
type CreateServiceRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description" binding:"required"`
	Price       json.Number `json:"price" binding:"required"`
	Location    string      `json:"location" binding:"required"`
}

// AvailabilityRequest represents the request body for toggling a listing
type AvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func catalogService() *services.CatalogService {
	return services.NewCatalogService(config.GetDB(), services.GetImageService())
}

// ListServices handles GET /api/v1/services - available listings filtered by q and location
func ListServices(c *gin.Context) {
	list, err := catalogService().ListAvailableServices(c.Request.Context(), services.ServiceFilter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, list)
}

// NearbyServices handles GET /api/v1/services/nearby - listings near the logged-in user
func NearbyServices(c *gin.Context) {
	list, err := catalogService().NearbyServices(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, list)
}

// GetService handles GET /api/v1/services/:id
func GetService(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	service, err := catalogService().GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, service)
}

// CreateService handles POST /api/v1/services - providers publish a listing
func CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	service, err := catalogService().CreateService(c.Request.Context(), middleware.GetActor(c), services.CreateServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price.String(),
		Location:    req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, service)
}

// SetServiceAvailability handles PATCH /api/v1/services/:id/availability
func SetServiceAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	service, err := catalogService().SetServiceAvailability(c.Request.Context(), middleware.GetActor(c), id, *req.Available)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, service)
}

// UploadServiceImage handles POST /api/v1/services/:id/image - multipart field "image"
func UploadServiceImage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondErrorCode(c, http.StatusBadRequest, "VALIDATION_ERROR", "An image file is required")
		return
	}

	service, err := catalogService().AttachServiceImage(c.Request.Context(), middleware.GetActor(c), id, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, service)
}

// ListMyServices handles GET /api/v1/provider/services - the provider's own listings
func ListMyServices(c *gin.Context) {
	list, err := catalogService().ListProviderServices(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, list)
}
