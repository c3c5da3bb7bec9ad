package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/middleware"
	"github.com/kendall-kelly/local-services-api/services"
)

// CreateBookingRequest represents the request body for booking a service
type CreateBookingRequest struct {
	ServiceID     uint   `json:"service_id" binding:"required"`
	CustomerName  string `json:"customer_name"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// UpdateStatusRequest represents the request body for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RateBookingRequest represents the request body for rating a booking
type RateBookingRequest struct {
	Rating int `json:"rating" binding:"required"`
}

func bookingService() *services.BookingService {
	return services.NewBookingService(config.GetDB())
}

// ListBookings handles GET /api/v1/bookings - bookings visible to the logged-in user
func ListBookings(c *gin.Context) {
	bookings, err := bookingService().ListBookings(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, bookings)
}

// CreateBooking handles POST /api/v1/bookings - customers book an available service
func CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	booking, err := bookingService().CreateBooking(c.Request.Context(), middleware.GetActor(c), services.CreateBookingInput{
		ServiceID:     req.ServiceID,
		CustomerName:  req.CustomerName,
		Age:           req.Age,
		Gender:        req.Gender,
		Address:       req.Address,
		Date:          req.Date,
		Time:          req.Time,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, booking)
}

// GetBooking handles GET /api/v1/bookings/:id
func GetBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	booking, err := bookingService().GetBooking(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, booking)
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status - provider or admin moves a booking along
func UpdateBookingStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	booking, err := bookingService().UpdateBookingStatus(c.Request.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, booking)
}

// RateBooking handles POST /api/v1/bookings/:id/rating - the customer rates a completed booking
func RateBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// binding:"required" rejects a missing or zero rating
	var req RateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	booking, err := bookingService().RateBooking(c.Request.Context(), middleware.GetActor(c), id, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, booking)
}

// PendingBookingCount handles GET /api/v1/notifications/pending-bookings
func PendingBookingCount(c *gin.Context) {
	count, err := bookingService().PendingBookingCount(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"pending_bookings": count})
}
