package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/middleware"
	"github.com/kendall-kelly/local-services-api/services"
)

// FileComplaintRequest represents the request body for filing a complaint
type FileComplaintRequest struct {
	Text      string `json:"complaint_text" binding:"required"`
	BookingID *uint  `json:"booking_id"`
}

func complaintService() *services.ComplaintService {
	return services.NewComplaintService(config.GetDB())
}

// ListComplaints handles GET /api/v1/complaints - all complaints for the admin, own otherwise
func ListComplaints(c *gin.Context) {
	complaints, err := complaintService().ListComplaints(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, complaints)
}

// FileComplaint handles POST /api/v1/complaints
func FileComplaint(c *gin.Context) {
	var req FileComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	complaint, err := complaintService().FileComplaint(c.Request.Context(), middleware.GetActor(c), services.FileComplaintInput{
		Text:      req.Text,
		BookingID: req.BookingID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, complaint)
}

// UpdateComplaintStatus handles PATCH /api/v1/complaints/:id/status - admin only
func UpdateComplaintStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	complaint, err := complaintService().ResolveComplaint(c.Request.Context(), middleware.GetActor(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, complaint)
}
