package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kendall-kelly/local-services-api/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FileComplaintInput carries a complaint; BookingID optionally ties it to a booking
type FileComplaintInput struct {
	Text      string
	BookingID *uint
}

// ComplaintService files complaints and lets the admin work through them
type ComplaintService struct {
	db *gorm.DB
}

// NewComplaintService creates a complaint service
func NewComplaintService(db *gorm.DB) *ComplaintService {
	return &ComplaintService{db: db}
}

// FileComplaint records a Pending complaint from any logged-in user
func (s *ComplaintService) FileComplaint(ctx context.Context, actor *models.User, in FileComplaintInput) (*models.Complaint, error) {
	if actor == nil {
		return nil, unauthenticated()
	}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, invalidInput("Complaint text is required")
	}

	complaint := models.Complaint{
		UserID:    actor.ID,
		BookingID: in.BookingID,
		Text:      text,
		Status:    models.ComplaintPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.BookingID != nil {
			var booking models.Booking
			if err := tx.First(&booking, *in.BookingID).Error; err != nil {
				if isRecordNotFound(err) {
					return notFound("Booking not found")
				}
				return fmt.Errorf("failed to load booking: %w", err)
			}
			if !actor.IsAdmin() && booking.CustomerID != actor.ID && booking.ProviderID != actor.ID {
				return forbidden("You can only complain about your own bookings")
			}
		}
		if err := tx.Create(&complaint).Error; err != nil {
			return fmt.Errorf("failed to create complaint: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("complaint_id", complaint.ID).Uint("user_id", actor.ID).Msg("complaint filed")
	return &complaint, nil
}

// ResolveComplaint sets a complaint's status; admin only
func (s *ComplaintService) ResolveComplaint(ctx context.Context, actor *models.User, id uint, newStatus string) (*models.Complaint, error) {
	if actor == nil {
		return nil, unauthenticated()
	}
	if !actor.IsAdmin() {
		return nil, forbidden("Only an admin can update complaints")
	}
	if !models.IsValidComplaintStatus(newStatus) {
		return nil, invalidInput(fmt.Sprintf("Unknown complaint status %q", newStatus))
	}

	var complaint models.Complaint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&complaint, id).Error; err != nil {
			if isRecordNotFound(err) {
				return notFound("Complaint not found")
			}
			return fmt.Errorf("failed to load complaint: %w", err)
		}
		if err := tx.Model(&complaint).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("failed to update complaint: %w", err)
		}
		complaint.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("complaint_id", complaint.ID).Str("status", newStatus).Msg("complaint updated")
	return &complaint, nil
}

// ListComplaints returns every complaint for an admin and the actor's own otherwise, newest first
func (s *ComplaintService) ListComplaints(ctx context.Context, actor *models.User) ([]models.Complaint, error) {
	if actor == nil {
		return nil, unauthenticated()
	}

	q := s.db.WithContext(ctx)
	if actor.IsAdmin() {
		q = q.Preload("User")
	} else {
		q = q.Where("user_id = ?", actor.ID)
	}

	var complaints []models.Complaint
	if err := q.Order("created_at DESC, id DESC").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}
