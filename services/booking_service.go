package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kendall-kelly/local-services-api/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CreateBookingInput carries a customer's booking form
type CreateBookingInput struct {
	ServiceID     uint
	CustomerName  string
	Age           int
	Gender        string
	Address       string
	Date          string
	Time          string
	PaymentMethod string
}

// BookingService creates bookings and moves them through their lifecycle
type BookingService struct {
	db *gorm.DB
}

// NewBookingService creates a booking service
func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// CreateBooking reserves an available service for a customer.
// The availability check and the insert happen in one transaction that first
// bumps the service's booking counter under the condition is_available = true,
// so a concurrent toggle to unavailable either waits for or rejects the booking.
func (s *BookingService) CreateBooking(ctx context.Context, actor *models.User, in CreateBookingInput) (*models.Booking, error) {
	if actor == nil {
		return nil, unauthenticated()
	}
	if !actor.IsCustomer() {
		return nil, forbidden("Only customers can book services")
	}

	date := strings.TrimSpace(in.Date)
	timeOfDay := strings.TrimSpace(in.Time)
	if date == "" || timeOfDay == "" {
		return nil, invalidInput("Date and time are required")
	}
	if in.Age < 0 || in.Age > 150 {
		return nil, invalidInput("Age must be between 0 and 150")
	}
	customerName := strings.TrimSpace(in.CustomerName)
	if customerName == "" {
		customerName = actor.Username
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Service{}).
			Where("id = ? AND is_available = ?", in.ServiceID, true).
			UpdateColumn("booking_count", gorm.Expr("booking_count + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to reserve service: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("Service not found or not available")
		}

		var service models.Service
		if err := tx.First(&service, in.ServiceID).Error; err != nil {
			return fmt.Errorf("failed to load service: %w", err)
		}

		booking = models.Booking{
			CustomerID:    actor.ID,
			ProviderID:    service.ProviderID,
			ServiceID:     service.ID,
			CustomerName:  customerName,
			Age:           in.Age,
			Gender:        strings.TrimSpace(in.Gender),
			Address:       strings.TrimSpace(in.Address),
			Date:          date,
			Time:          timeOfDay,
			PaymentMethod: strings.TrimSpace(in.PaymentMethod),
			Rating:        models.Unrated,
			Status:        models.BookingPending,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bookingsCreated.Inc()
	log.Info().
		Uint("booking_id", booking.ID).
		Uint("service_id", booking.ServiceID).
		Uint("customer_id", booking.CustomerID).
		Msg("booking created")
	return &booking, nil
}

// UpdateBookingStatus moves a booking to newStatus.
// Only the booking's provider or an admin may do so, and only along
// Pending -> Confirmed|Cancelled and Confirmed -> Completed|Cancelled.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, actor *models.User, id uint, newStatus string) (*models.Booking, error) {
	if actor == nil {
		return nil, unauthenticated()
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			if isRecordNotFound(err) {
				return notFound("Booking not found")
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}
		if !actor.IsAdmin() && booking.ProviderID != actor.ID {
			return forbidden("Only the booking's provider or an admin can change its status")
		}
		if !models.CanTransitionBooking(booking.Status, newStatus) {
			return newError(ErrInvalidTransition,
				fmt.Sprintf("Cannot change booking status from %s to %s", booking.Status, newStatus))
		}

		// Compare-and-set on the status we validated against
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(map[string]interface{}{"status": newStatus, "updated_at": time.Now()})
		if res.Error != nil {
			return fmt.Errorf("failed to update booking status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return newError(ErrInvalidTransition, "Booking status was changed by someone else")
		}
		booking.Status = newStatus
		return nil
	})
	if err != nil {
		return nil, err
	}

	bookingTransitions.WithLabelValues(newStatus).Inc()
	log.Info().Uint("booking_id", booking.ID).Str("status", newStatus).Uint("actor_id", actor.ID).Msg("booking status changed")
	return &booking, nil
}

// RateBooking records the customer's 1-5 rating of a completed booking. A booking is rated once.
func (s *BookingService) RateBooking(ctx context.Context, actor *models.User, id uint, rating int) (*models.Booking, error) {
	if actor == nil {
		return nil, unauthenticated()
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, invalidInput("Rating must be between 1 and 5")
	}

	var booking models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			if isRecordNotFound(err) {
				return notFound("Booking not found")
			}
			return fmt.Errorf("failed to load booking: %w", err)
		}
		if booking.CustomerID != actor.ID {
			return forbidden("Only the booking's customer can rate it")
		}
		if booking.Status != models.BookingCompleted {
			return newError(ErrInvalidState, "Only completed bookings can be rated")
		}
		if booking.IsRated() {
			return newError(ErrInvalidState, "Booking has already been rated")
		}

		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ? AND rating = ?", booking.ID, models.BookingCompleted, models.Unrated).
			Updates(map[string]interface{}{"rating": rating, "updated_at": time.Now()})
		if res.Error != nil {
			return fmt.Errorf("failed to rate booking: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return newError(ErrInvalidState, "Booking has already been rated")
		}
		booking.Rating = rating
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("booking_id", booking.ID).Int("rating", rating).Msg("booking rated")
	return &booking, nil
}

// PendingBookingCount is the number of Pending bookings waiting on a provider; 0 for everyone else
func (s *BookingService) PendingBookingCount(ctx context.Context, actor *models.User) (int64, error) {
	if !actor.IsProvider() {
		return 0, nil
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("provider_id = ? AND status = ?", actor.ID, models.BookingPending).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending bookings: %w", err)
	}
	return count, nil
}

// ListBookings returns the bookings visible to the actor, newest first:
// customers see their own, providers those made with them, admins all.
func (s *BookingService) ListBookings(ctx context.Context, actor *models.User) ([]models.Booking, error) {
	if actor == nil {
		return nil, unauthenticated()
	}

	q := s.db.WithContext(ctx).Preload("Service")
	switch actor.Role {
	case models.RoleCustomer:
		q = q.Where("customer_id = ?", actor.ID)
	case models.RoleProvider:
		q = q.Where("provider_id = ?", actor.ID)
	case models.RoleAdmin:
	default:
		return nil, forbidden("Unknown role")
	}

	var bookings []models.Booking
	if err := q.Order("created_at DESC, id DESC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// GetBooking returns one booking if the actor is its customer, its provider or an admin
func (s *BookingService) GetBooking(ctx context.Context, actor *models.User, id uint) (*models.Booking, error) {
	if actor == nil {
		return nil, unauthenticated()
	}

	var booking models.Booking
	if err := s.db.WithContext(ctx).Preload("Service").First(&booking, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Booking not found")
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if !actor.IsAdmin() && booking.CustomerID != actor.ID && booking.ProviderID != actor.ID {
		return nil, forbidden("You do not have access to this booking")
	}
	return &booking, nil
}
