package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/local-services-api/models"
	"gorm.io/gorm"
)

// Overview summarizes the marketplace for the admin dashboard
type Overview struct {
	Users           int64 `json:"users"`
	Customers       int64 `json:"customers"`
	Providers       int64 `json:"providers"`
	Services        int64 `json:"services"`
	Bookings        int64 `json:"bookings"`
	PendingBookings int64 `json:"pending_bookings"`
	OpenComplaints  int64 `json:"open_complaints"`
}

// AdminService backs the admin dashboard
type AdminService struct {
	db *gorm.DB
}

// NewAdminService creates an admin service
func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func requireAdmin(actor *models.User) error {
	if actor == nil {
		return unauthenticated()
	}
	if !actor.IsAdmin() {
		return forbidden("Admin access required")
	}
	return nil
}

// ListUsers returns every account ordered by id
func (s *AdminService) ListUsers(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Overview counts users, listings, bookings and unresolved complaints
func (s *AdminService) Overview(ctx context.Context, actor *models.User) (*Overview, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	var o Overview
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&o.Users, db.Model(&models.User{})},
		{&o.Customers, db.Model(&models.User{}).Where("role = ?", models.RoleCustomer)},
		{&o.Providers, db.Model(&models.User{}).Where("role = ?", models.RoleProvider)},
		{&o.Services, db.Model(&models.Service{})},
		{&o.Bookings, db.Model(&models.Booking{})},
		{&o.PendingBookings, db.Model(&models.Booking{}).Where("status = ?", models.BookingPending)},
		{&o.OpenComplaints, db.Model(&models.Complaint{}).
			Where("status IN ?", []string{models.ComplaintPending, models.ComplaintInProgress})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to build overview: %w", err)
		}
	}
	return &o, nil
}
