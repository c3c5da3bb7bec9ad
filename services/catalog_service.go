package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/kendall-kelly/local-services-api/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ServiceFilter narrows the public service listing.
// Both fields match case-insensitively anywhere in the column.
type ServiceFilter struct {
	Query    string // matched against the service name
	Location string // matched against the service location
}

// CreateServiceInput carries the fields of a new listing; Price is the raw form value
type CreateServiceInput struct {
	Name        string
	Description string
	Price       string
	Location    string
}

// CatalogService manages service listings
type CatalogService struct {
	db     *gorm.DB
	images ImageService
}

// NewCatalogService creates a catalog service. images may be nil when uploads are unused.
func NewCatalogService(db *gorm.DB, images ImageService) *CatalogService {
	return &CatalogService{db: db, images: images}
}

// likePattern builds a LIKE pattern for substring containment, escaping wildcards.
// Case folding is left to the database so both sides fold the same way.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// containsClause is a case-insensitive substring condition on column
func containsClause(column string) string {
	return fmt.Sprintf(`LOWER(%s) LIKE LOWER(?) ESCAPE '\'`, column)
}

// ListAvailableServices returns available services matching the filter, oldest first
func (s *CatalogService) ListAvailableServices(ctx context.Context, filter ServiceFilter) ([]models.Service, error) {
	q := s.db.WithContext(ctx).Where("is_available = ?", true)
	if query := strings.TrimSpace(filter.Query); query != "" {
		q = q.Where(containsClause("name"), likePattern(query))
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		q = q.Where(containsClause("location"), likePattern(location))
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	if err := s.decorate(ctx, services); err != nil {
		return nil, err
	}
	return services, nil
}

// NearbyServices returns available services whose location contains the actor's location.
// Anonymous actors and actors without a location get an empty list.
func (s *CatalogService) NearbyServices(ctx context.Context, actor *models.User) ([]models.Service, error) {
	if actor == nil || strings.TrimSpace(actor.Location) == "" {
		return []models.Service{}, nil
	}
	return s.ListAvailableServices(ctx, ServiceFilter{Location: actor.Location})
}

// ParsePrice parses a listing price; it must be a finite, non-negative number
func ParsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, invalidInput("Price must be a number")
	}
	if price < 0 {
		return 0, invalidInput("Price must not be negative")
	}
	return price, nil
}

// CreateService publishes a new, available listing for a provider
func (s *CatalogService) CreateService(ctx context.Context, actor *models.User, in CreateServiceInput) (*models.Service, error) {
	if actor == nil {
		return nil, unauthenticated()
	}
	if !actor.IsProvider() {
		return nil, forbidden("Only providers can create services")
	}

	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	location := strings.TrimSpace(in.Location)
	if name == "" || description == "" || location == "" {
		return nil, invalidInput("Name, description and location are required")
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	service := models.Service{
		ProviderID:  actor.ID,
		Name:        name,
		Description: description,
		Price:       price,
		Location:    location,
		IsAvailable: true,
	}
	if err := s.db.WithContext(ctx).Create(&service).Error; err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	log.Info().Uint("service_id", service.ID).Uint("provider_id", actor.ID).Msg("service created")
	return &service, nil
}

// GetService returns a listing with its provider and average rating
func (s *CatalogService) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	if err := s.db.WithContext(ctx).Preload("Provider").First(&service, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Service not found")
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}

	services := []models.Service{service}
	if err := s.decorate(ctx, services); err != nil {
		return nil, err
	}
	return &services[0], nil
}

// SetServiceAvailability toggles whether a listing can be booked.
// Only the owning provider or an admin may change it.
func (s *CatalogService) SetServiceAvailability(ctx context.Context, actor *models.User, id uint, available bool) (*models.Service, error) {
	if actor == nil {
		return nil, unauthenticated()
	}

	var service models.Service
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&service, id).Error; err != nil {
			if isRecordNotFound(err) {
				return notFound("Service not found")
			}
			return fmt.Errorf("failed to load service: %w", err)
		}
		if !actor.IsAdmin() && service.ProviderID != actor.ID {
			return forbidden("You can only change your own services")
		}
		if err := tx.Model(&service).Update("is_available", available).Error; err != nil {
			return fmt.Errorf("failed to update availability: %w", err)
		}
		service.IsAvailable = available
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("service_id", service.ID).Bool("available", available).Msg("service availability changed")
	return &service, nil
}

// ListProviderServices returns all of the provider's listings, available or not
func (s *CatalogService) ListProviderServices(ctx context.Context, actor *models.User) ([]models.Service, error) {
	if actor == nil {
		return nil, unauthenticated()
	}
	if !actor.IsProvider() {
		return nil, forbidden("Only providers have service listings")
	}

	var services []models.Service
	if err := s.db.WithContext(ctx).Where("provider_id = ?", actor.ID).Order("id ASC").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("failed to list provider services: %w", err)
	}
	if err := s.decorate(ctx, services); err != nil {
		return nil, err
	}
	return services, nil
}

// ServiceAvgRating is the mean of the non-zero ratings of a service's bookings,
// rounded to one decimal place. A service without ratings averages 0.
func (s *CatalogService) ServiceAvgRating(ctx context.Context, serviceID uint) (float64, error) {
	var avg sql.NullFloat64
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("AVG(rating)").
		Where("service_id = ? AND rating > 0", serviceID).
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute average rating: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return roundToTenth(avg.Float64), nil
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// AttachServiceImage uploads a listing image, replacing any previous one
func (s *CatalogService) AttachServiceImage(ctx context.Context, actor *models.User, id uint, fileHeader *multipart.FileHeader) (*models.Service, error) {
	if actor == nil {
		return nil, unauthenticated()
	}
	if s.images == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}

	var service models.Service
	if err := s.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("Service not found")
		}
		return nil, fmt.Errorf("failed to load service: %w", err)
	}
	if service.ProviderID != actor.ID {
		return nil, forbidden("You can only change your own services")
	}

	key, err := s.images.UploadImage(ctx, fileHeader)
	if err != nil {
		return nil, err
	}

	previous := service.ImageKey
	if err := s.db.WithContext(ctx).Model(&service).Update("image_key", key).Error; err != nil {
		if delErr := s.images.DeleteImage(ctx, key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to remove orphaned image")
		}
		return nil, fmt.Errorf("failed to save image key: %w", err)
	}
	if previous != nil {
		if err := s.images.DeleteImage(ctx, *previous); err != nil {
			log.Warn().Err(err).Str("key", *previous).Msg("failed to delete replaced image")
		}
	}

	return s.GetService(ctx, service.ID)
}

// decorate fills the computed AvgRating and ImageURL fields
func (s *CatalogService) decorate(ctx context.Context, services []models.Service) error {
	if len(services) == 0 {
		return nil
	}

	ids := make([]uint, len(services))
	for i := range services {
		ids[i] = services[i].ID
	}

	var rows []struct {
		ServiceID uint
		Avg       float64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("service_id, AVG(rating) AS avg").
		Where("service_id IN ? AND rating > 0", ids).
		Group("service_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to compute average ratings: %w", err)
	}

	averages := make(map[uint]float64, len(rows))
	for _, r := range rows {
		averages[r.ServiceID] = roundToTenth(r.Avg)
	}

	for i := range services {
		services[i].AvgRating = averages[services[i].ID]
		if services[i].ImageKey != nil && s.images != nil {
			url, err := s.images.GetImageURL(ctx, *services[i].ImageKey)
			if err != nil {
				log.Warn().Err(err).Uint("service_id", services[i].ID).Msg("failed to resolve image URL")
				continue
			}
			services[i].ImageURL = &url
		}
	}
	return nil
}
