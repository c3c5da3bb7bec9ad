package models

import (
	"time"
)

// Service represents a listing offered by a provider
type Service struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProviderID   uint      `gorm:"not null;index" json:"provider_id"` // foreign key to users table
	Provider     *User     `gorm:"foreignKey:ProviderID" json:"provider,omitempty"`
	Name         string    `gorm:"not null;size:100" json:"name"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Price        float64   `gorm:"not null;check:price >= 0" json:"price"`
	Location     string    `gorm:"not null;size:100" json:"location"`
	IsAvailable  bool      `gorm:"not null;index" json:"is_available"`
	BookingCount int       `gorm:"not null;default:0" json:"booking_count"`
	ImageKey     *string   `json:"-"`                          // nullable, storage key of the listing image
	ImageURL     *string   `gorm:"-" json:"image_url,omitempty"` // computed field
	AvgRating    float64   `gorm:"-" json:"avg_rating"`          // computed field, mean of non-zero booking ratings
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
