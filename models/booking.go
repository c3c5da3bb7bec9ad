package models

import (
	"time"
)

// Booking statuses
const (
	BookingPending   = "Pending"
	BookingConfirmed = "Confirmed"
	BookingCompleted = "Completed"
	BookingCancelled = "Cancelled"
)

// Rating bounds; a rating of 0 means the booking has not been rated
const (
	Unrated   = 0
	MinRating = 1
	MaxRating = 5
)

// bookingTransitions lists the statuses reachable from each status
var bookingTransitions = map[string][]string{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// Booking represents a customer's reservation of a service
type Booking struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	CustomerID uint     `gorm:"not null;index" json:"customer_id"`
	ProviderID uint     `gorm:"not null;index:idx_bookings_provider_status" json:"provider_id"` // copied from the service at booking time
	ServiceID  uint     `gorm:"not null;index" json:"service_id"`
	Service    *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Customer   *User    `gorm:"foreignKey:CustomerID" json:"-"`
	Provider   *User    `gorm:"foreignKey:ProviderID" json:"-"`

	// Snapshot of the customer's details at booking time
	CustomerName string `gorm:"size:100" json:"customer_name"`
	Age          int    `json:"age"`
	Gender       string `gorm:"size:20" json:"gender"`
	Address      string `gorm:"size:200" json:"address"`

	Date          string    `gorm:"size:50" json:"date"` // stored and returned verbatim
	Time          string    `gorm:"size:50" json:"time"`
	PaymentMethod string    `gorm:"size:20" json:"payment_method"`
	Rating        int       `gorm:"not null;default:0" json:"rating"`
	Status        string    `gorm:"not null;default:'Pending';size:20;index:idx_bookings_provider_status" json:"status"`
	CreatedAt     time.Time `json:"timestamp"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// CanTransitionBooking reports whether a booking may move from one status to another
func CanTransitionBooking(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsRated reports whether the customer has already rated the booking
func (b *Booking) IsRated() bool {
	return b.Rating != Unrated
}
