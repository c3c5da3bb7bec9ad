package models

import (
	"time"
)

// Complaint statuses
const (
	ComplaintPending    = "Pending"
	ComplaintInProgress = "In Progress"
	ComplaintResolved   = "Resolved"
	ComplaintDismissed  = "Dismissed"
)

// Complaint is a user-submitted report, optionally about a specific booking
type Complaint struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	BookingID *uint     `gorm:"index" json:"booking_id,omitempty"` // nullable
	Booking   *Booking  `gorm:"foreignKey:BookingID" json:"-"`
	Text      string    `gorm:"column:complaint_text;type:text;not null" json:"complaint_text"`
	Status    string    `gorm:"not null;default:'Pending';size:50" json:"status"`
	CreatedAt time.Time `json:"timestamp"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Complaint model
func (Complaint) TableName() string {
	return "complaints"
}

// IsValidComplaintStatus reports whether status is a known complaint status
func IsValidComplaintStatus(status string) bool {
	switch status {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved, ComplaintDismissed:
		return true
	}
	return false
}
