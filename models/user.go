package models

import (
	"time"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User represents an account in the marketplace (customer, provider or admin)
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null;size:150" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // bcrypt digest, never serialized
	Role         string    `gorm:"not null;default:'customer';index" json:"role"`
	Location     string    `gorm:"size:100" json:"location"` // free-form, matched by substring
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsCustomer reports whether the user books services
func (u *User) IsCustomer() bool {
	return u != nil && u.Role == RoleCustomer
}

// IsProvider reports whether the user offers services
func (u *User) IsProvider() bool {
	return u != nil && u.Role == RoleProvider
}

// IsAdmin reports whether the user administers the marketplace
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsValidRole reports whether role is one of the known roles
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}
