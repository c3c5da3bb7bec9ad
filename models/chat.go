package models

import (
	"time"
)

// Chat is one message in the conversation between a customer and a provider.
// Messages are append-only.
type Chat struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index:idx_chats_pair" json:"customer_id"`
	ProviderID uint      `gorm:"not null;index:idx_chats_pair" json:"provider_id"`
	Customer   *User     `gorm:"foreignKey:CustomerID" json:"-"`
	Provider   *User     `gorm:"foreignKey:ProviderID" json:"-"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	SenderRole string    `gorm:"not null;size:20" json:"sender_role"` // "customer" or "provider"
	CreatedAt  time.Time `json:"timestamp"`
}

// TableName specifies the table name for the Chat model
func (Chat) TableName() string {
	return "chats"
}
