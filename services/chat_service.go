package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kendall-kelly/local-services-api/models"
	"gorm.io/gorm"
)

// ChatService appends and reads messages between a customer and a provider
type ChatService struct {
	db *gorm.DB
}

// NewChatService creates a chat service
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{db: db}
}

// conversationPair resolves the (customer, provider) ids of the conversation
// between actor and counterpartID. Only customer<->provider pairs may talk.
func (s *ChatService) conversationPair(ctx context.Context, actor *models.User, counterpartID uint) (uint, uint, error) {
	if actor == nil {
		return 0, 0, unauthenticated()
	}
	if !actor.IsCustomer() && !actor.IsProvider() {
		return 0, 0, forbidden("Only customers and providers can chat")
	}

	var counterpart models.User
	if err := s.db.WithContext(ctx).First(&counterpart, counterpartID).Error; err != nil {
		if isRecordNotFound(err) {
			return 0, 0, notFound("User not found")
		}
		return 0, 0, fmt.Errorf("failed to load user: %w", err)
	}

	switch {
	case actor.IsCustomer() && counterpart.IsProvider():
		return actor.ID, counterpart.ID, nil
	case actor.IsProvider() && counterpart.IsCustomer():
		return counterpart.ID, actor.ID, nil
	}
	return 0, 0, forbidden("Conversations are only between a customer and a provider")
}

// PostChatMessage appends a message from actor to the conversation with counterpartID
func (s *ChatService) PostChatMessage(ctx context.Context, actor *models.User, counterpartID uint, text string) (*models.Chat, error) {
	customerID, providerID, err := s.conversationPair(ctx, actor, counterpartID)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalidInput("Message text is required")
	}

	chat := models.Chat{
		CustomerID: customerID,
		ProviderID: providerID,
		Message:    text,
		SenderRole: actor.Role,
	}
	if err := s.db.WithContext(ctx).Create(&chat).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return &chat, nil
}

// ListConversation returns the conversation with counterpartID, oldest message first
func (s *ChatService) ListConversation(ctx context.Context, actor *models.User, counterpartID uint) ([]models.Chat, error) {
	customerID, providerID, err := s.conversationPair(ctx, actor, counterpartID)
	if err != nil {
		return nil, err
	}

	var messages []models.Chat
	err = s.db.WithContext(ctx).
		Where("customer_id = ? AND provider_id = ?", customerID, providerID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}
