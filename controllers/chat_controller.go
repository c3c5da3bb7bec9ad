package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/middleware"
	"github.com/kendall-kelly/local-services-api/services"
)

// SendMessageRequest represents the request body for sending a chat message
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage handles POST /api/v1/chats/:userId/messages
func SendMessage(c *gin.Context) {
	counterpartID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	chat, err := services.NewChatService(config.GetDB()).PostChatMessage(c.Request.Context(), middleware.GetActor(c), counterpartID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, chat)
}

// ListMessages handles GET /api/v1/chats/:userId/messages - oldest message first
func ListMessages(c *gin.Context) {
	counterpartID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	messages, err := services.NewChatService(config.GetDB()).ListConversation(c.Request.Context(), middleware.GetActor(c), counterpartID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, messages)
}
