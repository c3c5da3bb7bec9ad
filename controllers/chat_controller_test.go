package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/kendall-kelly/local-services-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatEndpoints(t *testing.T) {
	db := setupTestDB(t)
	customer := createTestUser(t, db, "customer", models.RoleCustomer, "")
	provider := createTestUser(t, db, "provider", models.RoleProvider, "")
	otherCustomer := createTestUser(t, db, "other", models.RoleCustomer, "")

	send := setupTestRouter(customer, http.MethodPost, "/chats/:userId/messages", SendMessage)
	w, response := performRequest(t, send, http.MethodPost, fmt.Sprintf("/chats/%d/messages", provider.ID),
		map[string]interface{}{"message": "Hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "customer", response["data"].(map[string]interface{})["sender_role"])

	w, response = performRequest(t, send, http.MethodPost, fmt.Sprintf("/chats/%d/messages", otherCustomer.ID),
		map[string]interface{}{"message": "Hello"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(response))

	w, response = performRequest(t, send, http.MethodPost, "/chats/999/messages", map[string]interface{}{"message": "Hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	reply := setupTestRouter(provider, http.MethodPost, "/chats/:userId/messages", SendMessage)
	w, _ = performRequest(t, reply, http.MethodPost, fmt.Sprintf("/chats/%d/messages", customer.ID),
		map[string]interface{}{"message": "Hi there"})
	require.Equal(t, http.StatusCreated, w.Code)

	list := setupTestRouter(customer, http.MethodGet, "/chats/:userId/messages", ListMessages)
	w, response = performRequest(t, list, http.MethodGet, fmt.Sprintf("/chats/%d/messages", provider.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	messages := response["data"].([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "Hello", messages[0].(map[string]interface{})["message"])
	assert.Equal(t, "Hi there", messages[1].(map[string]interface{})["message"])
}
