package controllers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/local-services-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestService(t *testing.T, db *gorm.DB, provider *models.User, name, location string, available bool) *models.Service {
	t.Helper()

	service := models.Service{
		ProviderID:  provider.ID,
		Name:        name,
		Description: name + " description",
		Price:       50,
		Location:    location,
		IsAvailable: available,
	}
	require.NoError(t, db.Create(&service).Error)
	return &service
}

func TestCreateService(t *testing.T) {
	db := setupTestDB(t)
	provider := createTestUser(t, db, "provider", models.RoleProvider, "Springfield")
	customer := createTestUser(t, db, "customer", models.RoleCustomer, "Springfield")

	tests := []struct {
		name           string
		actor          *models.User
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:  "Provider creates service",
			actor: provider,
			requestBody: map[string]interface{}{
				"name": "Plumbing", "description": "Pipes", "price": 50, "location": "Springfield",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:  "Price as numeric string",
			actor: provider,
			requestBody: map[string]interface{}{
				"name": "Heating", "description": "Boilers", "price": "75.5", "location": "Springfield",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:  "Customer is forbidden",
			actor: customer,
			requestBody: map[string]interface{}{
				"name": "Plumbing", "description": "Pipes", "price": 50, "location": "Springfield",
			},
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
		{
			name:  "Negative price",
			actor: provider,
			requestBody: map[string]interface{}{
				"name": "Plumbing", "description": "Pipes", "price": -5, "location": "Springfield",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:  "Price not a number",
			actor: provider,
			requestBody: map[string]interface{}{
				"name": "Plumbing", "description": "Pipes", "price": "fifty", "location": "Springfield",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Missing fields",
			actor:          provider,
			requestBody:    map[string]interface{}{"name": "Plumbing"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(tt.actor, http.MethodPost, "/services", CreateService)
			w, response := performRequest(t, router, http.MethodPost, "/services", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
				return
			}
			data := response["data"].(map[string]interface{})
			assert.Equal(t, true, data["is_available"])
			assert.Equal(t, float64(provider.ID), data["provider_id"])
		})
	}
}

func TestListServices(t *testing.T) {
	db := setupTestDB(t)
	provider := createTestUser(t, db, "provider", models.RoleProvider, "")
	createTestService(t, db, provider, "Plumbing", "Springfield", true)
	createTestService(t, db, provider, "Gardening", "Shelbyville", true)
	createTestService(t, db, provider, "Roofing", "Springfield", false)

	router := setupTestRouter(nil, http.MethodGet, "/services", ListServices)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Plumbing", "Gardening"}},
		{"?q=plumb", []string{"Plumbing"}},
		{"?location=SHELBY", []string{"Gardening"}},
		{"?q=roof", []string{}},
	}

	for _, tt := range tests {
		t.Run("query "+tt.query, func(t *testing.T) {
			w, response := performRequest(t, router, http.MethodGet, "/services"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)

			data, _ := response["data"].([]interface{})
			names := make([]string, 0, len(data))
			for _, item := range data {
				names = append(names, item.(map[string]interface{})["name"].(string))
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestNearbyAndGetService(t *testing.T) {
	db := setupTestDB(t)
	provider := createTestUser(t, db, "provider", models.RoleProvider, "")
	customer := createTestUser(t, db, "customer", models.RoleCustomer, "Springfield")
	service := createTestService(t, db, provider, "Plumbing", "Springfield", true)
	createTestService(t, db, provider, "Gardening", "Shelbyville", true)

	router := setupTestRouter(customer, http.MethodGet, "/services/nearby", NearbyServices)
	w, response := performRequest(t, router, http.MethodGet, "/services/nearby", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "Plumbing", data[0].(map[string]interface{})["name"])

	router = setupTestRouter(nil, http.MethodGet, "/services/:id", GetService)
	w, response = performRequest(t, router, http.MethodGet, fmt.Sprintf("/services/%d", service.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := response["data"].(map[string]interface{})
	assert.Equal(t, float64(0), got["avg_rating"])
	assert.Equal(t, "provider", got["provider"].(map[string]interface{})["username"])

	w, response = performRequest(t, router, http.MethodGet, "/services/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(response))

	w, response = performRequest(t, router, http.MethodGet, "/services/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(response))
}

func TestSetServiceAvailability(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleProvider, "")
	other := createTestUser(t, db, "other", models.RoleProvider, "")
	service := createTestService(t, db, owner, "Plumbing", "Springfield", true)
	path := fmt.Sprintf("/services/%d/availability", service.ID)

	tests := []struct {
		name           string
		actor          *models.User
		body           map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{"Other provider", other, map[string]interface{}{"available": false}, http.StatusForbidden, "FORBIDDEN"},
		{"Missing flag", owner, map[string]interface{}{}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"Owner hides listing", owner, map[string]interface{}{"available": false}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(tt.actor, http.MethodPatch, "/services/:id/availability", SetServiceAvailability)
			w, response := performRequest(t, router, http.MethodPatch, path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
			}
		})
	}

	var stored models.Service
	require.NoError(t, db.First(&stored, service.ID).Error)
	assert.False(t, stored.IsAvailable)
}

func TestUploadServiceImage(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleProvider, "")
	service := createTestService(t, db, owner, "Plumbing", "Springfield", true)
	router := setupTestRouter(owner, http.MethodPost, "/services/:id/image", UploadServiceImage)
	path := fmt.Sprintf("/services/%d/image", service.ID)

	upload := func(filename string, content []byte) *httptest.ResponseRecorder {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		if filename != "" {
			part, err := writer.CreateFormFile("image", filename)
			require.NoError(t, err)
			_, err = part.Write(content)
			require.NoError(t, err)
		}
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := upload("van.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "https://mock-storage.local/")

	w = upload("van.gif", []byte("GIF89a"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_FILE_FORMAT")

	w = upload("", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestListMyServices(t *testing.T) {
	db := setupTestDB(t)
	provider := createTestUser(t, db, "provider", models.RoleProvider, "")
	customer := createTestUser(t, db, "customer", models.RoleCustomer, "")
	createTestService(t, db, provider, "Plumbing", "Springfield", true)
	createTestService(t, db, provider, "Roofing", "Springfield", false)

	router := setupTestRouter(provider, http.MethodGet, "/provider/services", ListMyServices)
	w, response := performRequest(t, router, http.MethodGet, "/provider/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, response["data"].([]interface{}), 2)

	router = setupTestRouter(customer, http.MethodGet, "/provider/services", ListMyServices)
	w, _ = performRequest(t, router, http.MethodGet, "/provider/services", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
