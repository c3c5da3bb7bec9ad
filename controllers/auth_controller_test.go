package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/middleware"
	"github.com/kendall-kelly/local-services-api/models"
	"github.com/kendall-kelly/local-services-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.LoadActor())
	router.POST("/auth/register", Register)
	router.POST("/auth/login", Login)
	router.POST("/auth/logout", Logout)
	router.GET("/auth/me", middleware.RequireActor(), Me)
	return router
}

func TestRegister(t *testing.T) {
	setupTestDB(t)
	router := authRouter()

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successfully register provider",
			requestBody: map[string]interface{}{
				"username": "plumber",
				"email":    "plumber@example.com",
				"password": "password123",
				"role":     "provider",
				"location": "Springfield",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "plumber", data["username"])
				assert.Equal(t, "provider", data["role"])
				assert.NotContains(t, data, "password_hash")
				assert.NotContains(t, data, "PasswordHash")
			},
		},
		{
			name: "Duplicate email",
			requestBody: map[string]interface{}{
				"username": "other",
				"email":    "PLUMBER@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "DUPLICATE_EMAIL",
		},
		{
			name: "Duplicate username",
			requestBody: map[string]interface{}{
				"username": "plumber",
				"email":    "other@example.com",
				"password": "password123",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  "DUPLICATE_USERNAME",
		},
		{
			name: "Admin role rejected",
			requestBody: map[string]interface{}{
				"username": "root",
				"email":    "root@example.com",
				"password": "password123",
				"role":     "admin",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Missing fields",
			requestBody:    map[string]interface{}{"username": "x"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := performRequest(t, router, http.MethodPost, "/auth/register", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				assert.Equal(t, tt.expectedError, errorCode(response))
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestLoginSessionLifecycle(t *testing.T) {
	setupTestDB(t)
	router := authRouter()

	w, _ := performRequest(t, router, http.MethodPost, "/auth/register", map[string]interface{}{
		"username": "alice", "email": "alice@example.com", "password": "password123", "role": "provider",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("bad credentials share one message", func(t *testing.T) {
		w1, r1 := performRequest(t, router, http.MethodPost, "/auth/login", map[string]interface{}{
			"email": "alice@example.com", "password": "wrong-password",
		})
		w2, r2 := performRequest(t, router, http.MethodPost, "/auth/login", map[string]interface{}{
			"email": "nobody@example.com", "password": "password123",
		})

		assert.Equal(t, http.StatusUnauthorized, w1.Code)
		assert.Equal(t, http.StatusUnauthorized, w2.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(r1))
		assert.Equal(t, r1["error"], r2["error"])
	})

	w, response := performRequest(t, router, http.MethodPost, "/auth/login", map[string]interface{}{
		"email": "alice@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "/", data["landing"])
	token := data["token"].(string)

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.True(t, sessionCookie.HttpOnly)
	assert.Equal(t, token, sessionCookie.Value)

	me := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(sessionCookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := me()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	assert.Contains(t, rec.Body.String(), `"pending_bookings":0`)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(""))
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, me().Code, "session is gone after logout")
}

func TestMeRequiresSession(t *testing.T) {
	setupTestDB(t)
	router := authRouter()

	w, response := performRequest(t, router, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(response))
}

func TestLoginLandingForAdmin(t *testing.T) {
	db := setupTestDB(t)
	router := authRouter()

	hash, err := services.NewBcryptHasher(bcrypt.MinCost).Hash("password123")
	require.NoError(t, err)
	admin := models.User{Username: "boss", Email: "boss@example.com", PasswordHash: hash, Role: models.RoleAdmin}
	require.NoError(t, db.Create(&admin).Error)

	w, response := performRequest(t, router, http.MethodPost, "/auth/login", map[string]interface{}{
		"email": "boss@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/admin", response["data"].(map[string]interface{})["landing"])
}
