package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/middleware"
	"github.com/kendall-kelly/local-services-api/models"
	"github.com/kendall-kelly/local-services-api/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "controllers-test-secret-key-0123456789"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.AutoMigrate(db), "Failed to migrate test database")

	config.SetDB(db)
	services.SetIdentityService(services.NewIdentityService(
		db,
		services.NewBcryptHasher(bcrypt.MinCost),
		services.NewMemorySessionStore(time.Minute),
		services.NewSessionSigner(testSecret),
		time.Hour,
	))
	services.SetImageService(services.NewImageService(services.NewMockStorage()))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, role, location string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		PasswordHash: "not-a-real-hash",
		Role:         role,
		Location:     location,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// mockActorMiddleware stands in for the session middleware
func mockActorMiddleware(actor *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			middleware.SetActor(c, actor)
		}
		c.Next()
	}
}

// setupTestRouter registers a single handler behind a mocked actor
func setupTestRouter(actor *models.User, method, path string, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mockActorMiddleware(actor))
	router.Handle(method, path, handler)
	return router
}

// performRequest sends body as JSON and decodes the JSON response
func performRequest(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "response should be JSON: %s", w.Body.String())
	}
	return w, response
}

// errorCode returns error.code of an error envelope
func errorCode(response map[string]interface{}) string {
	errObj, ok := response["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	code, _ := errObj["code"].(string)
	return code
}
