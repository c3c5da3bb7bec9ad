package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/kendall-kelly/local-services-api/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database")

	// Every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.AutoMigrate(db), "Failed to migrate test database")
	return db
}

func testHasher() PasswordHasher {
	return NewBcryptHasher(bcrypt.MinCost)
}

func newTestIdentityService(db *gorm.DB) *IdentityService {
	return NewIdentityService(db, testHasher(), NewMemorySessionStore(time.Minute), NewSessionSigner(testSecret), time.Hour)
}

// createTestUser inserts a user with the given role and location directly
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

func createTestBooking(t *testing.T, db *gorm.DB, customer *models.User, service *models.Service, status string, rating int) *models.Booking {
	t.Helper()

	booking := models.Booking{
		CustomerID:   customer.ID,
		ProviderID:   service.ProviderID,
		ServiceID:    service.ID,
		CustomerName: customer.Username,
		Date:         "2024-06-01",
		Time:         "10:00",
		Status:       status,
		Rating:       rating,
	}
	require.NoError(t, db.Create(&booking).Error)
	return &booking
}

// createTestFileHeader builds a multipart.FileHeader holding content under filename
func createTestFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	require.NotEmpty(t, form.File["image"])
	return form.File["image"][0]
}
