package testutil

import (
	"context"
	"time"

	"github.com/kendall-kelly/local-services-api/config"
	"github.com/kendall-kelly/local-services-api/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestSecretKey signs sessions in tests
const TestSecretKey = "acceptance-test-secret-key-0123456789"

// TestConfig returns a configuration suitable for running the full router in tests
func TestConfig(uploadDir string) *config.Config {
	return &config.Config{
		DatabaseURL:        "sqlite://:memory:",
		Port:               "0",
		GoEnv:              "test",
		LogLevel:           "error",
		SecretKey:          TestSecretKey,
		SessionTTL:         time.Hour,
		BcryptCost:         bcrypt.MinCost,
		LoginRatePerMinute: 600,
		LoginBurst:         100,
		UploadDir:          uploadDir,
	}
}

// NewTestDB opens an empty in-memory SQLite database on a single connection
func NewTestDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// SetupApplication wires the same services main does, against db and local image storage
func SetupApplication(ctx context.Context, db *gorm.DB, cfg *config.Config, admin services.AdminOptions) error {
	config.SetConfig(cfg)
	config.SetDB(db)

	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	if err := services.Bootstrap(ctx, db, hasher, admin); err != nil {
		return err
	}

	store, err := services.InitSessionStore(ctx, "")
	if err != nil {
		return err
	}
	storage, err := services.InitStorage(ctx, cfg)
	if err != nil {
		return err
	}
	services.InitImageService(storage)
	services.InitIdentityService(db, hasher, store, services.NewSessionSigner(cfg.SecretKey), cfg.SessionTTL)
	return nil
}
