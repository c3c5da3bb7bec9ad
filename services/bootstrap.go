package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/local-services-api/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Well-known credentials used when an admin is bootstrapped without explicit ones
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "admin123"
)

// ErrDefaultAdminInProduction stops startup when production would get the well-known admin password
var ErrDefaultAdminInProduction = errors.New("refusing to create the default admin account in production")

// AdminOptions controls creation of the initial admin account
type AdminOptions struct {
	Enabled    bool
	Username   string
	Email      string
	Password   string
	Production bool
}

// Bootstrap migrates the schema and, when enabled, makes sure an admin account exists
func Bootstrap(ctx context.Context, db *gorm.DB, hasher PasswordHasher, opts AdminOptions) error {
	if err := models.AutoMigrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info().Msg("Database migration completed successfully")

	if !opts.Enabled {
		return nil
	}
	return ensureAdmin(ctx, db, hasher, opts)
}

func ensureAdmin(ctx context.Context, db *gorm.DB, hasher PasswordHasher, opts AdminOptions) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look for an admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	username := strings.TrimSpace(opts.Username)
	if username == "" {
		username = DefaultAdminUsername
	}
	email := NormalizeEmail(opts.Email)
	password := opts.Password

	usingDefaults := false
	if email == "" {
		email = DefaultAdminEmail
		usingDefaults = true
	}
	if password == "" {
		password = DefaultAdminPassword
		usingDefaults = true
	}
	if usingDefaults {
		if opts.Production {
			return ErrDefaultAdminInProduction
		}
		log.Warn().Str("email", email).Msg("Creating admin with default credentials; set ADMIN_EMAIL and ADMIN_PASSWORD")
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := createUser(ctx, db, &admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info().Uint("user_id", admin.ID).Str("email", admin.Email).Msg("admin bootstrapped")
	return nil
}
