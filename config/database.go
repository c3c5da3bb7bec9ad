package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite://"

var DB *gorm.DB

// Dialector picks the gorm driver for a DATABASE_URL.
// "sqlite://<path>" opens a SQLite file, anything else is handed to postgres.
func Dialector(databaseURL string) gorm.Dialector {
	if strings.HasPrefix(databaseURL, sqlitePrefix) {
		return sqlite.Open(strings.TrimPrefix(databaseURL, sqlitePrefix))
	}
	return postgres.Open(databaseURL)
}

// ConnectDatabase opens the database described by cfg and configures the pool
func ConnectDatabase(cfg *Config) error {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(Dialector(cfg.DatabaseURL), gormCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	if strings.HasPrefix(cfg.DatabaseURL, sqlitePrefix) {
		// SQLite allows a single writer; serialize through one connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	DB = db
	log.Info().Str("driver", db.Dialector.Name()).Msg("Database connection established")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
