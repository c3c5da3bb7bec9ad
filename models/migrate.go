package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every marketplace table.
// It only adds missing tables, columns and indexes; existing data is kept.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Service{},
		&Booking{},
		&Complaint{},
		&Chat{},
	)
}
