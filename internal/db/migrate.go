package db

import (
	"fmt"

	"github.com/prabhaspasupuleti/multywavewebbackend/internal/models"
	"gorm.io/gorm"
)

// Migrate applies schema migrations for all persisted entities.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errMigrate := conn.AutoMigrate(
		&models.Admin{},
		&models.Article{},
	); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	return nil
}
