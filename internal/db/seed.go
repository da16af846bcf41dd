package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prabhaspasupuleti/multywavewebbackend/internal/models"
	"github.com/prabhaspasupuleti/multywavewebbackend/internal/security"
	"gorm.io/gorm"
)

// SeedAdmin provisions an administrator account out-of-band. The password
// is hashed before storage. If the username already exists its password
// hash is replaced, so the operation is safe to repeat.
func SeedAdmin(conn *gorm.DB, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("db: seed admin: username and password are required")
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return fmt.Errorf("db: seed admin: hash password: %w", errHash)
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		var admin models.Admin
		errFind := tx.Where("username = ?", username).First(&admin).Error
		switch {
		case errors.Is(errFind, gorm.ErrRecordNotFound):
			admin = models.Admin{Username: username, Password: hash}
			if errCreate := tx.Create(&admin).Error; errCreate != nil {
				return fmt.Errorf("db: seed admin: create: %w", errCreate)
			}
			return nil
		case errFind != nil:
			return fmt.Errorf("db: seed admin: lookup: %w", errFind)
		default:
			if errUpdate := tx.Model(&admin).Update("password", hash).Error; errUpdate != nil {
				return fmt.Errorf("db: seed admin: update: %w", errUpdate)
			}
			return nil
		}
	})
}
