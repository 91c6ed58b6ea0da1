package database

import (
	"fmt"

	"github.com/paradoks/clubhub/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Club{},
		&models.User{},
		&models.ClubSession{},
		&models.UserSession{},
		&models.Post{},
		&models.Announcement{},
		&models.VerificationCode{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
