package services

import (
	"context"
	"fmt"
	"time"

	"github.com/paradoks/clubhub/models"
	"github.com/paradoks/clubhub/utils"
	"gorm.io/gorm"
)

const (
	maxFailedAttempts = 5
	lockoutPeriod     = 15 * time.Minute
)

// verifyPassword checks password against cred and keeps the login counters
// of row (a *models.Club or *models.User) up to date. After five failures the
// principal is locked out for fifteen minutes.
func verifyPassword(ctx context.Context, db *gorm.DB, row interface{}, cred *models.Credentials, password string, now time.Time, failMsg string) error {
	attempts := cred.FailedLoginAttempts
	if attempts >= maxFailedAttempts && cred.LastFailedAttempt != nil {
		if cred.LastFailedAttempt.After(now.Add(-lockoutPeriod)) {
			return utils.TooManyRequests("Too many failed attempts. Please try again later.", map[string]string{
				"message":  "Too many failed attempts. Please try again later.",
				"cooldown": "15 minutes",
			})
		}
		// cooldown is over
		attempts = 0
	}

	if !utils.CheckPassword(cred.PasswordHash, password) {
		err := db.WithContext(ctx).Model(row).Updates(map[string]interface{}{
			"failed_login_attempts": attempts + 1,
			"last_failed_attempt":   now,
		}).Error
		if err != nil {
			return fmt.Errorf("record failed login: %w", err)
		}
		return utils.Unauthorized(failMsg)
	}

	err := db.WithContext(ctx).Model(row).Updates(map[string]interface{}{
		"last_login":            now,
		"failed_login_attempts": 0,
		"last_failed_attempt":   nil,
	}).Error
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}
