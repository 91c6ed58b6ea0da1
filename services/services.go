// Package services holds the business operations behind the HTTP handlers.
// Errors meant for clients are *utils.APIError; anything else is a store
// failure.
package services

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// Config carries the settings shared by all services.
type Config struct {
	BcryptCost   int
	SessionHours int
	Logger       *slog.Logger
	Now          func() time.Time
}

func (c Config) withDefaults() Config {
	if c.SessionHours == 0 {
		c.SessionHours = 24
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
