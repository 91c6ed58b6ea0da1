package models

import (
	"time"
)

// VerificationCode holds a user registration until the emailed code is
// confirmed. The password is already hashed.
type VerificationCode struct {
	ID             uint      `gorm:"primarykey" json:"-"`
	Email          string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Code           string    `gorm:"size:6;not null" json:"code"`
	FirstName      string    `gorm:"not null" json:"first_name"`
	LastName       string    `gorm:"not null" json:"last_name"`
	PasswordHash   string    `gorm:"not null" json:"password_hash"`
	FailedAttempts int       `gorm:"not null;default:0" json:"failed_attempts"`
	ExpiresAt      time.Time `gorm:"not null" json:"expires_at"`
}
