package models

import (
	"time"
)

type User struct {
	ID                  uint   `gorm:"primarykey"`
	FirstName           string `gorm:"size:50;not null"`
	LastName            string `gorm:"size:50;not null"`
	Email               string `gorm:"size:128;unique;not null"`
	PasswordHash        string `gorm:"not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	LastLogin           *time.Time
	FailedLoginAttempts int `gorm:"default:0"`
	LastFailedAttempt   *time.Time
}

func (u *User) Credentials() *Credentials {
	return &Credentials{
		ID:                  u.ID,
		Email:               u.Email,
		PasswordHash:        u.PasswordHash,
		FailedLoginAttempts: u.FailedLoginAttempts,
		LastFailedAttempt:   u.LastFailedAttempt,
	}
}
