package models

import (
	"time"
)

type Club struct {
	ID                  uint     `gorm:"primarykey"`
	Name                string   `gorm:"size:100;unique;not null"`
	Email               string   `gorm:"unique;not null"`
	PasswordHash        string   `gorm:"not null"`
	Description         string   `gorm:"type:text"`
	Tags                []string `gorm:"serializer:json"`
	ProfilePicture      string
	Banner              string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	LastLogin           *time.Time
	FailedLoginAttempts int `gorm:"default:0"`
	LastFailedAttempt   *time.Time
	Members             []User `gorm:"many2many:club_members;constraint:OnDelete:CASCADE"`
}

func (c *Club) Credentials() *Credentials {
	return &Credentials{
		ID:                  c.ID,
		Email:               c.Email,
		PasswordHash:        c.PasswordHash,
		FailedLoginAttempts: c.FailedLoginAttempts,
		LastFailedAttempt:   c.LastFailedAttempt,
	}
}

// Credentials is the part of a principal row that login needs, independent of
// whether the principal is a club or a user.
type Credentials struct {
	ID                  uint
	Email               string
	PasswordHash        string
	FailedLoginAttempts int
	LastFailedAttempt   *time.Time
}
