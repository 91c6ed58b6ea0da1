package models

import (
	"time"
)

type Post struct {
	ID        uint   `gorm:"primarykey"`
	Title     string `gorm:"size:255;not null"`
	Content   string `gorm:"type:text;not null"`
	ClubID    uint   `gorm:"not null;index"`
	Club      Club   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
