package models

import (
	"time"
)

type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

type Announcement struct {
	ID        uint     `gorm:"primarykey"`
	Title     string   `gorm:"not null"`
	Content   string   `gorm:"type:text"`
	Severity  Severity `gorm:"size:16;not null;default:INFO"`
	CreatedAt time.Time
	EndDate   time.Time `gorm:"not null;index"`
}
