package models

import (
	"time"
)

// Session is one issued login. Club and user sessions share this shape and
// live in separate tables with independent token namespaces.
type Session struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	PrincipalID uint      `gorm:"not null;index" json:"principal_id"`
	Token       string    `gorm:"size:36;uniqueIndex;not null" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	Active      bool      `gorm:"not null;index" json:"active"`
}

// SessionRecord gives generic session stores access to the shared columns of
// ClubSession and UserSession.
func (s *Session) SessionRecord() *Session {
	return s
}

type ClubSession struct {
	Session
	Club Club `gorm:"foreignKey:PrincipalID;constraint:OnDelete:CASCADE" json:"-"`
}

type UserSession struct {
	Session
	User User `gorm:"foreignKey:PrincipalID;constraint:OnDelete:CASCADE" json:"-"`
}
