package controllers

import (
	"time"

	"github.com/paradoks/clubhub/models"
)

type ClubResponse struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Tags           []string `json:"tags"`
	ProfilePicture string   `json:"profilePicture"`
	Banner         string   `json:"banner"`
}

type UserResponse struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	DateCreated time.Time `json:"dateCreated"`
}

type PostResponse struct {
	ID           uint         `json:"id"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	Club         ClubResponse `json:"club"`
	CreationDate time.Time    `json:"creationDate"`
}

type AnnouncementResponse struct {
	ID       uint            `json:"id"`
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Date     time.Time       `json:"date"`
	EndDate  time.Time       `json:"endDate"`
	Severity models.Severity `json:"severity"`
}

type SessionResponse struct {
	ID             uint      `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	CurrentSession bool      `json:"current_session"`
}

func toClubResponse(c models.Club) ClubResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return ClubResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Tags:           tags,
		ProfilePicture: c.ProfilePicture,
		Banner:         c.Banner,
	}
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		DateCreated: u.CreatedAt,
	}
}

func toPostResponse(p models.Post) PostResponse {
	return PostResponse{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Club:         toClubResponse(p.Club),
		CreationDate: p.CreatedAt,
	}
}

func toAnnouncementResponse(a models.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:       a.ID,
		Title:    a.Title,
		Content:  a.Content,
		Date:     a.CreatedAt,
		EndDate:  a.EndDate,
		Severity: a.Severity,
	}
}
