package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/paradoks/clubhub/models"
	"github.com/paradoks/clubhub/utils"
	"gorm.io/gorm"
)

type AnnouncementInput struct {
	Title    string
	Content  string
	Severity models.Severity
	EndDate  time.Time
}

type AnnouncementService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAnnouncementService(db *gorm.DB, cfg Config) *AnnouncementService {
	return &AnnouncementService{db: db, now: cfg.withDefaults().Now}
}

// List returns announcements whose end date has not passed, newest first.
func (s *AnnouncementService) List(ctx context.Context, p utils.PageParams) (utils.Paged[models.Announcement], error) {
	var (
		total int64
		rows  []models.Announcement
	)
	q := s.db.WithContext(ctx).Model(&models.Announcement{}).
		Where("end_date >= ?", s.now().UTC()).
		Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return utils.Paged[models.Announcement]{}, fmt.Errorf("count announcements: %w", err)
	}
	err := q.Scopes(p.Scope).Order("created_at DESC").Order("id DESC").Find(&rows).Error
	if err != nil {
		return utils.Paged[models.Announcement]{}, fmt.Errorf("list announcements: %w", err)
	}
	return utils.NewPaged(rows, p, total), nil
}

func (s *AnnouncementService) Create(ctx context.Context, in AnnouncementInput) (*models.Announcement, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, utils.BadRequest("Title is mandatory")
	}
	if in.Severity == "" {
		in.Severity = models.SeverityInfo
	}
	in.Severity = models.Severity(strings.ToUpper(string(in.Severity)))
	if !in.Severity.Valid() {
		return nil, utils.BadRequest("Severity must be one of INFO, WARNING, CRITICAL")
	}
	if !in.EndDate.After(s.now()) {
		return nil, utils.BadRequest("End date must be in the future")
	}

	a := &models.Announcement{
		Title:     in.Title,
		Content:   in.Content,
		Severity:  in.Severity,
		CreatedAt: s.now().UTC(),
		EndDate:   in.EndDate.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return a, nil
}
