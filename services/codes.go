package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/paradoks/clubhub/database"
	"github.com/paradoks/clubhub/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CodeStore keeps pending user registrations keyed by email.
type CodeStore interface {
	// Get returns nil when no registration is pending for email.
	Get(ctx context.Context, email string) (*models.VerificationCode, error)
	Save(ctx context.Context, code *models.VerificationCode) error
	Delete(ctx context.Context, email string) error
}

type GormCodeStore struct {
	db *gorm.DB
}

func NewGormCodeStore(db *gorm.DB) *GormCodeStore {
	return &GormCodeStore{db: db}
}

func (s *GormCodeStore) Get(ctx context.Context, email string) (*models.VerificationCode, error) {
	var code models.VerificationCode
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).Take(&code).Error
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get verification code: %w", err)
	}
	return &code, nil
}

// Save replaces any registration pending for the same email.
func (s *GormCodeStore) Save(ctx context.Context, code *models.VerificationCode) error {
	code.Email = strings.ToLower(code.Email)
	code.ID = 0
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "first_name", "last_name", "password_hash", "failed_attempts", "expires_at"}),
	}).Create(code).Error
	if err != nil {
		return fmt.Errorf("save verification code: %w", err)
	}
	return nil
}

func (s *GormCodeStore) Delete(ctx context.Context, email string) error {
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).Delete(&models.VerificationCode{}).Error
	if err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}

// RedisCodeStore keeps pending registrations in redis. Entries expire on
// their own once the code does.
type RedisCodeStore struct {
	redis *database.RedisClient
	now   func() time.Time
}

func NewRedisCodeStore(redis *database.RedisClient) *RedisCodeStore {
	return &RedisCodeStore{redis: redis, now: time.Now}
}

func codeKey(email string) string {
	return "verification:" + strings.ToLower(email)
}

func (s *RedisCodeStore) Get(ctx context.Context, email string) (*models.VerificationCode, error) {
	var code models.VerificationCode
	found, err := s.redis.GetJSON(ctx, codeKey(email), &code)
	if err != nil {
		return nil, fmt.Errorf("get verification code: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &code, nil
}

func (s *RedisCodeStore) Save(ctx context.Context, code *models.VerificationCode) error {
	code.Email = strings.ToLower(code.Email)
	ttl := code.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.SetJSON(ctx, codeKey(code.Email), code, ttl); err != nil {
		return fmt.Errorf("save verification code: %w", err)
	}
	return nil
}

func (s *RedisCodeStore) Delete(ctx context.Context, email string) error {
	if err := s.redis.Delete(ctx, codeKey(email)); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}
