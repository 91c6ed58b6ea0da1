package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paradoks/clubhub/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is satisfied by pointers to the per-kind session models
// (models.ClubSession, models.UserSession).
type Record[T any] interface {
	*T
	SessionRecord() *models.Session
}

// GormStore is a Store backed by the session table of one principal kind.
type GormStore[T any, P Record[T]] struct {
	db   *gorm.DB
	kind Kind
}

func NewGormStore[T any, P Record[T]](db *gorm.DB, kind Kind) *GormStore[T, P] {
	return &GormStore[T, P]{db: db, kind: kind}
}

func NewClubStore(db *gorm.DB) *GormStore[models.ClubSession, *models.ClubSession] {
	return NewGormStore[models.ClubSession](db, ClubKind)
}

func NewUserStore(db *gorm.DB) *GormStore[models.UserSession, *models.UserSession] {
	return NewGormStore[models.UserSession](db, UserKind)
}

func (s *GormStore[T, P]) Create(ctx context.Context, sess *models.Session) error {
	var row T
	rec := P(&row)
	*rec.SessionRecord() = *sess

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return fmt.Errorf("create %s session: %w", s.kind.Name, err)
	}

	sess.ID = rec.SessionRecord().ID
	return nil
}

func (s *GormStore[T, P]) FindActiveByToken(ctx context.Context, token string) (*models.Session, error) {
	return s.take(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("token = ? AND active = ?", token, true)
	})
}

func (s *GormStore[T, P]) Deactivate(ctx context.Context, id uint) error {
	var row T
	err := s.db.WithContext(ctx).
		Model(P(&row)).
		Where("id = ?", id).
		Update("active", false).Error
	if err != nil {
		return fmt.Errorf("deactivate %s session %d: %w", s.kind.Name, id, err)
	}
	return nil
}

func (s *GormStore[T, P]) FindActiveByPrincipal(ctx context.Context, principalID uint) (*models.Session, error) {
	return s.take(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("principal_id = ? AND active = ?", principalID, true)
	})
}

func (s *GormStore[T, P]) FindActiveByEmail(ctx context.Context, email string) (*models.Session, error) {
	table, principals := s.kind.SessionTable, s.kind.PrincipalTable
	return s.take(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Select(table+".*").
			Joins(fmt.Sprintf("JOIN %s ON %s.id = %s.principal_id", principals, principals, table)).
			Where(fmt.Sprintf("LOWER(%s.email) = LOWER(?) AND %s.active = ?", principals, table), email, true)
	})
}

func (s *GormStore[T, P]) ListActive(ctx context.Context, principalID uint, now time.Time) ([]models.Session, error) {
	var rows []T
	err := s.db.WithContext(ctx).
		Where("principal_id = ? AND active = ? AND expires_at > ?", principalID, true, now.UTC()).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list %s sessions: %w", s.kind.Name, err)
	}

	out := make([]models.Session, 0, len(rows))
	for i := range rows {
		out = append(out, *P(&rows[i]).SessionRecord())
	}
	return out, nil
}

// take returns the newest row matched by scope.
func (s *GormStore[T, P]) take(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*models.Session, error) {
	var row T
	rec := P(&row)

	q := scope(s.db.WithContext(ctx).Model(rec))
	if err := q.Order(s.kind.SessionTable + ".id DESC").Take(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s session: %w", s.kind.Name, err)
	}

	sess := *rec.SessionRecord()
	return &sess, nil
}
