package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/paradoks/clubhub/models"
	"github.com/paradoks/clubhub/sessions"
	"github.com/paradoks/clubhub/storage"
	"github.com/paradoks/clubhub/utils"
	"gorm.io/gorm"
)

var (
	clubSortColumns   = []string{"id", "name", "created_at"}
	postSortColumns   = []string{"id", "title", "created_at", "updated_at"}
	memberSortColumns = []string{"id", "first_name", "last_name", "created_at"}
)

type RegisterClubInput struct {
	Name     string
	Email    string
	Password string
}

// ClubUpdate carries the optional fields of a club update. Nil fields are
// left unchanged.
type ClubUpdate struct {
	Name        *string
	Description *string
	Tags        []string
}

type ClubService struct {
	db       *gorm.DB
	sessions *sessions.Service
	images   *storage.Images
	cfg      Config
}

func NewClubService(db *gorm.DB, sessionService *sessions.Service, images *storage.Images, cfg Config) *ClubService {
	return &ClubService{
		db:       db,
		sessions: sessionService,
		images:   images,
		cfg:      cfg.withDefaults(),
	}
}

func (s *ClubService) Register(ctx context.Context, in RegisterClubInput) (*models.Club, error) {
	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	club := &models.Club{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Club{}).Where("name = ?", club.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("check club name: %w", err)
		}
		if count > 0 {
			return utils.Conflict("Club with this name already exists")
		}

		if err := tx.Model(&models.Club{}).Where("LOWER(email) = ?", club.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("check club email: %w", err)
		}
		if count > 0 {
			return utils.Conflict("Club with this email already exists")
		}

		if err := tx.Create(club).Error; err != nil {
			return fmt.Errorf("create club: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Logger.InfoContext(ctx, "club registered", "club_id", club.ID)
	return club, nil
}

// Login checks the credentials and opens a new club session. An unknown email
// is a 404 "Invalid credentials", unlike UserService.Login which answers 401;
// a wrong password is 401 for both.
func (s *ClubService) Login(ctx context.Context, email, password string) (*models.Session, *models.Club, error) {
	var club models.Club
	err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&club).Error
	if isNotFound(err) {
		return nil, nil, utils.NotFound("Invalid credentials")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find club: %w", err)
	}

	if err := verifyPassword(ctx, s.db, &club, club.Credentials(), password, s.cfg.Now(), "Invalid credentials"); err != nil {
		if _, ok := utils.AsAPIError(err); ok {
			s.cfg.Logger.WarnContext(ctx, "club login rejected", "club_id", club.ID, "reason", err.Error())
		}
		return nil, nil, err
	}

	sess, err := s.sessions.CreateSession(ctx, club.ID, s.cfg.SessionHours)
	if err != nil {
		return nil, nil, err
	}

	s.cfg.Logger.InfoContext(ctx, "club logged in", "club_id", club.ID, "session_id", sess.ID)
	return sess, &club, nil
}

func (s *ClubService) Get(ctx context.Context, id uint) (*models.Club, error) {
	var club models.Club
	err := s.db.WithContext(ctx).First(&club, id).Error
	if isNotFound(err) {
		return nil, utils.NotFound("Club not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get club %d: %w", id, err)
	}
	return &club, nil
}

func (s *ClubService) List(ctx context.Context, p utils.PageParams) (utils.Paged[models.Club], error) {
	var (
		total int64
		clubs []models.Club
	)
	q := s.db.WithContext(ctx).Model(&models.Club{}).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return utils.Paged[models.Club]{}, fmt.Errorf("count clubs: %w", err)
	}
	if err := q.Scopes(p.Scope).Order(p.Order(clubSortColumns...)).Find(&clubs).Error; err != nil {
		return utils.Paged[models.Club]{}, fmt.Errorf("list clubs: %w", err)
	}
	return utils.NewPaged(clubs, p, total), nil
}

func (s *ClubService) Update(ctx context.Context, id uint, in ClubUpdate) (*models.Club, error) {
	club, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name != club.Name {
			var count int64
			err := s.db.WithContext(ctx).Model(&models.Club{}).
				Where("name = ? AND id <> ?", name, id).
				Count(&count).Error
			if err != nil {
				return nil, fmt.Errorf("check club name: %w", err)
			}
			if count > 0 {
				return nil, utils.Conflict("Club with this name already exists")
			}
		}
		club.Name = name
	}
	if in.Description != nil {
		club.Description = *in.Description
	}
	if in.Tags != nil {
		club.Tags = in.Tags
	}

	if err := s.db.WithContext(ctx).Omit("Members").Save(club).Error; err != nil {
		return nil, fmt.Errorf("update club %d: %w", id, err)
	}
	return club, nil
}

func (s *ClubService) UpdateDescription(ctx context.Context, id uint, description string) (*models.Club, error) {
	return s.Update(ctx, id, ClubUpdate{Description: &description})
}

func (s *ClubService) UpdateProfilePicture(ctx context.Context, id uint, up storage.Upload) (*models.Club, error) {
	return s.replaceImage(ctx, id, "profile_picture", up, s.images.SaveAvatar)
}

func (s *ClubService) UpdateBanner(ctx context.Context, id uint, up storage.Upload) (*models.Club, error) {
	return s.replaceImage(ctx, id, "banner", up, s.images.SaveBanner)
}

func (s *ClubService) replaceImage(ctx context.Context, id uint, column string, up storage.Upload, save func(storage.Upload) (string, error)) (*models.Club, error) {
	club, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := save(up)
	if err != nil {
		return nil, err
	}

	old := club.ProfilePicture
	if column == "banner" {
		old = club.Banner
	}

	if err := s.db.WithContext(ctx).Model(club).Update(column, url).Error; err != nil {
		s.images.Remove(url)
		return nil, fmt.Errorf("update club %s: %w", column, err)
	}
	if old != "" {
		s.images.Remove(old)
	}

	if column == "banner" {
		club.Banner = url
	} else {
		club.ProfilePicture = url
	}
	return club, nil
}

func (s *ClubService) ListPosts(ctx context.Context, id uint, p utils.PageParams) (utils.Paged[models.Post], error) {
	if _, err := s.Get(ctx, id); err != nil {
		return utils.Paged[models.Post]{}, err
	}

	var (
		total int64
		posts []models.Post
	)
	q := s.db.WithContext(ctx).Model(&models.Post{}).Where("club_id = ?", id).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return utils.Paged[models.Post]{}, fmt.Errorf("count posts: %w", err)
	}
	err := q.Preload("Club").Scopes(p.Scope).Order(p.Order(postSortColumns...)).Find(&posts).Error
	if err != nil {
		return utils.Paged[models.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	return utils.NewPaged(posts, p, total), nil
}

// ToggleMembership adds userID to the club's members, or removes it if it is
// already a member. It reports whether the user is a member afterwards.
func (s *ClubService) ToggleMembership(ctx context.Context, clubID, userID uint) (bool, error) {
	club, err := s.Get(ctx, clubID)
	if err != nil {
		return false, err
	}

	var user models.User
	err = s.db.WithContext(ctx).First(&user, userID).Error
	if isNotFound(err) {
		return false, utils.NotFound("User not found")
	}
	if err != nil {
		return false, fmt.Errorf("get user %d: %w", userID, err)
	}

	joined := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Table("club_members").
			Where("club_id = ? AND user_id = ?", clubID, userID).
			Count(&count).Error
		if err != nil {
			return err
		}

		members := tx.Model(club).Association("Members")
		if count > 0 {
			return members.Delete(&user)
		}
		joined = true
		return members.Append(&user)
	})
	if err != nil {
		return false, fmt.Errorf("toggle membership: %w", err)
	}

	s.cfg.Logger.InfoContext(ctx, "membership toggled", "club_id", clubID, "user_id", userID, "joined", joined)
	return joined, nil
}

func (s *ClubService) Members(ctx context.Context, id uint, p utils.PageParams) (utils.Paged[models.User], error) {
	if _, err := s.Get(ctx, id); err != nil {
		return utils.Paged[models.User]{}, err
	}

	var (
		total int64
		users []models.User
	)
	q := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN club_members ON club_members.user_id = users.id").
		Where("club_members.club_id = ?", id).
		Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return utils.Paged[models.User]{}, fmt.Errorf("count members: %w", err)
	}
	err := q.Scopes(p.Scope).Order("users." + p.Order(memberSortColumns...)).Find(&users).Error
	if err != nil {
		return utils.Paged[models.User]{}, fmt.Errorf("list members: %w", err)
	}
	return utils.NewPaged(users, p, total), nil
}
