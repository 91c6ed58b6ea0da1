package services

import (
	"context"
	"fmt"

	"github.com/paradoks/clubhub/models"
	"github.com/paradoks/clubhub/utils"
	"gorm.io/gorm"
)

type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

func (s *PostService) Create(ctx context.Context, clubID uint, title, content string) (*models.Post, error) {
	var club models.Club
	err := s.db.WithContext(ctx).First(&club, clubID).Error
	if isNotFound(err) {
		return nil, utils.NotFound("Club not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get club %d: %w", clubID, err)
	}

	post := &models.Post{Title: title, Content: content, ClubID: club.ID}
	if err := s.db.WithContext(ctx).Omit("Club").Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Club = club
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("Club").First(&post, id).Error
	if isNotFound(err) {
		return nil, utils.NotFound("Post not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return &post, nil
}

// Update rewrites a post. Only the owning club may do so.
func (s *PostService) Update(ctx context.Context, id, clubID uint, title, content string) (*models.Post, error) {
	post, err := s.owned(ctx, id, clubID, "You are not authorized to update this post")
	if err != nil {
		return nil, err
	}

	post.Title, post.Content = title, content
	err = s.db.WithContext(ctx).Model(post).Updates(map[string]interface{}{
		"title":   title,
		"content": content,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	return post, nil
}

// Delete removes a post. Only the owning club may do so.
func (s *PostService) Delete(ctx context.Context, id, clubID uint) error {
	post, err := s.owned(ctx, id, clubID, "You are not authorized to delete this post")
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Post{}, post.ID).Error; err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

func (s *PostService) owned(ctx context.Context, id, clubID uint, denied string) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.ClubID != clubID {
		return nil, utils.Unauthorized(denied)
	}
	return post, nil
}
