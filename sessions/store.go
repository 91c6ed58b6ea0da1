package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/paradoks/clubhub/models"
)

var ErrNotFound = errors.New("session not found")

// Store persists sessions of a single kind. Lookups that match nothing return
// ErrNotFound; any other error is a store failure.
type Store interface {
	Create(ctx context.Context, s *models.Session) error
	FindActiveByToken(ctx context.Context, token string) (*models.Session, error)
	Deactivate(ctx context.Context, id uint) error
	FindActiveByPrincipal(ctx context.Context, principalID uint) (*models.Session, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.Session, error)
	ListActive(ctx context.Context, principalID uint, now time.Time) ([]models.Session, error)
}
