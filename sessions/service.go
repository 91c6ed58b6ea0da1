package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/paradoks/clubhub/models"
)

// Service issues, validates and revokes the sessions of one principal kind.
// It is safe for concurrent use; the Store is the only shared state.
type Service struct {
	store  Store
	kind   Kind
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(store Store, kind Kind, opts ...Option) *Service {
	s := &Service{
		store:  store,
		kind:   kind,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_kind", kind.Name)
	return s
}

func (s *Service) Kind() Kind {
	return s.kind
}

// CreateSession issues a new session for principalID valid for validityHours.
// A non-positive validity yields a session that is already expired.
func (s *Service) CreateSession(ctx context.Context, principalID uint, validityHours int) (*models.Session, error) {
	now := s.now().UTC().Truncate(time.Microsecond)

	sess := &models.Session{
		PrincipalID: principalID,
		Token:       uuid.NewString(),
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(validityHours) * time.Hour),
		Active:      true,
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	s.logger.Debug("session created", "principal_id", principalID, "session_id", sess.ID)
	return sess, nil
}

// Validate returns the active session for token, or nil if the token is
// unknown, revoked or expired. An expired session is deactivated the first
// time it is seen. The error is non-nil only when the store fails.
func (s *Service) Validate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}

	sess, err := s.store.FindActiveByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !s.now().Before(sess.ExpiresAt) {
		if err := s.store.Deactivate(ctx, sess.ID); err != nil {
			return nil, err
		}
		s.logger.Debug("session expired", "principal_id", sess.PrincipalID, "session_id", sess.ID)
		return nil, nil
	}

	return sess, nil
}

func (s *Service) IsSessionValid(ctx context.Context, token string) (bool, error) {
	sess, err := s.Validate(ctx, token)
	return sess != nil, err
}

// InvalidateSession deactivates the active session holding token. Unknown or
// already inactive tokens are ignored.
func (s *Service) InvalidateSession(ctx context.Context, token string) error {
	sess, err := s.store.FindActiveByToken(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.store.Deactivate(ctx, sess.ID); err != nil {
		return err
	}
	s.logger.Debug("session invalidated", "principal_id", sess.PrincipalID, "session_id", sess.ID)
	return nil
}

// ActiveSession returns the newest active session of principalID, or nil.
func (s *Service) ActiveSession(ctx context.Context, principalID uint) (*models.Session, error) {
	return orNil(s.store.FindActiveByPrincipal(ctx, principalID))
}

// ActiveSessionByEmail returns the newest active session of the principal
// registered under email, or nil.
func (s *Service) ActiveSessionByEmail(ctx context.Context, email string) (*models.Session, error) {
	return orNil(s.store.FindActiveByEmail(ctx, email))
}

func (s *Service) ActiveSessions(ctx context.Context, principalID uint) ([]models.Session, error) {
	return s.store.ListActive(ctx, principalID, s.now())
}

// CurrentSession returns the session bound to ctx by the identity middleware.
// It returns nil when the request is anonymous or authenticated as another
// kind. Expiry is not re-checked: the middleware validated it for this request.
func (s *Service) CurrentSession(ctx context.Context) (*models.Session, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.Kind != s.kind.Name {
		return nil, nil
	}
	return orNil(s.store.FindActiveByToken(ctx, id.Token))
}

func orNil(sess *models.Session, err error) (*models.Session, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	return sess, nil
}
