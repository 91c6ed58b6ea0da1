package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/paradoks/clubhub/mailer"
	"github.com/paradoks/clubhub/models"
	"github.com/paradoks/clubhub/sessions"
	"github.com/paradoks/clubhub/utils"
	"gorm.io/gorm"
)

const (
	codeTTL = 15 * time.Minute

	// maxCodeAttempts wrong guesses revoke a pending code.
	maxCodeAttempts = 5
)

type RegisterUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type UserService struct {
	db       *gorm.DB
	sessions *sessions.Service
	codes    CodeStore
	mail     mailer.Sender
	cfg      Config
}

func NewUserService(db *gorm.DB, sessionService *sessions.Service, codes CodeStore, mail mailer.Sender, cfg Config) *UserService {
	return &UserService{
		db:       db,
		sessions: sessionService,
		codes:    codes,
		mail:     mail,
		cfg:      cfg.withDefaults(),
	}
}

// Register stores a pending registration and mails its verification code.
// The user is created by Verify.
func (s *UserService) Register(ctx context.Context, in RegisterUserInput) error {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := s.emailTaken(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return utils.Conflict("Email already in use")
	}

	pending, err := s.codes.Get(ctx, email)
	if err != nil {
		return err
	}
	if pending != nil {
		if s.cfg.Now().Before(pending.ExpiresAt) {
			return utils.BadRequest("A valid verification code has already been sent to this email. Please check your inbox.")
		}
		if err := s.codes.Delete(ctx, email); err != nil {
			return err
		}
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	code, err := newVerificationCode()
	if err != nil {
		return err
	}

	pending = &models.VerificationCode{
		Email:        email,
		Code:         code,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		ExpiresAt:    s.cfg.Now().UTC().Add(codeTTL),
	}
	if err := s.codes.Save(ctx, pending); err != nil {
		return err
	}

	subject, plain, html := mailer.VerificationMail(pending.FirstName, code)
	if err := s.mail.Send(ctx, email, subject, plain, html); err != nil {
		if delErr := s.codes.Delete(ctx, email); delErr != nil {
			s.cfg.Logger.ErrorContext(ctx, "failed to drop undelivered code", "email", email, "error", delErr)
		}
		return fmt.Errorf("send verification code: %w", err)
	}

	s.cfg.Logger.InfoContext(ctx, "verification code issued", "email", email)
	return nil
}

// Verify turns the pending registration for email into a user when code
// matches and has not expired.
func (s *UserService) Verify(ctx context.Context, email, code string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	taken, err := s.emailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		if err := s.codes.Delete(ctx, email); err != nil {
			return nil, err
		}
		return nil, utils.BadRequest("User already registered")
	}

	pending, err := s.codes.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, utils.BadRequest("Invalid email or verification code")
	}
	if !s.cfg.Now().Before(pending.ExpiresAt) {
		if err := s.codes.Delete(ctx, email); err != nil {
			return nil, err
		}
		return nil, utils.BadRequest("Verification code expired")
	}
	if subtle.ConstantTimeCompare([]byte(pending.Code), []byte(code)) != 1 {
		return nil, s.codeMismatch(ctx, pending)
	}

	user := &models.User{
		FirstName:    pending.FirstName,
		LastName:     pending.LastName,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		return nil, err
	}

	s.cfg.Logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// codeMismatch counts a wrong guess against pending and revokes it once
// maxCodeAttempts is reached.
func (s *UserService) codeMismatch(ctx context.Context, pending *models.VerificationCode) error {
	pending.FailedAttempts++
	if pending.FailedAttempts >= maxCodeAttempts {
		if err := s.codes.Delete(ctx, pending.Email); err != nil {
			return err
		}
		s.cfg.Logger.WarnContext(ctx, "verification code revoked", "email", pending.Email, "attempts", pending.FailedAttempts)
		return utils.TooManyRequests("Too many failed attempts", "Verification code revoked, please register again")
	}
	if err := s.codes.Save(ctx, pending); err != nil {
		return err
	}
	return utils.BadRequest("Invalid email or verification code")
}

// Login checks the credentials and opens a new user session.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.Session, *models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if isNotFound(err) {
		return nil, nil, utils.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if err := verifyPassword(ctx, s.db, &user, user.Credentials(), password, s.cfg.Now(), "Invalid email or password"); err != nil {
		if _, ok := utils.AsAPIError(err); ok {
			s.cfg.Logger.WarnContext(ctx, "user login rejected", "user_id", user.ID, "reason", err.Error())
		}
		return nil, nil, err
	}

	sess, err := s.sessions.CreateSession(ctx, user.ID, s.cfg.SessionHours)
	if err != nil {
		return nil, nil, err
	}

	s.cfg.Logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "session_id", sess.ID)
	return sess, &user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if isNotFound(err) {
		return nil, utils.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

// Delete removes the user together with its sessions and memberships.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM club_members WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("principal_id = ?", id).Delete(&models.UserSession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	s.cfg.Logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *UserService) emailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(email) = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return count > 0, nil
}

func newVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
