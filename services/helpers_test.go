package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/paradoks/clubhub/database/testdb"
	"github.com/paradoks/clubhub/sessions"
	"github.com/paradoks/clubhub/storage"
	"github.com/paradoks/clubhub/utils"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type sentMail struct {
	to, subject, plain string
}

type captureSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *captureSender) Send(_ context.Context, to, subject, plain, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, plain: plain})
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func (s *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.sent)
	code := codePattern.FindString(s.sent[len(s.sent)-1].plain)
	require.NotEmpty(t, code)
	return code
}

type testEnv struct {
	db            *gorm.DB
	now           time.Time
	clubSessions  *sessions.Service
	userSessions  *sessions.Service
	images        *storage.Images
	mail          *captureSender
	clubs         *ClubService
	users         *UserService
	posts         *PostService
	announcements *AnnouncementService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		db:   testdb.New(t),
		now:  time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
		mail: &captureSender{},
	}
	clock := func() time.Time { return env.now }
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	images, err := storage.NewImages(filepath.Join(t.TempDir(), "uploads"), logger)
	require.NoError(t, err)
	env.images = images

	env.clubSessions = sessions.NewService(sessions.NewClubStore(env.db), sessions.ClubKind,
		sessions.WithClock(clock), sessions.WithLogger(logger))
	env.userSessions = sessions.NewService(sessions.NewUserStore(env.db), sessions.UserKind,
		sessions.WithClock(clock), sessions.WithLogger(logger))

	cfg := Config{BcryptCost: bcrypt.MinCost, SessionHours: 24, Logger: logger, Now: clock}
	env.clubs = NewClubService(env.db, env.clubSessions, images, cfg)
	env.users = NewUserService(env.db, env.userSessions, NewGormCodeStore(env.db), env.mail, cfg)
	env.posts = NewPostService(env.db)
	env.announcements = NewAnnouncementService(env.db, cfg)
	return env
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	apiErr, ok := utils.AsAPIError(err)
	require.True(t, ok, "expected APIError, got %v", err)
	require.Equal(t, status, apiErr.Status, apiErr.Message)
}
