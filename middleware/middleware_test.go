package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/models"
	"github.com/paradoks/clubhub/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	clubs, users *sessions.Service
	router       *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clubs: sessions.NewService(sessions.NewMemoryStore(), sessions.ClubKind, sessions.WithLogger(quiet)),
		users: sessions.NewService(sessions.NewMemoryStore(), sessions.UserKind, sessions.WithLogger(quiet)),
	}

	r := gin.New()
	r.Use(Identity(quiet, f.users, f.clubs))
	r.GET("/whoami", func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		ctxID, ctxOK := sessions.IdentityFromContext(c.Request.Context())
		assert.Equal(t, ok, ctxOK)
		assert.Equal(t, id, ctxID)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"kind": "anonymous"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"kind": id.Kind, "principal_id": id.PrincipalID})
	})
	r.GET("/club-only", RequireClub(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/user-only", RequireUser(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func whoami(t *testing.T, w *httptest.ResponseRecorder) (string, uint) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Kind        string `json:"kind"`
		PrincipalID uint   `json:"principal_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Kind, body.PrincipalID
}

func cookie(kind sessions.Kind, token string) *http.Cookie {
	return &http.Cookie{Name: kind.CookieName, Value: token}
}

func TestIdentity_Anonymous(t *testing.T) {
	f := newFixture(t)

	kind, _ := whoami(t, f.do(t, "/whoami"))
	assert.Equal(t, "anonymous", kind)

	kind, _ = whoami(t, f.do(t, "/whoami", cookie(sessions.ClubKind, "bogus"), cookie(sessions.UserKind, "bogus")))
	assert.Equal(t, "anonymous", kind)
}

func TestIdentity_SingleCookie(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	club, err := f.clubs.CreateSession(ctx, 11, 24)
	require.NoError(t, err)

	kind, id := whoami(t, f.do(t, "/whoami", cookie(sessions.ClubKind, club.Token)))
	assert.Equal(t, "club", kind)
	assert.Equal(t, uint(11), id)

	// a club token presented under the user cookie is not a user session
	kind, _ = whoami(t, f.do(t, "/whoami", cookie(sessions.UserKind, club.Token)))
	assert.Equal(t, "anonymous", kind)
}

func TestIdentity_UserBeforeClub(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	club, err := f.clubs.CreateSession(ctx, 11, 24)
	require.NoError(t, err)
	user, err := f.users.CreateSession(ctx, 22, 24)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		kind, id := whoami(t, f.do(t, "/whoami", cookie(sessions.ClubKind, club.Token), cookie(sessions.UserKind, user.Token)))
		assert.Equal(t, "user", kind)
		assert.Equal(t, uint(22), id)
	}

	// falls through to the club cookie once the user session is gone
	require.NoError(t, f.users.InvalidateSession(ctx, user.Token))
	kind, id := whoami(t, f.do(t, "/whoami", cookie(sessions.ClubKind, club.Token), cookie(sessions.UserKind, user.Token)))
	assert.Equal(t, "club", kind)
	assert.Equal(t, uint(11), id)
}

func TestIdentity_ExpiredSession(t *testing.T) {
	f := newFixture(t)

	sess, err := f.clubs.CreateSession(context.Background(), 11, 0)
	require.NoError(t, err)

	kind, _ := whoami(t, f.do(t, "/whoami", cookie(sessions.ClubKind, sess.Token)))
	assert.Equal(t, "anonymous", kind)
}

func TestRequireKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	club, err := f.clubs.CreateSession(ctx, 11, 24)
	require.NoError(t, err)
	user, err := f.users.CreateSession(ctx, 22, 24)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/club-only").Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/user-only").Code)

	assert.Equal(t, http.StatusNoContent, f.do(t, "/club-only", cookie(sessions.ClubKind, club.Token)).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/user-only", cookie(sessions.ClubKind, club.Token)).Code)

	assert.Equal(t, http.StatusNoContent, f.do(t, "/user-only", cookie(sessions.UserKind, user.Token)).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "/club-only", cookie(sessions.UserKind, user.Token)).Code)

	w := f.do(t, "/club-only")
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusUnauthorized), body["status"])
}

type brokenStore struct {
	*sessions.MemoryStore
}

func (brokenStore) FindActiveByToken(context.Context, string) (*models.Session, error) {
	return nil, errors.New("database is gone")
}

func TestIdentity_StoreFailure(t *testing.T) {
	svc := sessions.NewService(brokenStore{sessions.NewMemoryStore()}, sessions.ClubKind, sessions.WithLogger(quiet))
	var logged bytes.Buffer

	r := gin.New()
	r.Use(Identity(slog.New(slog.NewJSONHandler(&logged, nil)), svc))
	reached := false
	r.GET("/", func(c *gin.Context) { reached = true })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie(sessions.ClubKind, "anything"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, reached)
	assert.NotContains(t, w.Body.String(), "database is gone")
	assert.Contains(t, logged.String(), "session validation failed")
	assert.Contains(t, logged.String(), "database is gone")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	clubs := sessions.NewService(sessions.NewMemoryStore(), sessions.ClubKind, sessions.WithLogger(quiet))
	sess, err := clubs.CreateSession(context.Background(), 5, 24)
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestLogger(logger), Identity(quiet, clubs))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(cookie(sessions.ClubKind, sess.Token))
	r.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "request", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "/ping", line["path"])
	assert.Equal(t, float64(http.StatusTeapot), line["status"])
	assert.Equal(t, "club", line["principal_kind"])
}
