package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/paradoks/clubhub/database/testdb"
	"github.com/paradoks/clubhub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedClub(t *testing.T, db *gorm.DB, name, email string) *models.Club {
	t.Helper()
	club := &models.Club{Name: name, Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(club).Error)
	return club
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{FirstName: "Ada", LastName: "Lovelace", Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newSession(principalID uint, token string, expiresIn time.Duration) *models.Session {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Session{
		PrincipalID: principalID,
		Token:       token,
		CreatedAt:   now,
		ExpiresAt:   now.Add(expiresIn),
		Active:      true,
	}
}

func TestGormStore_CreateAndFind(t *testing.T) {
	db := testdb.New(t)
	club := seedClub(t, db, "Chess", "chess@example.com")
	store := NewClubStore(db)
	ctx := context.Background()

	sess := newSession(club.ID, "11111111-1111-4111-8111-111111111111", time.Hour)
	require.NoError(t, store.Create(ctx, sess))
	assert.NotZero(t, sess.ID)

	got, err := store.FindActiveByToken(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, club.ID, got.PrincipalID)
	assert.True(t, got.Active)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

	_, err = store.FindActiveByToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	require.NoError(t, db.Table(ClubKind.SessionTable).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Table(UserKind.SessionTable).Count(&count).Error)
	assert.Zero(t, count, "club sessions never land in the user table")
}

func TestGormStore_TokenUnique(t *testing.T) {
	db := testdb.New(t)
	user := seedUser(t, db, "ada@example.com")
	store := NewUserStore(db)
	ctx := context.Background()

	token := "22222222-2222-4222-8222-222222222222"
	require.NoError(t, store.Create(ctx, newSession(user.ID, token, time.Hour)))
	assert.Error(t, store.Create(ctx, newSession(user.ID, token, time.Hour)))
}

func TestGormStore_Deactivate(t *testing.T) {
	db := testdb.New(t)
	user := seedUser(t, db, "ada@example.com")
	store := NewUserStore(db)
	ctx := context.Background()

	sess := newSession(user.ID, "33333333-3333-4333-8333-333333333333", time.Hour)
	require.NoError(t, store.Create(ctx, sess))
	require.NoError(t, store.Deactivate(ctx, sess.ID))
	require.NoError(t, store.Deactivate(ctx, sess.ID))

	_, err := store.FindActiveByToken(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)

	var row models.UserSession
	require.NoError(t, db.First(&row, sess.ID).Error)
	assert.False(t, row.Active, "row is kept, only flagged inactive")
}

func TestGormStore_PrincipalAndEmailLookups(t *testing.T) {
	db := testdb.New(t)
	club := seedClub(t, db, "Chess", "Chess@Example.com")
	other := seedClub(t, db, "Go", "go@example.com")
	store := NewClubStore(db)
	ctx := context.Background()

	older := newSession(club.ID, "44444444-4444-4444-8444-444444444444", time.Hour)
	newer := newSession(club.ID, "55555555-5555-4555-8555-555555555555", time.Hour)
	foreign := newSession(other.ID, "66666666-6666-4666-8666-666666666666", time.Hour)
	for _, s := range []*models.Session{older, newer, foreign} {
		require.NoError(t, store.Create(ctx, s))
	}

	got, err := store.FindActiveByPrincipal(ctx, club.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	got, err = store.FindActiveByEmail(ctx, "chess@example.com")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)
	assert.Equal(t, newer.Token, got.Token)

	require.NoError(t, store.Deactivate(ctx, newer.ID))
	got, err = store.FindActiveByEmail(ctx, "CHESS@example.com")
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)

	_, err = store.FindActiveByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindActiveByPrincipal(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ListActive(t *testing.T) {
	db := testdb.New(t)
	user := seedUser(t, db, "ada@example.com")
	store := NewUserStore(db)
	ctx := context.Background()

	live := newSession(user.ID, "77777777-7777-4777-8777-777777777777", time.Hour)
	expired := newSession(user.ID, "88888888-8888-4888-8888-888888888888", -time.Minute)
	revoked := newSession(user.ID, "99999999-9999-4999-8999-999999999999", time.Hour)
	for _, s := range []*models.Session{live, expired, revoked} {
		require.NoError(t, store.Create(ctx, s))
	}
	require.NoError(t, store.Deactivate(ctx, revoked.ID))

	list, err := store.ListActive(ctx, user.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, live.ID, list[0].ID)
}

func TestService_WithGormStore(t *testing.T) {
	db := testdb.New(t)
	user := seedUser(t, db, "ada@example.com")
	svc := NewService(NewUserStore(db), UserKind, WithLogger(quietLogger))
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, user.ID, 0)
	require.NoError(t, err)

	ok, err := svc.IsSessionValid(ctx, sess.Token)
	require.NoError(t, err)
	assert.False(t, ok)

	var row models.UserSession
	require.NoError(t, db.First(&row, sess.ID).Error)
	assert.False(t, row.Active, "expired session is flipped on first validation")

	live, err := svc.CreateSession(ctx, user.ID, 24)
	require.NoError(t, err)
	ok, err = svc.IsSessionValid(ctx, live.Token)
	require.NoError(t, err)
	assert.True(t, ok)
}
