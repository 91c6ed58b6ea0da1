package sessions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/paradoks/clubhub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestService(store Store, kind Kind, now *time.Time) *Service {
	return NewService(store, kind,
		WithClock(func() time.Time { return *now }),
		WithLogger(quietLogger),
	)
}

func TestService_CreateSession(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(NewMemoryStore(), ClubKind, &now)

	sess, err := svc.CreateSession(context.Background(), 7, 24)
	require.NoError(t, err)

	assert.NotZero(t, sess.ID)
	assert.Equal(t, uint(7), sess.PrincipalID)
	assert.Len(t, sess.Token, 36)
	assert.True(t, sess.Active)
	assert.Equal(t, now, sess.CreatedAt)
	assert.Equal(t, sess.CreatedAt.Add(24*time.Hour), sess.ExpiresAt)
}

func TestService_TwoSessionsSamePrincipal(t *testing.T) {
	now := time.Now()
	svc := newTestService(NewMemoryStore(), UserKind, &now)
	ctx := context.Background()

	a, err := svc.CreateSession(ctx, 1, 24)
	require.NoError(t, err)
	b, err := svc.CreateSession(ctx, 1, 24)
	require.NoError(t, err)

	assert.NotEqual(t, a.Token, b.Token)
	assert.NotEqual(t, a.ID, b.ID)

	for _, tok := range []string{a.Token, b.Token} {
		ok, err := svc.IsSessionValid(ctx, tok)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestService_IsSessionValid_UnknownToken(t *testing.T) {
	now := time.Now()
	svc := newTestService(NewMemoryStore(), ClubKind, &now)

	for _, tok := range []string{"", "not-a-token", "3f1c9d3e-0000-4000-8000-000000000000"} {
		ok, err := svc.IsSessionValid(context.Background(), tok)
		require.NoError(t, err)
		assert.False(t, ok, tok)
	}
}

func TestService_ExpiryIsTerminal(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start
	store := NewMemoryStore()
	svc := newTestService(store, ClubKind, &now)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, 3, 2)
	require.NoError(t, err)

	now = sess.ExpiresAt.Add(-time.Nanosecond)
	ok, err := svc.IsSessionValid(ctx, sess.Token)
	require.NoError(t, err)
	assert.True(t, ok, "valid strictly before expiry")

	now = sess.ExpiresAt
	ok, err = svc.IsSessionValid(ctx, sess.Token)
	require.NoError(t, err)
	assert.False(t, ok, "invalid at expiry")

	_, err = store.FindActiveByToken(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound, "expired session is deactivated")

	// turning the clock back never revives it
	now = start
	for i := 0; i < 3; i++ {
		ok, err = svc.IsSessionValid(ctx, sess.Token)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestService_ZeroValidity(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore()
	svc := newTestService(store, UserKind, &now)
	ctx := context.Background()

	for _, hours := range []int{0, -1} {
		sess, err := svc.CreateSession(ctx, 9, hours)
		require.NoError(t, err)
		assert.True(t, sess.Active)

		ok, err := svc.IsSessionValid(ctx, sess.Token)
		require.NoError(t, err)
		assert.False(t, ok)

		active, err := svc.ActiveSession(ctx, 9)
		require.NoError(t, err)
		assert.Nil(t, active)
	}
}

func TestService_InvalidateSession(t *testing.T) {
	now := time.Now()
	svc := newTestService(NewMemoryStore(), ClubKind, &now)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, 1, 24)
	require.NoError(t, err)

	require.NoError(t, svc.InvalidateSession(ctx, sess.Token))
	ok, err := svc.IsSessionValid(ctx, sess.Token)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, svc.InvalidateSession(ctx, sess.Token), "second call is a no-op")
	assert.NoError(t, svc.InvalidateSession(ctx, "unknown"))
}

func TestService_ConcurrentCreate(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore()
	svc := NewService(store, UserKind, WithLogger(quietLogger))
	ctx := context.Background()

	const n = 64
	var wg sync.WaitGroup
	tokens := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := svc.CreateSession(ctx, 42, 24)
			errs[i] = err
			if err == nil {
				tokens[i] = sess.Token
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[tokens[i]], "duplicate token")
		seen[tokens[i]] = true
	}

	list, err := store.ListActive(ctx, 42, now)
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestService_ActiveSessionLookups(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore()
	store.AddPrincipal(5, "Club@Example.com")
	svc := newTestService(store, ClubKind, &now)
	ctx := context.Background()

	none, err := svc.ActiveSession(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, none)

	first, err := svc.CreateSession(ctx, 5, 24)
	require.NoError(t, err)
	second, err := svc.CreateSession(ctx, 5, 24)
	require.NoError(t, err)

	got, err := svc.ActiveSession(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, second.ID, got.ID)

	require.NoError(t, svc.InvalidateSession(ctx, second.Token))

	got, err = svc.ActiveSessionByEmail(ctx, "club@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)

	got, err = svc.ActiveSessionByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := svc.ActiveSessions(ctx, 5)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestService_CurrentSession(t *testing.T) {
	now := time.Now()
	svc := newTestService(NewMemoryStore(), ClubKind, &now)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, 2, 24)
	require.NoError(t, err)

	got, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "anonymous request")

	userCtx := WithIdentity(ctx, Identity{Kind: UserKind.Name, PrincipalID: 2, Token: sess.Token})
	got, err = svc.CurrentSession(userCtx)
	require.NoError(t, err)
	assert.Nil(t, got, "identity of another kind")

	clubCtx := WithIdentity(ctx, Identity{Kind: ClubKind.Name, PrincipalID: 2, SessionID: sess.ID, Token: sess.Token})
	got, err = svc.CurrentSession(clubCtx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.ID, got.ID)

	require.NoError(t, svc.InvalidateSession(ctx, sess.Token))
	got, err = svc.CurrentSession(clubCtx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

type failingStore struct {
	*MemoryStore
}

var errStoreDown = errors.New("store down")

func (f *failingStore) FindActiveByToken(context.Context, string) (*models.Session, error) {
	return nil, errStoreDown
}

func (f *failingStore) Create(context.Context, *models.Session) error {
	return errStoreDown
}

func TestService_StoreFailurePropagates(t *testing.T) {
	now := time.Now()
	svc := newTestService(&failingStore{MemoryStore: NewMemoryStore()}, ClubKind, &now)
	ctx := context.Background()

	_, err := svc.CreateSession(ctx, 1, 24)
	assert.ErrorIs(t, err, errStoreDown)

	_, err = svc.IsSessionValid(ctx, "token")
	assert.ErrorIs(t, err, errStoreDown)

	err = svc.InvalidateSession(ctx, "token")
	assert.ErrorIs(t, err, errStoreDown)
}
